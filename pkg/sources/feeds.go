package sources

// DefaultFeeds returns the built-in feed table: source identifier to feed
// URL. Profiles reference these ids in their sources list.
func DefaultFeeds() map[string]string {
	return map[string]string{
		// General and world news
		"bbc":             "http://feeds.bbci.co.uk/news/rss.xml",
		"bbc-world":       "http://feeds.bbci.co.uk/news/world/rss.xml",
		"aljazeera":       "https://www.aljazeera.com/xml/rss/all.xml",
		"nyt-world":       "https://rss.nytimes.com/services/xml/rss/nyt/World.xml",
		"le-monde":        "https://www.lemonde.fr/international/rss_full.xml",
		"economist":       "https://www.economist.com/international/rss.xml",
		"foreign-affairs": "https://www.foreignaffairs.com/rss.xml",
		"foreign-policy":  "https://foreignpolicy.com/feed/",
		"defense-news":    "https://www.defensenews.com/arc/outboundfeeds/rss/",

		// Tech press
		"techcrunch":      "http://feeds.feedburner.com/TechCrunch",
		"ars-technica":    "http://feeds.arstechnica.com/arstechnica/index",
		"wired":           "https://www.wired.com/feed/rss",
		"the-verge":       "https://www.theverge.com/rss/index.xml",
		"engadget":        "https://www.engadget.com/rss.xml",
		"venturebeat":     "https://venturebeat.com/feed/",
		"zdnet":           "https://www.zdnet.com/news/rss.xml",
		"mit-tech-review": "https://www.technologyreview.com/feed/",

		// Developer communities
		"hacker-news":        "https://hnrss.org/frontpage",
		"dev-to":             "https://dev.to/feed",
		"lobsters":           "https://lobste.rs/rss",
		"stackoverflow-blog": "https://stackoverflow.blog/feed/",
		"freecodecamp":       "https://www.freecodecamp.org/news/rss/",
		"infoq":              "https://feed.infoq.com/",

		// Cloud and engineering blogs
		"aws-blog":           "https://aws.amazon.com/blogs/aws/feed/",
		"google-cloud-blog":  "https://cloud.google.com/blog/rss/",
		"kubernetes-blog":    "https://kubernetes.io/feed.xml",
		"netflix-tech":       "https://netflixtechblog.com/feed",
		"uber-engineering":   "https://eng.uber.com/feed/",
		"spotify-engineering": "https://engineering.atspotify.com/feed/",
	}
}
