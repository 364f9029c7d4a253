package relevance

// Expansions maps a topic to related keywords that also count as a match,
// at a lower weight than the topic itself. The table is injectable so
// deployments can tune it per audience.
type Expansions map[string][]string

// DefaultExpansions returns the built-in synonym table.
func DefaultExpansions() Expansions {
	return Expansions{
		"artificial intelligence": {
			"ai", "machine learning", "deep learning", "neural network", "llm", "chatgpt", "gpt",
		},
		"ai": {
			"artificial intelligence", "machine learning", "deep learning", "llm",
		},
		"climate change": {
			"global warming", "carbon emission", "renewable energy", "sustainability", "carbon footprint",
		},
		"technology": {
			"tech", "software", "hardware", "innovation", "digital", "computing",
		},
		"space exploration": {
			"nasa", "spacex", "mars", "rocket", "satellite", "astronaut", "space station",
		},
		"renewable energy": {
			"solar", "wind energy", "hydroelectric", "clean energy", "green energy",
		},
		"geopolitics": {
			"diplomacy", "sanctions", "foreign policy", "nato", "united nations",
		},
		"cybersecurity": {
			"security breach", "ransomware", "data leak", "vulnerability", "zero-day",
		},
	}
}
