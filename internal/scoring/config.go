package scoring

// Config holds the signal weights and thresholds for the similarity scorer.
// The defaults are the calibrated production weights; they sum to 1.0 so the
// clamp on the final score only guards against rounding overshoot.
type Config struct {
	// Weights for the scoring signals
	TFIDFWeight       float64 `yaml:"tfidf_weight"`       // default: 0.4
	KeywordWeight     float64 `yaml:"keyword_weight"`     // default: 0.3
	EntityWeight      float64 `yaml:"entity_weight"`      // default: 0.2
	DescriptionWeight float64 `yaml:"description_weight"` // default: 0.1

	// Entity extraction threshold used by the entity-overlap signal
	EntityThreshold float64 `yaml:"entity_threshold"` // default: 0.3

	// Vectorizer settings
	NgramMin    int `yaml:"ngram_min"`    // default: 1
	NgramMax    int `yaml:"ngram_max"`    // default: 3
	MaxFeatures int `yaml:"max_features"` // default: 5000
}

// DefaultConfig returns the default scoring configuration.
func DefaultConfig() *Config {
	return &Config{
		TFIDFWeight:       0.4,
		KeywordWeight:     0.3,
		EntityWeight:      0.2,
		DescriptionWeight: 0.1,
		EntityThreshold:   0.3,
		NgramMin:          1,
		NgramMax:          3,
		MaxFeatures:       5000,
	}
}

// ApplyDefaults fills in zero values with defaults.
func (c *Config) ApplyDefaults() {
	defaults := DefaultConfig()

	if c.TFIDFWeight == 0 {
		c.TFIDFWeight = defaults.TFIDFWeight
	}
	if c.KeywordWeight == 0 {
		c.KeywordWeight = defaults.KeywordWeight
	}
	if c.EntityWeight == 0 {
		c.EntityWeight = defaults.EntityWeight
	}
	if c.DescriptionWeight == 0 {
		c.DescriptionWeight = defaults.DescriptionWeight
	}
	if c.EntityThreshold == 0 {
		c.EntityThreshold = defaults.EntityThreshold
	}
	if c.NgramMin == 0 {
		c.NgramMin = defaults.NgramMin
	}
	if c.NgramMax == 0 {
		c.NgramMax = defaults.NgramMax
	}
	if c.MaxFeatures == 0 {
		c.MaxFeatures = defaults.MaxFeatures
	}
}
