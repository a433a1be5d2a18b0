package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Model.MaxTokens == 0 {
		cfg.Model.MaxTokens = 256
	}
	if cfg.Recommend.DefaultTopK == 0 {
		cfg.Recommend.DefaultTopK = 5
	}
	if cfg.Recommend.MaxTopK == 0 {
		cfg.Recommend.MaxTopK = 100
	}
	cfg.Scoring.ApplyDefaults()
}
