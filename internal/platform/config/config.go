package config

import "os"

// Config captures process-level configuration. Matcher thresholds live in
// the registry config package; this covers wiring only.
type Config struct {
	Addr string

	// PostgresURL selects the durable store. Empty means in-memory, which is
	// useful for local runs and tests but loses the registry on restart.
	PostgresURL string

	// RedisURL enables the batch run lock. Empty disables it.
	RedisURL string

	// KafkaBrokers enables the Kafka review-queue publisher. Empty falls
	// back to the structured-log publisher.
	KafkaBrokers string
	ReviewTopic  string
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	cfg := Config{
		Addr:         os.Getenv("FUNDREGISTRY_ADDR"),
		PostgresURL:  os.Getenv("FUNDREGISTRY_POSTGRES_URL"),
		RedisURL:     os.Getenv("FUNDREGISTRY_REDIS_URL"),
		KafkaBrokers: os.Getenv("FUNDREGISTRY_KAFKA_BROKERS"),
		ReviewTopic:  os.Getenv("FUNDREGISTRY_REVIEW_TOPIC"),
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.ReviewTopic == "" {
		cfg.ReviewTopic = "fund-match-review"
	}
	return cfg
}
