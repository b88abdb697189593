package config

import "time"

// Config holds runtime configuration for the score sync service.
type Config struct {
	Port       string
	Sportradar SportradarConfig
	RateLimit  RateLimitConfig
	CacheTTL   CacheTTLConfig
	// ForceMock makes every sync cycle use synthetic payloads regardless of
	// game status. Individual requests may also force it via query param.
	ForceMock bool

	CompletedGamesPath string
	GameIDMappingPath  string
	BracketDataDir     string

	Metrics MetricsConfig
}

// SportradarConfig controls how the upstream client reaches the API.
type SportradarConfig struct {
	BaseURL     string
	APIKey      string
	Placeholder string
	HTTPTimeout time.Duration
}

// Configured reports whether a usable credential is present.
func (c SportradarConfig) Configured() bool {
	return c.APIKey != "" && c.APIKey != c.Placeholder
}

// RateLimitConfig carries the per-endpoint call ceilings and backoff knobs.
type RateLimitConfig struct {
	MaxCallsPerSecond int
	MaxCallsPerMinute int
	BaseBackoff       time.Duration
	MaxWaits          int
}

// CacheTTLConfig carries the response cache TTL classes.
type CacheTTLConfig struct {
	GameData       time.Duration
	ConnectionTest time.Duration
	DailySchedule  time.Duration
}

// MetricsConfig controls telemetry export.
type MetricsConfig struct {
	Enabled      bool
	Port         string
	ServiceName  string
	OtlpEndpoint string
	OtlpInsecure bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port: envOrDefault(envPort, defaultPort),
		Sportradar: SportradarConfig{
			BaseURL:     envOrDefault(envBaseURL, defaultBaseURL),
			APIKey:      envOrDefault(envAPIKey, ""),
			Placeholder: PlaceholderAPIKey,
			HTTPTimeout: durationEnvOrDefault(envHTTPTimeout, defaultHTTPTimeout),
		},
		RateLimit: RateLimitConfig{
			MaxCallsPerSecond: intEnvOrDefault(envCallsPerSecond, defaultCallsPerSecond),
			MaxCallsPerMinute: intEnvOrDefault(envCallsPerMinute, defaultCallsPerMinute),
			BaseBackoff:       durationEnvOrDefault(envBackoffBase, defaultBackoffBase),
			MaxWaits:          intEnvOrDefault(envBackoffMaxWaits, defaultBackoffWaits),
		},
		CacheTTL: CacheTTLConfig{
			GameData:       durationEnvOrDefault(envGameDataTTL, defaultGameDataTTL),
			ConnectionTest: durationEnvOrDefault(envConnTestTTL, defaultConnTestTTL),
			DailySchedule:  durationEnvOrDefault(envScheduleTTL, defaultScheduleTTL),
		},
		ForceMock:          boolEnvOrDefault(envUseMockData, true),
		CompletedGamesPath: envOrDefault(envCompletedPath, defaultCompletedPath),
		GameIDMappingPath:  envOrDefault(envGameIDMapPath, ""),
		BracketDataDir:     envOrDefault(envBracketDataDir, ""),
		Metrics:            loadMetrics(),
	}
}

func loadMetrics() MetricsConfig {
	return MetricsConfig{
		Enabled:      boolEnvOrDefault(envMetricsOn, false),
		Port:         envOrDefault(envMetricsPort, defaultMetricsPort),
		ServiceName:  envOrDefault(envOtelService, "bracket-score-sync"),
		OtlpEndpoint: envOrDefault(envOtelEndpoint, ""),
		OtlpInsecure: boolEnvOrDefault(envOtelInsecure, false),
	}
}
