package config

import "time"

const (
	envPort            = "PORT"
	envAPIKey          = "SPORTRADAR_API_KEY"
	envBaseURL         = "SPORTRADAR_BASE_URL"
	envHTTPTimeout     = "SPORTRADAR_HTTP_TIMEOUT"
	envUseMockData     = "USE_MOCK_DATA"
	envCallsPerSecond  = "MAX_CALLS_PER_SECOND"
	envCallsPerMinute  = "MAX_CALLS_PER_MINUTE"
	envBackoffBase     = "BACKOFF_BASE"
	envBackoffMaxWaits = "BACKOFF_MAX_WAITS"
	envGameDataTTL     = "CACHE_TTL_GAME_DATA"
	envConnTestTTL     = "CACHE_TTL_CONNECTION_TEST"
	envScheduleTTL     = "CACHE_TTL_DAILY_SCHEDULE"
	envCompletedPath   = "COMPLETED_GAMES_PATH"
	envGameIDMapPath   = "GAME_ID_MAPPING_PATH"
	envBracketDataDir  = "BRACKET_DATA_DIR"
	envMetricsPort     = "METRICS_PORT"
	envMetricsOn       = "METRICS_ENABLED"
	envOtelEndpoint    = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService     = "OTEL_SERVICE_NAME"
	envOtelInsecure    = "OTEL_EXPORTER_OTLP_INSECURE"

	defaultPort        = "4000"
	defaultBaseURL     = "https://api.sportradar.com/ncaamb/trial/v8/en"
	defaultHTTPTimeout = 10 * time.Second

	// The sample credential shipped in .env templates; treated the same as
	// no credential at all.
	PlaceholderAPIKey = "your_api_key_here"

	// Trial-tier Sportradar quotas.
	defaultCallsPerSecond = 1
	defaultCallsPerMinute = 10
	defaultBackoffBase    = 2 * time.Second
	defaultBackoffWaits   = 8

	defaultGameDataTTL = time.Minute
	defaultConnTestTTL = 5 * time.Minute
	defaultScheduleTTL = time.Hour

	defaultCompletedPath = "data/completed-games.json"
	defaultMetricsPort   = "9090"
)
