package sportradar

import "time"

const (
	defaultBaseURL     = "https://api.sportradar.com/ncaamb/trial/v8/en"
	defaultHTTPTimeout = 10 * time.Second

	// Logical endpoints; each gets an independent rate-limit window.
	endpointGameData       = "game_data"
	endpointTestConnection = "test_connection"
	endpointDailySchedule  = "daily_schedule"

	// Future timestamps injected into a window after an upstream 429.
	ratePenaltyStamps = 5

	// Fallback wait suggested when a 429 carries no Retry-After header.
	defaultRetryAfter = 10 * time.Second

	cacheKeyConnTest = "api_connection_test"
)

func cacheKeyGame(gameID string) string {
	return "sportradar_game_" + gameID
}
