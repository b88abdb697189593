package server

import "time"

const (
	readTimeout  = 10 * time.Second
	writeTimeout = 30 * time.Second
	idleTimeout  = 60 * time.Second

	defaultBracketDataDir = "data"
)

// shutdownTimeout remains a var for tests to override.
var shutdownTimeout = 10 * time.Second
