package providers

import "time"

const (
	// shutdownTimeout is the maximum time to wait for graceful shutdown of services.
	shutdownTimeout = 30 * time.Second

	// accessTokenDuration is how long issued access tokens stay valid.
	accessTokenDuration = 24 * time.Hour
)
