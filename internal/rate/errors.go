package rate

import "errors"

var (
	// ErrRateLimited is an exported constant or variable used by the authorization layer.
	ErrRateLimited = errors.New("rate limited")
	// ErrRedisUnavailable is an exported constant or variable used by the authorization layer.
	ErrRedisUnavailable = errors.New("redis unavailable")
)
