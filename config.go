package portalauth

import (
	"errors"
	"time"
)

// Config defines a public type used by the portal authorization layer.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Session    SessionConfig
	RateLimit  RateLimitConfig
	Password   PasswordConfig
	CaseNumber CaseNumberConfig
	Audit      AuditConfig
	Metrics    MetricsConfig
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig defines a public type used by the portal authorization layer.
//
// SessionConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SessionConfig struct {
	RedisPrefix string
	// IdleWindow is the inactivity window after which a session expires.
	// Every authorized request restarts it.
	IdleWindow time.Duration
}

/*
====================================
RATE LIMIT CONFIG
====================================
*/

// RateLimitConfig defines a public type used by the portal authorization layer.
//
// RateLimitConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RateLimitConfig struct {
	MaxLoginAttempts int
	Window           time.Duration
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig defines a public type used by the portal authorization layer.
//
// PasswordConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type PasswordConfig struct {
	Memory        uint32 // in KB
	Time          uint32
	Parallelism   uint8
	SaltLength    uint32
	KeyLength     uint32
	MinLength     int
	RehashOnLogin bool
}

/*
====================================
CASE NUMBER CONFIG
====================================
*/

// CaseNumberConfig defines a public type used by the portal authorization layer.
//
// CaseNumberConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CaseNumberConfig struct {
	Prefix       string
	SuffixLength int
	// MaxGenerateAttempts bounds the generate-and-retry loop against the
	// store's uniqueness constraint.
	MaxGenerateAttempts int
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig defines a public type used by the portal authorization layer.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by the portal authorization layer.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

func defaultConfig() Config {
	return Config{
		Session: SessionConfig{
			RedisPrefix: "dgs",
			IdleWindow:  time.Hour,
		},
		RateLimit: RateLimitConfig{
			MaxLoginAttempts: 5,
			Window:           time.Minute,
		},
		Password: PasswordConfig{
			Memory:        65536,
			Time:          3,
			Parallelism:   2,
			SaltLength:    16,
			KeyLength:     32,
			MinLength:     8,
			RehashOnLogin: true,
		},
		CaseNumber: CaseNumberConfig{
			Prefix:              "DG-",
			SuffixLength:        6,
			MaxGenerateAttempts: 32,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

// DefaultConfig returns the library defaults: one-hour idle window, five
// login attempts per minute per origin, DG- case numbers, argon2id with
// 64 MB memory cost.
func DefaultConfig() Config {
	return defaultConfig()
}

func cloneConfig(cfg Config) Config {
	return cfg
}

/*
====================================
VALIDATION
====================================
*/

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	// Session
	if c.Session.RedisPrefix == "" {
		return errors.New("Session RedisPrefix must not be empty")
	}
	if c.Session.IdleWindow <= 0 {
		return errors.New("Session IdleWindow must be > 0")
	}

	// Rate limit
	if c.RateLimit.MaxLoginAttempts <= 0 {
		return errors.New("RateLimit MaxLoginAttempts must be > 0")
	}
	if c.RateLimit.Window <= 0 {
		return errors.New("RateLimit Window must be > 0")
	}

	// Password
	if c.Password.MinLength < 8 {
		return errors.New("Password MinLength must be >= 8")
	}

	// Case number
	if c.CaseNumber.Prefix == "" {
		return errors.New("CaseNumber Prefix must not be empty")
	}
	if c.CaseNumber.SuffixLength <= 0 {
		return errors.New("CaseNumber SuffixLength must be > 0")
	}
	if c.CaseNumber.MaxGenerateAttempts <= 0 {
		return errors.New("CaseNumber MaxGenerateAttempts must be > 0")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when Audit is enabled")
	}

	return nil
}
