package resilience

import (
	"strings"
	"time"
)

const (
	defaultBreakerName      = "upstream"
	defaultFailureThreshold = 5
	defaultOpenTimeout      = 30 * time.Second
	defaultHalfOpenProbes   = 1
)

// CircuitBreakerConfig tunes the breaker in front of one upstream. Zero values
// mean "use the default"; Enabled is taken as given.
type CircuitBreakerConfig struct {
	Name             string
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

// WithDefaults names the breaker after fallbackName when unnamed and replaces
// non-positive limits with defaults.
func (c CircuitBreakerConfig) WithDefaults(fallbackName string) CircuitBreakerConfig {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		c.Name = strings.TrimSpace(fallbackName)
	}
	if c.Name == "" {
		c.Name = defaultBreakerName
	}
	if c.FailureThreshold < 1 {
		c.FailureThreshold = defaultFailureThreshold
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = defaultOpenTimeout
	}
	if c.HalfOpenMaxReq < 1 {
		c.HalfOpenMaxReq = defaultHalfOpenProbes
	}
	return c
}
