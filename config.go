package surface

import (
	"time"

	"go.uber.org/zap"
)

// Config configures a Bridge. All fields are optional.
type Config struct {
	// Scale is the physical-per-logical pixel ratio (device pixel ratio).
	// Read once; non-positive values mean 1.
	Scale float64
	// ScreenWidth and ScreenHeight are the display size in logical pixels.
	// Screen reports them scaled to physical pixels.
	ScreenWidth, ScreenHeight int

	// StartURL is the content's start URL. A "debug" query parameter
	// pre-enables debug mode.
	StartURL string
	// Debug pre-enables debug mode.
	Debug bool

	// SettleDelay is how long registrations wait before measuring. Zero
	// means DefaultSettleDelay.
	SettleDelay time.Duration

	// Document resolves query locators. Registrations by query fail
	// without one.
	Document Document
	// Host is the outbound channel. Nil means no native bridge.
	Host HostChannel
	// Navigator opens URLs locally when Host is nil. Defaults to the
	// platform's browser launcher.
	Navigator Navigator

	// Logger receives diagnostics. Defaults to a no-op logger.
	Logger *zap.Logger
	// Clock drives settle delays. Defaults to the system clock.
	Clock Clock
}

// withDefaults fills zero-valued fields.
func (c Config) withDefaults() Config {
	if c.SettleDelay <= 0 {
		c.SettleDelay = DefaultSettleDelay
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.Clock == nil {
		c.Clock = systemClock{}
	}
	return c
}
