package surface

import (
	"net/url"

	"go.uber.org/zap"
)

// debugQueryParam is the startup URL query flag that pre-enables debug mode.
const debugQueryParam = "debug"

// Diagnostics gates verbose logging. Debug mode only ever turns on; nothing
// turns it back off for the lifetime of the owning Bridge. It has no effect
// on hit testing or routing.
type Diagnostics struct {
	enabled bool
	log     *zap.Logger
}

func newDiagnostics(log *zap.Logger) *Diagnostics {
	return &Diagnostics{log: log}
}

// Enable turns debug mode on. Repeated calls are no-ops apart from the log line.
func (d *Diagnostics) Enable() {
	d.enabled = true
	d.log.Info("debug mode enabled manually")
}

// Enabled reports whether debug mode is on.
func (d *Diagnostics) Enabled() bool {
	return d.enabled
}

// Log emits msg when debug mode is on or force is set.
func (d *Diagnostics) Log(msg string, force bool, fields ...zap.Field) {
	if !d.enabled && !force {
		return
	}
	d.log.Info(msg, fields...)
}

// Warn always emits msg at warning level.
func (d *Diagnostics) Warn(msg string, fields ...zap.Field) {
	d.log.Warn(msg, fields...)
}

// enableFromURL turns debug mode on if rawURL carries the debug query flag.
// Unparseable URLs are ignored.
func (d *Diagnostics) enableFromURL(rawURL string) {
	if debugRequested(rawURL) {
		d.enableFrom("URL parameter")
	}
}

func (d *Diagnostics) enableFrom(source string) {
	d.enabled = true
	d.log.Info("debug mode enabled via " + source)
}

// debugRequested reports whether rawURL has a "debug" query parameter,
// with or without a value.
func debugRequested(rawURL string) bool {
	if rawURL == "" {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Query().Has(debugQueryParam)
}
