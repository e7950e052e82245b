package logging

import (
	"fmt"
	"log/slog"
)

// Diagnostics is the single sink for debug-mode tracing. Records are dropped
// unless the enabled func reports true at call time.
type Diagnostics struct {
	logger  *Logger
	enabled func() bool
}

func NewDiagnostics(logger *Logger, enabled func() bool) *Diagnostics {
	if logger == nil {
		panic("logging.NewDiagnostics: logger must not be nil")
	}
	if enabled == nil {
		enabled = func() bool { return false }
	}
	return &Diagnostics{logger: logger, enabled: enabled}
}

// Record logs a location/key/value triple at debug level. A nil receiver is a no-op.
func (d *Diagnostics) Record(location string, key string, value any) {
	if d == nil || !d.enabled() {
		return
	}
	d.logger.log(slog.LevelDebug, "diag "+location, []slog.Attr{
		Field("key", key),
		Field("value", fmt.Sprint(value)),
	}, true)
}
