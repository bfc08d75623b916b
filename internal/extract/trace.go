package extract

import "log/slog"

// Event is a single diagnostic record emitted by the engine while
// parsing. Fields are flat string pairs so sinks need no reflection.
type Event struct {
	Name   string
	Fields map[string]string
}

// TraceSink receives diagnostic events from the engine. Implementations
// must be cheap; the engine calls Record on the hot path.
type TraceSink interface {
	Record(ev Event)
}

// NopSink discards all events. It is the default sink.
type NopSink struct{}

// Record implements TraceSink.
func (NopSink) Record(Event) {}

// SlogSink forwards events to a slog logger at debug level.
type SlogSink struct {
	Logger *slog.Logger
}

// Record implements TraceSink.
func (s SlogSink) Record(ev Event) {
	lg := s.Logger
	if lg == nil {
		lg = slog.Default()
	}
	attrs := make([]any, 0, len(ev.Fields)*2)
	for k, val := range ev.Fields {
		attrs = append(attrs, slog.String(k, val))
	}
	lg.Debug("extract_"+ev.Name, attrs...)
}
