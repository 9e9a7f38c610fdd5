package logging

import "time"

// EventType names a phase of a table operation.
type EventType string

const (
	EventInsertStart   EventType = "insert_start"
	EventInsertEnd     EventType = "insert_end"
	EventUpdateStart   EventType = "update_start"
	EventUpdateEnd     EventType = "update_end"
	EventRemoveStart   EventType = "remove_start"
	EventRemoveEnd     EventType = "remove_end"
	EventQueryStart    EventType = "query_start"
	EventQueryEnd      EventType = "query_end"
	EventIndexBuilt    EventType = "index_built"
	EventIndexDropped  EventType = "index_dropped"
	EventValidateStart EventType = "validate_start"
	EventValidateEnd   EventType = "validate_end"
	EventTableDropped  EventType = "table_dropped"
)

// Event is a lifecycle event raised by a Table operation.
type Event struct {
	Type      EventType
	Table     string
	Timestamp time.Time
	Data      interface{}
}

// Observer receives Events from a Table. Implementations must not block;
// the store is single-threaded and synchronous, so a slow observer slows
// every caller.
type Observer interface {
	OnEvent(event Event)
}

// LoggingObserver forwards every Event to a *slog.Logger as structured
// fields, the only sanctioned path from the core to a logging transport.
type LoggingObserver struct {
	logger Logger
}

// Logger is the subset of *slog.Logger this package depends on, so tests
// can substitute a recorder without importing log/slog.
type Logger interface {
	Info(msg string, args ...interface{})
}

// NewLoggingObserver builds an observer that logs through logger.
func NewLoggingObserver(logger Logger) *LoggingObserver {
	return &LoggingObserver{logger: logger}
}

// OnEvent implements Observer.
func (lo *LoggingObserver) OnEvent(event Event) {
	if lo.logger == nil {
		return
	}
	lo.logger.Info("table_lifecycle",
		"event", event.Type,
		"table", event.Table,
		"timestamp", event.Timestamp,
		"data", event.Data,
	)
}
