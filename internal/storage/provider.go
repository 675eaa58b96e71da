// Package storage defines the durable-storage port for the planner's
// persisted records.
package storage

import "errors"

// Record names for the four persisted aggregates.
const (
	RecordEvents      = "events"
	RecordCategories  = "categories"
	RecordTodos       = "todos"
	RecordTimePeriods = "time_periods"
)

// ErrRecordNotFound is returned when a record has never been written.
var ErrRecordNotFound = errors.New("storage: record not found")

// Names lists every record name.
func Names() []string {
	return []string{RecordEvents, RecordCategories, RecordTodos, RecordTimePeriods}
}

// Provider is the interface for durable record storage. The planner
// treats it as best effort: a read failure falls back to defaults, a
// write failure is logged and swallowed.
type Provider interface {
	// ReadRecord returns the serialized bytes of a record, or an error
	// wrapping ErrRecordNotFound when it does not exist.
	ReadRecord(name string) ([]byte, error)
	// WriteRecord durably replaces the record's content.
	WriteRecord(name string, data []byte) error
}
