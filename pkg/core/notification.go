package core

import "time"

// Level classifies a user-facing notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notification describes the outcome of one mutation.
type Notification struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
	// Degraded is set when the outcome was persisted through the fallback backend.
	Degraded bool `json:"degraded,omitempty"`
}

// String implements fmt.Stringer.
func (n Notification) String() string {
	return string(n.Level) + ": " + n.Message
}

// Notifier receives notifications. Implementations must not block.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

// Notify implements Notifier.
func (f NotifierFunc) Notify(n Notification) { f(n) }

// Discard drops every notification.
var Discard Notifier = NotifierFunc(func(Notification) {})
