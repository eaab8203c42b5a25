// Package report turns reconciliation and installation progress into console output.
package report

import (
	"sync"
	"time"
)

// EventType identifies the type of progress event.
type EventType string

const (
	EventRunStarted        EventType = "run_started"
	EventFileStarted       EventType = "file_started"
	EventFileFailed        EventType = "file_failed"
	EventPackagesPending   EventType = "packages_pending"
	EventNothingToInstall  EventType = "nothing_to_install"
	EventPackageInstalling EventType = "package_installing"
	EventPackageInstalled  EventType = "package_installed"
	EventPackageSkipped    EventType = "package_skipped"
	EventPackageFailed     EventType = "package_failed"
	EventWarning           EventType = "warning"
	EventRunFinished       EventType = "run_finished"
)

// Event represents a progress event for observers (console printer, tests).
type Event struct {
	Type      EventType
	File      string
	Package   string
	Packages  []string
	Message   string
	Err       error
	Timestamp time.Time
}

// EventHandler is a callback for progress events.
type EventHandler func(event Event)

// Emit calls h with event if h is set, stamping the event time.
func (h EventHandler) Emit(event Event) {
	if h == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	h(event)
}

// Multi returns a handler that forwards each event to every non-nil handler.
func Multi(handlers ...EventHandler) EventHandler {
	return func(event Event) {
		for _, h := range handlers {
			h.Emit(event)
		}
	}
}

// Collector records events in memory.
type Collector struct {
	mu     sync.Mutex
	events []Event
}

// Handle records event. It can be used as an EventHandler.
func (c *Collector) Handle(event Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

// Events returns a copy of the recorded events.
func (c *Collector) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

// Types returns the recorded event types in order.
func (c *Collector) Types() []EventType {
	c.mu.Lock()
	defer c.mu.Unlock()
	types := make([]EventType, len(c.events))
	for i, e := range c.events {
		types[i] = e.Type
	}
	return types
}

// OfType returns the recorded events of type t.
func (c *Collector) OfType(t EventType) []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Event
	for _, e := range c.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
