// Package diag provides the diagnostics bus used by macro expansion.
//
// The diag package implements an observer pattern: the expansion engine
// publishes severity-tagged messages (from %echo, %warn, %error and from
// engine warnings) and any number of subscribers receive them. Nothing is
// written anywhere unless a sink is subscribed; WriterObserver provides
// the usual stderr sink.
package diag

import (
	"fmt"
	"io"
	"sync"
)

// Severity classifies a diagnostic message.
type Severity int

const (
	// SeverityInfo is informational output (%echo).
	SeverityInfo Severity = iota

	// SeverityWarn is a warning (%warn, engine warnings).
	SeverityWarn

	// SeverityError is an error report (%error).
	SeverityError
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Message is a single diagnostic event.
type Message struct {
	Severity Severity
	Text     string
}

// Observer is called for every published message.
type Observer func(Message)

// Notifier fans published messages out to subscribed observers.
// All methods are safe for concurrent use.
type Notifier struct {
	mu        sync.RWMutex
	observers map[int]Observer
	nextID    int
}

// New creates a Notifier with no subscribers.
func New() *Notifier {
	return &Notifier{observers: make(map[int]Observer)}
}

// Subscribe registers an observer and returns its subscription ID.
func (n *Notifier) Subscribe(o Observer) int {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.observers[id] = o
	return id
}

// Unsubscribe removes the observer with the given subscription ID.
func (n *Notifier) Unsubscribe(id int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.observers, id)
}

// Info publishes an informational message.
func (n *Notifier) Info(format string, args ...any) {
	n.publish(Message{Severity: SeverityInfo, Text: fmt.Sprintf(format, args...)})
}

// Warn publishes a warning.
func (n *Notifier) Warn(format string, args ...any) {
	n.publish(Message{Severity: SeverityWarn, Text: fmt.Sprintf(format, args...)})
}

// Error publishes an error report.
func (n *Notifier) Error(format string, args ...any) {
	n.publish(Message{Severity: SeverityError, Text: fmt.Sprintf(format, args...)})
}

func (n *Notifier) publish(m Message) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for _, o := range n.observers {
		o(m)
	}
}

// WriterObserver returns an observer that writes "severity: text" lines
// to w.
func WriterObserver(w io.Writer) Observer {
	return func(m Message) {
		fmt.Fprintf(w, "%s: %s\n", m.Severity, m.Text)
	}
}
