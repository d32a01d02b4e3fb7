// Package notice delivers short user-facing messages (toasts) about workflow outcomes.
package notice

import (
	"fmt"
	"io"
	"log"
	"sync"
)

// Kind classifies a notice.
type Kind string

const (
	KindSuccess      Kind = "success"
	KindError        Kind = "error"
	KindAuthRequired Kind = "auth_required"
	KindInfo         Kind = "info"
)

type Notice struct {
	Kind    Kind   `json:"kind"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Notifier shows notices to the user.
type Notifier interface {
	Notify(n Notice)
}

// AuthRequired is raised when a protected action is attempted while logged out.
func AuthRequired(action string) Notice {
	return Notice{
		Kind:    KindAuthRequired,
		Title:   "Authentication required",
		Message: fmt.Sprintf("Please log in to %s.", action),
	}
}

// LogNotifier writes notices to the standard logger.
type LogNotifier struct{}

func (LogNotifier) Notify(n Notice) {
	log.Printf("notice: [%s] %s: %s", n.Kind, n.Title, n.Message)
}

// Writer prints notices for a terminal user.
type Writer struct {
	mu  sync.Mutex
	out io.Writer
}

func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

func (w *Writer) Notify(n Notice) {
	w.mu.Lock()
	defer w.mu.Unlock()

	prefix := "✓"
	switch n.Kind {
	case KindError:
		prefix = "✗"
	case KindAuthRequired:
		prefix = "!"
	case KindInfo:
		prefix = "i"
	}
	if n.Message == "" {
		fmt.Fprintf(w.out, "%s %s\n", prefix, n.Title)
		return
	}
	fmt.Fprintf(w.out, "%s %s: %s\n", prefix, n.Title, n.Message)
}

// Recorder keeps every notice it receives.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// Notices returns a copy of the recorded notices.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

// Kinds returns the kind of each recorded notice in order.
func (r *Recorder) Kinds() []Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]Kind, len(r.notices))
	for i, n := range r.notices {
		kinds[i] = n.Kind
	}
	return kinds
}

// Multi fans a notice out to several notifiers.
type Multi []Notifier

func (m Multi) Notify(n Notice) {
	for _, notifier := range m {
		notifier.Notify(n)
	}
}
