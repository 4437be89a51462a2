package clipboard

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ytget/yt-thumbnail-grabber/internal/logging"
	"github.com/ytget/yt-thumbnail-grabber/internal/model"
)

// DefaultBuffer is the event channel capacity used when none is given
const DefaultBuffer = 16

// State of a Watcher
type State int

const (
	StateInactive State = iota
	StateActive
)

// String returns the string representation of State
func (s State) String() string {
	if s == StateActive {
		return "active"
	}
	return "inactive"
}

// Watcher is one link of the clipboard viewer chain. It turns draw
// notifications into ClipboardChangeEvents and keeps the chain intact.
type Watcher struct {
	host   Host
	events chan model.ClipboardChangeEvent
	log    *logrus.Entry

	// opMu serializes Start and Stop. Host calls may deliver messages
	// synchronously, so mu is never held across them.
	opMu  sync.Mutex
	mu    sync.Mutex
	state State
	self  Handle
	next  Handle
}

// NewWatcher creates an inactive watcher on host
func NewWatcher(host Host, buffer int) *Watcher {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Watcher{
		host:   host,
		events: make(chan model.ClipboardChangeEvent, buffer),
		log:    logging.WithComponent("clipboard"),
	}
}

// Events delivers clipboard changes. A full channel drops new events.
func (w *Watcher) Events() <-chan model.ClipboardChangeEvent {
	return w.events
}

// State returns the current state
func (w *Watcher) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Next returns the recorded successor in the chain
func (w *Watcher) Next() Handle {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.next
}

// Start registers self in the chain. Starting an active watcher does nothing.
func (w *Watcher) Start(self Handle) error {
	w.opMu.Lock()
	defer w.opMu.Unlock()

	if w.State() == StateActive {
		return nil
	}

	next, err := w.host.SetViewer(self)
	if err != nil {
		return fmt.Errorf("failed to join clipboard chain: %w", err)
	}

	w.mu.Lock()
	w.self, w.next, w.state = self, next, StateActive
	w.mu.Unlock()

	w.log.WithFields(logging.Fields{"self": self, "next": next}).Debug("Clipboard watcher started")
	return nil
}

// Stop removes the watcher from the chain and relinks its successor.
// Stopping an inactive watcher does nothing.
func (w *Watcher) Stop() error {
	w.opMu.Lock()
	defer w.opMu.Unlock()

	w.mu.Lock()
	if w.state != StateActive {
		w.mu.Unlock()
		return nil
	}
	self, next := w.self, w.next
	w.state, w.next = StateInactive, 0
	w.mu.Unlock()

	if err := w.host.ChangeChain(self, next); err != nil {
		return fmt.Errorf("failed to leave clipboard chain: %w", err)
	}
	w.log.WithField("self", self).Debug("Clipboard watcher stopped")
	return nil
}

// HandleMessage is the window procedure entry point. It reports whether
// msg was consumed.
func (w *Watcher) HandleMessage(msg Message) bool {
	switch msg.Kind {
	case MsgDrawClipboard:
		w.mu.Lock()
		active, next := w.state == StateActive, w.next
		w.mu.Unlock()
		if !active {
			return false
		}
		w.read()
		w.forward(next, msg)
		return true

	case MsgChangeChain:
		w.mu.Lock()
		if w.state != StateActive {
			w.mu.Unlock()
			return false
		}
		if msg.Removed() == w.next {
			w.next = msg.Next()
			w.mu.Unlock()
			w.log.WithField("next", msg.Next()).Debug("Clipboard successor changed")
			return true
		}
		next := w.next
		w.mu.Unlock()
		w.forward(next, msg)
		return true
	}
	return false
}

// read emits the current clipboard content, text first
func (w *Watcher) read() {
	switch w.host.ContentType() {
	case ContentText:
		text, err := w.host.ReadText()
		if err != nil {
			w.log.WithError(err).Warn("Failed to read clipboard text")
			return
		}
		w.emit(model.NewTextEvent(text))
	case ContentImage:
		img, err := w.host.ReadImage()
		if err != nil {
			w.log.WithError(err).Warn("Failed to read clipboard image")
			return
		}
		if img == nil {
			return
		}
		w.emit(model.NewImageEvent(img))
	}
}

func (w *Watcher) emit(ev model.ClipboardChangeEvent) {
	select {
	case w.events <- ev:
	default:
		w.log.WithField("kind", ev.Kind()).Warn("Clipboard event dropped, consumer is behind")
	}
}

func (w *Watcher) forward(next Handle, msg Message) {
	if next == 0 {
		return
	}
	if err := w.host.Forward(next, msg); err != nil {
		w.log.WithError(err).WithField("next", next).Warn("Failed to forward clipboard message")
	}
}
