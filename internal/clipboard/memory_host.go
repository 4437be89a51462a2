package clipboard

import (
	"image"
	"sync"
)

// Forwarded records one message passed down the chain
type Forwarded struct {
	To  Handle
	Msg Message
}

// MemoryHost is an in-process Host with a scripted chain and content
type MemoryHost struct {
	mu        sync.Mutex
	successor Handle
	viewer    Handle
	content   ContentType
	text      string
	img       image.Image
	readErr   error
	forwarded []Forwarded
	removed   []Forwarded
}

// NewMemoryHost returns a host whose chain hands out successor on SetViewer
func NewMemoryHost(successor Handle) *MemoryHost {
	return &MemoryHost{successor: successor}
}

func (h *MemoryHost) SetViewer(self Handle) (Handle, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.viewer = self
	return h.successor, nil
}

func (h *MemoryHost) ChangeChain(remove, next Handle) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.viewer == remove {
		h.viewer = 0
	}
	h.removed = append(h.removed, Forwarded{To: next, Msg: ChangeChainMessage(remove, next)})
	return nil
}

func (h *MemoryHost) Forward(to Handle, msg Message) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.forwarded = append(h.forwarded, Forwarded{To: to, Msg: msg})
	return nil
}

func (h *MemoryHost) ContentType() ContentType {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.content
}

func (h *MemoryHost) ReadText() (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.text, h.readErr
}

func (h *MemoryHost) ReadImage() (image.Image, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.img, h.readErr
}

// SetText places text on the clipboard
func (h *MemoryHost) SetText(text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.content, h.text, h.img = ContentText, text, nil
}

// SetImage places an image on the clipboard
func (h *MemoryHost) SetImage(img image.Image) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.content, h.text, h.img = ContentImage, "", img
}

// Clear empties the clipboard
func (h *MemoryHost) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.content, h.text, h.img = ContentNone, "", nil
}

// SetReadError makes subsequent reads fail with err
func (h *MemoryHost) SetReadError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.readErr = err
}

// Viewer returns the handle currently registered through SetViewer
func (h *MemoryHost) Viewer() Handle {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.viewer
}

// Forwarded returns a copy of every forwarded message
func (h *MemoryHost) Forwarded() []Forwarded {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Forwarded(nil), h.forwarded...)
}

// Unlinked returns the ChangeChain calls made so far
func (h *MemoryHost) Unlinked() []Forwarded {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Forwarded(nil), h.removed...)
}
