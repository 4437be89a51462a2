package model

import "image"

// ClipboardContentKind tags the populated variant of a ClipboardChangeEvent
type ClipboardContentKind int

const (
	ClipboardText ClipboardContentKind = iota + 1
	ClipboardImage
)

// String returns the string representation of ClipboardContentKind
func (k ClipboardContentKind) String() string {
	switch k {
	case ClipboardText:
		return "text"
	case ClipboardImage:
		return "image"
	default:
		return "unknown"
	}
}

// ClipboardChangeEvent holds exactly one of Text or Image, selected by Kind.
// Build it with NewTextEvent or NewImageEvent.
type ClipboardChangeEvent struct {
	kind  ClipboardContentKind
	text  string
	image image.Image
}

// NewTextEvent creates a Text variant
func NewTextEvent(text string) ClipboardChangeEvent {
	return ClipboardChangeEvent{kind: ClipboardText, text: text}
}

// NewImageEvent creates an Image variant
func NewImageEvent(img image.Image) ClipboardChangeEvent {
	return ClipboardChangeEvent{kind: ClipboardImage, image: img}
}

// Kind returns the populated variant
func (e ClipboardChangeEvent) Kind() ClipboardContentKind { return e.kind }

// Text returns the text and whether this is a Text event
func (e ClipboardChangeEvent) Text() (string, bool) {
	return e.text, e.kind == ClipboardText
}

// Image returns the frame and whether this is an Image event
func (e ClipboardChangeEvent) Image() (image.Image, bool) {
	return e.image, e.kind == ClipboardImage
}
