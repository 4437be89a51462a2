package clipboard

import "fmt"

// Handle identifies a window in the viewer chain. Zero means none.
type Handle uintptr

// MessageKind is a window message number
type MessageKind uint32

// Messages of the viewer chain
const (
	MsgDrawClipboard MessageKind = 0x0308
	MsgChangeChain   MessageKind = 0x030D
)

// String returns the string representation of MessageKind
func (k MessageKind) String() string {
	switch k {
	case MsgDrawClipboard:
		return "draw_clipboard"
	case MsgChangeChain:
		return "change_chain"
	default:
		return fmt.Sprintf("message(0x%04X)", uint32(k))
	}
}

// Message is a window message as delivered to the window procedure
type Message struct {
	Kind   MessageKind
	WParam uintptr
	LParam uintptr
}

// DrawMessage is the notification sent when clipboard content changes
func DrawMessage() Message {
	return Message{Kind: MsgDrawClipboard}
}

// ChangeChainMessage announces that removed leaves the chain and next takes its place
func ChangeChainMessage(removed, next Handle) Message {
	return Message{Kind: MsgChangeChain, WParam: uintptr(removed), LParam: uintptr(next)}
}

// Removed is the viewer leaving the chain, valid for MsgChangeChain
func (m Message) Removed() Handle { return Handle(m.WParam) }

// Next is the successor of the removed viewer, valid for MsgChangeChain
func (m Message) Next() Handle { return Handle(m.LParam) }

// ContentType is the clipboard format currently available
type ContentType int

const (
	ContentNone ContentType = iota
	ContentText
	ContentImage
)

// String returns the string representation of ContentType
func (c ContentType) String() string {
	switch c {
	case ContentText:
		return "text"
	case ContentImage:
		return "image"
	default:
		return "none"
	}
}
