//go:build windows

package clipboard

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sys/windows"
)

var (
	user32                   = windows.NewLazySystemDLL("user32.dll")
	procSetClipboardViewer   = user32.NewProc("SetClipboardViewer")
	procChangeClipboardChain = user32.NewProc("ChangeClipboardChain")
	procSendMessageW         = user32.NewProc("SendMessageW")
	procSetWindowLongPtrW    = user32.NewProc("SetWindowLongPtrW")
	procCallWindowProcW      = user32.NewProc("CallWindowProcW")

	kernel32         = windows.NewLazySystemDLL("kernel32.dll")
	procSetLastError = kernel32.NewProc("SetLastError")
)

// GWLP_WNDPROC
const gwlpWndProc = ^uintptr(3)

// WindowsHost joins the user32 clipboard viewer chain. Content is read
// through DesignHost.
type WindowsHost struct {
	*DesignHost
	prevProc uintptr
	watcher  *Watcher
}

// NewSystem returns the clipboard host for this platform
func NewSystem() (System, error) {
	d, err := NewDesignHost()
	if err != nil {
		return nil, err
	}
	return &WindowsHost{DesignHost: d}, nil
}

// callFresh calls p with the thread's last error cleared first, so the
// error it returns was set by p itself. It is nil when p set none.
func callFresh(p *windows.LazyProc, args ...uintptr) (uintptr, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	_, _, _ = procSetLastError.Call(0)
	r, _, err := p.Call(args...)
	if errors.Is(err, windows.ERROR_SUCCESS) {
		err = nil
	}
	return r, err
}

// SetViewer joins the chain. A zero next handle means self is the only viewer.
func (h *WindowsHost) SetViewer(self Handle) (Handle, error) {
	next, err := callFresh(procSetClipboardViewer, uintptr(self))
	return chainResult("SetClipboardViewer", next, err)
}

// ChangeChain ignores the BOOL result, user32 does not report it reliably
func (h *WindowsHost) ChangeChain(remove, next Handle) error {
	_, _, _ = procChangeClipboardChain.Call(uintptr(remove), uintptr(next))
	return nil
}

func (h *WindowsHost) Forward(to Handle, msg Message) error {
	_, _, _ = procSendMessageW.Call(uintptr(to), uintptr(msg.Kind), msg.WParam, msg.LParam)
	return nil
}

// Attach subclasses the window procedure of window so chain messages reach w.
// It must run on the thread that owns the window.
func (h *WindowsHost) Attach(_ context.Context, window uintptr, w *Watcher) (Handle, error) {
	if window == 0 {
		return 0, errors.New("no native window handle")
	}
	h.watcher = w
	prev, err := callFresh(procSetWindowLongPtrW, window, gwlpWndProc, windows.NewCallback(h.wndProc))
	if prev == 0 {
		if err == nil {
			err = errors.New("no previous window procedure")
		}
		return 0, fmt.Errorf("SetWindowLongPtrW: %w", err)
	}
	h.prevProc = prev
	return Handle(window), nil
}

func (h *WindowsHost) wndProc(hwnd, msg, wParam, lParam uintptr) uintptr {
	switch kind := MessageKind(msg); kind {
	case MsgDrawClipboard, MsgChangeChain:
		if h.watcher.HandleMessage(Message{Kind: kind, WParam: wParam, LParam: lParam}) {
			return 0
		}
	}
	ret, _, _ := procCallWindowProcW.Call(h.prevProc, hwnd, msg, wParam, lParam)
	return ret
}
