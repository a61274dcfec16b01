//go:build windows

package main

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/tischda/chordkeys/internal/dom/memdom"
)

// defaultSource is the key source of the run command.
const defaultSource = "hook"

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	setWindowsHookExW   = user32.NewProc("SetWindowsHookExW")
	unhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	callNextHookEx      = user32.NewProc("CallNextHookEx")
	getAsyncKeyState    = user32.NewProc("GetAsyncKeyState")

	getMessageW        = user32.NewProc("GetMessageW")
	translateMessage   = user32.NewProc("TranslateMessage")
	dispatchMessageW   = user32.NewProc("DispatchMessageW")
	postThreadMessageW = user32.NewProc("PostThreadMessageW")

	getModuleHandleW = kernel32.NewProc("GetModuleHandleW")
)

type MSG struct {
	HWnd    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      struct{ X, Y int32 }
}

// KBDLLHOOKSTRUCT is the payload of a low-level keyboard hook event.
type KBDLLHOOKSTRUCT struct {
	VkCode      uint32
	ScanCode    uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

const (
	WH_KEYBOARD_LL = 13
	HC_ACTION      = 0

	WM_QUIT       = 0x0012
	WM_KEYDOWN    = 0x0100
	WM_SYSKEYDOWN = 0x0104

	LLKHF_INJECTED = 0x10

	VK_SHIFT   = 0x10
	VK_CONTROL = 0x11
	VK_MENU    = 0x12
)

var (
	// hookDaemon receives the events of the installed hook. Only one hook
	// exists per process.
	hookDaemon   *daemon
	hookCallback = syscall.NewCallback(keyboardProc)
)

// hookSource installs a WH_KEYBOARD_LL hook and runs a message loop on a
// locked OS thread. Keys a binding consumed are swallowed.
type hookSource struct{}

func newHookSource() (keySource, error) {
	return &hookSource{}, nil
}

func (h *hookSource) Run(ctx context.Context, d *daemon) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if hookDaemon != nil {
		return errors.New("keyboard hook already installed")
	}
	hookDaemon = d
	defer func() { hookDaemon = nil }()

	instance, _, _ := getModuleHandleW.Call(0)
	hook, _, err := setWindowsHookExW.Call(WH_KEYBOARD_LL, hookCallback, instance, 0)
	if hook == 0 {
		return fmt.Errorf("SetWindowsHookEx: %w", err)
	}
	defer unhookWindowsHookEx.Call(hook) //nolint:errcheck

	tid := windows.GetCurrentThreadId()
	stop := context.AfterFunc(ctx, func() {
		postThreadMessageW.Call(uintptr(tid), WM_QUIT, 0, 0) //nolint:errcheck
	})
	defer stop()

	logger.Info().Msg("Keyboard hook installed")
	messageLoop()
	logger.Info().Msg("Keyboard hook removed")
	return nil
}

// keyboardProc handles low-level keyboard events.
//
// Parameters:
//   - nCode: Hook code; only HC_ACTION events are processed.
//   - wparam: Keyboard message ID.
//   - lparam: Pointer to a KBDLLHOOKSTRUCT.
//
// Returns:
//   - uintptr: Non-zero to swallow the key, otherwise the next hook's result.
func keyboardProc(nCode int, wparam, lparam uintptr) uintptr {
	if nCode == HC_ACTION && (wparam == WM_KEYDOWN || wparam == WM_SYSKEYDOWN) && hookDaemon != nil {
		kb := (*KBDLLHOOKSTRUCT)(unsafe.Pointer(lparam))
		if kb.Flags&LLKHF_INJECTED == 0 {
			ev := hookDaemon.keyDown(int(kb.VkCode), heldModifiers())
			if ev.DefaultPrevented() {
				return 1
			}
		}
	}
	r, _, _ := callNextHookEx.Call(0, uintptr(nCode), wparam, lparam)
	return r
}

func heldModifiers() memdom.Mods {
	var mods memdom.Mods
	if keyHeld(VK_CONTROL) {
		mods |= memdom.Ctrl
	}
	if keyHeld(VK_SHIFT) {
		mods |= memdom.Shift
	}
	if keyHeld(VK_MENU) {
		mods |= memdom.Alt
	}
	return mods
}

func keyHeld(vk uintptr) bool {
	r, _, _ := getAsyncKeyState.Call(vk)
	return r&0x8000 != 0
}

// messageLoop runs the Windows message loop until WM_QUIT is received.
func messageLoop() {
	var msg MSG
	for {
		r, _, _ := getMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
		if int32(r) == 0 {
			break
		}
		if int32(r) == -1 {
			logger.Error().Err(windows.GetLastError()).Msg("GetMessage failed")
			continue
		}
		translateMessage.Call(uintptr(unsafe.Pointer(&msg))) //nolint:errcheck
		dispatchMessageW.Call(uintptr(unsafe.Pointer(&msg))) //nolint:errcheck
	}
}
