package evdev

import (
	"syscall"
	"unsafe"
)

type InputEvent struct {
	Time  syscall.Timeval // time in seconds since epoch at which event occurred
	Type  uint16          // event type - one of ecodes.EV_*
	Code  uint16          // event code related to the event type
	Value int32           // event value related to the event type
}

var eventsize = int(unsafe.Sizeof(InputEvent{}))

const (
	EvKey      = 1
	KeyRelease = 0
	KeyPress   = 1
)

// Key codes from linux/input-event-codes.h
const (
	KeyEsc       = 1
	KeyBackspace = 14
	KeyEnter     = 28
	KeyKPEnter   = 96
)

var keypadDigits = map[uint16]rune{
	71: '7', 72: '8', 73: '9',
	75: '4', 76: '5', 77: '6',
	79: '1', 80: '2', 81: '3',
	82: '0',
}

// KeyRune maps a key code to the character a keypad sends: digits, '\n' for
// enter, '\b' for backspace and 0x1b for escape. Anything else is 0.
func KeyRune(code uint16) rune {
	switch {
	case code >= 2 && code <= 10:
		return rune(code-2) + '1'
	case code == 11:
		return '0'
	case code == KeyEnter || code == KeyKPEnter:
		return '\n'
	case code == KeyBackspace:
		return '\b'
	case code == KeyEsc:
		return 0x1b
	}
	return keypadDigits[code]
}

// IsKeyPress is true for the key down half of a key event.
func (ev *InputEvent) IsKeyPress() bool {
	return ev.Type == EvKey && ev.Value == KeyPress
}
