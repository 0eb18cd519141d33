// Package evdev reads key presses from Linux input devices, such as USB
// keypads and RFID readers that present themselves as keyboards.
package evdev

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"syscall"
)

type InputDevice struct {
	devname string
	fd      *os.File
}

func Open(devname string) (*InputDevice, error) {
	fd, err := os.Open(devname)
	if err != nil {
		return nil, err
	}
	dev := InputDevice{devname: devname, fd: fd}
	return &dev, nil
}

func (self *InputDevice) Name() string {
	return self.devname
}

// Grab the device exclusively, so keypresses do not also reach the console.
func (self *InputDevice) Grab() error {
	// taken from linux/input.h - hardcoded to avoid needing cgo.
	EVIOCGRAB := uintptr(0x40044590)
	_, _, err := syscall.RawSyscall(syscall.SYS_IOCTL, self.fd.Fd(), EVIOCGRAB, 1)
	if err != 0 {
		return err
	}
	return nil
}

// Read raw input_event structs, for use with ReadEvent.
func (self *InputDevice) Read(p []byte) (int, error) {
	return self.fd.Read(p)
}

func (self *InputDevice) ReadOne() (*InputEvent, error) {
	return ReadEvent(self.fd)
}

// ReadEvent decodes one input_event struct from r.
func ReadEvent(r io.Reader) (*InputEvent, error) {
	event := InputEvent{}
	buffer := make([]byte, eventsize)
	if _, err := io.ReadFull(r, buffer); err != nil {
		return &event, err
	}
	err := binary.Read(bytes.NewReader(buffer), binary.LittleEndian, &event)
	return &event, err
}

func (self *InputDevice) Close() error {
	return self.fd.Close()
}
