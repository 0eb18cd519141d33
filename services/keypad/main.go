// Service to read codes from a USB numeric keypad, for owners who would
// rather not use the touchscreen. Codes are passed to the kiosk, which checks
// them the same way as codes typed on screen.
//
// Warning: this 'grabs' the configured input device exclusively, so no other
// consoles will receive input from it anymore. Be sure you are grabbing the
// keypad, not the local keyboard.
package keypad

import (
	"io"
	"log"

	"github.com/pkg/errors"

	"github.com/smartklingel/klingel/lib/evdev"
	"github.com/smartklingel/klingel/pubsub"
	"github.com/smartklingel/klingel/services"
)

// MaxLength of a code, longer input is dropped.
const MaxLength = 8

func emit(code string) {
	// the code is never logged
	log.Println("Code entered on keypad")
	ev := pubsub.NewEvent("keypad", pubsub.Fields{"source": "keypad", "code": code})
	services.Bus.Emit(ev)
}

// readCodes reads key presses until r fails, calling emit for each code
// ended by enter. Backspace and escape clear the code.
func readCodes(r io.Reader, emit func(string)) error {
	code := ""
	for {
		ev, err := evdev.ReadEvent(r)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if !ev.IsKeyPress() {
			continue
		}
		switch ch := evdev.KeyRune(ev.Code); {
		case ch == '\n':
			if code != "" {
				emit(code)
			}
			code = ""
		case ch == '\b' || ch == 0x1b:
			code = ""
		case ch >= '0' && ch <= '9':
			if len(code) < MaxLength {
				code += string(ch)
			}
		}
	}
}

// Service keypad
type Service struct{}

func (self *Service) ID() string {
	return "keypad"
}

func (self *Service) Run() error {
	devname := services.Config.Keypad.Device
	if devname == "" {
		return errors.New("keypad device not configured")
	}
	dev, err := evdev.Open(devname)
	if err != nil {
		return err
	}
	defer dev.Close()

	err = dev.Grab()
	if err != nil {
		return errors.Wrap(err, "grabbing "+devname)
	}
	log.Println("Connected to", devname)
	return readCodes(dev, emit)
}
