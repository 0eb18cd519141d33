package hardware

import (
	"io"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/tarm/serial"

	"github.com/smartklingel/klingel/config"
)

// The arduino sketch switches a bank of relays based on received ASCII code:
// 65=relay #0 on, 66=relay #0 off, 67=relay #1 on, etc. The board has no
// tone output, so the buzzer is a relay held for the note's duration.

func defaultDevName() string {
	matches, _ := filepath.Glob("/dev/arduino_*")
	if len(matches) > 0 {
		return matches[0]
	}
	return "/dev/ttyACM0"
}

type serialPort struct {
	dev io.Writer
	mu  sync.Mutex
}

func (self *serialPort) command(code string, state bool) error {
	// code = on, ascii(code) + 1 = off
	if !state {
		code = string(code[0] + 1)
	}
	self.mu.Lock()
	defer self.mu.Unlock()
	_, err := self.dev.Write([]byte(code))
	return errors.Wrap(err, "arduino")
}

type relay struct {
	port *serialPort
	code string
}

func newRelay(port *serialPort, code string) (*relay, error) {
	if len(code) != 1 {
		return nil, errors.Errorf("arduino relay code must be a single character: %q", code)
	}
	return &relay{port: port, code: code}, nil
}

func (self *relay) Set(on bool) error {
	log.Println("Sending:", self.code, on)
	return self.port.command(self.code, on)
}

func (self *relay) Tone(freq float64, d time.Duration) error {
	return Hold(self, d)
}

func openArduino(conf config.HardwareConf) (*Board, error) {
	name := conf.Device
	if name == "" {
		name = defaultDevName()
	}
	c := &serial.Config{Name: name, Baud: conf.Baud}
	dev, err := serial.OpenPort(c)
	if err != nil {
		return nil, errors.Wrap(err, "opening serial port")
	}
	port := &serialPort{dev: dev}
	board := &Board{close: dev.Close}
	if board.Feedback, err = newRelay(port, conf.Feedback); err != nil {
		dev.Close()
		return nil, err
	}
	if board.Door, err = newRelay(port, conf.Door); err != nil {
		dev.Close()
		return nil, err
	}
	buzzer, err := newRelay(port, conf.Buzzer)
	if err != nil {
		dev.Close()
		return nil, err
	}
	board.Buzzer = buzzer
	return board, nil
}
