package hardware

import (
	"strconv"
	"sync"
	"time"

	"github.com/barnybug/ener314/rpio"
	"github.com/pkg/errors"

	"github.com/smartklingel/klingel/config"
)

var PinAliases = map[string]int{
	// pimoroni automation hat aliases
	"relay1":  13,
	"relay2":  19,
	"relay3":  16, // <- the relay on the pHat
	"output1": 5,
	"output2": 12,
	"output3": 6,
}

// ParsePin accepts a BCM pin number or an automation hat alias.
func ParsePin(s string) (int, error) {
	if n, ok := PinAliases[s]; ok {
		return n, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 27 {
		return 0, errors.Errorf("pin not recognised: %s", s)
	}
	return n, nil
}

type gpioPin struct {
	pin rpio.Pin
	mu  sync.Mutex
}

func newGpioPin(s string) (*gpioPin, error) {
	n, err := ParsePin(s)
	if err != nil {
		return nil, err
	}
	pin := rpio.Pin(n)
	pin.Output()
	pin.Write(rpio.Low)
	return &gpioPin{pin: pin}, nil
}

func (self *gpioPin) Set(on bool) error {
	self.mu.Lock()
	defer self.mu.Unlock()
	if on {
		self.pin.Write(rpio.High)
	} else {
		self.pin.Write(rpio.Low)
	}
	return nil
}

// Tone drives a passive buzzer with a square wave toggled in software.
func (self *gpioPin) Tone(freq float64, d time.Duration) error {
	if freq <= 0 {
		return errors.Errorf("bad frequency: %v", freq)
	}
	self.mu.Lock()
	defer self.mu.Unlock()
	half := time.Duration(float64(time.Second) / freq / 2)
	end := time.Now().Add(d)
	state := rpio.High
	for time.Now().Before(end) {
		self.pin.Write(state)
		time.Sleep(half)
		if state == rpio.High {
			state = rpio.Low
		} else {
			state = rpio.High
		}
	}
	self.pin.Write(rpio.Low)
	return nil
}

func openRaspi(conf config.HardwareConf) (*Board, error) {
	if err := rpio.Open(); err != nil {
		return nil, errors.Wrap(err, "couldn't open /dev/gpiomem")
	}
	board := &Board{close: rpio.Close}
	var err error
	if board.Feedback, err = newGpioPin(conf.Feedback); err != nil {
		rpio.Close()
		return nil, err
	}
	if board.Door, err = newGpioPin(conf.Door); err != nil {
		rpio.Close()
		return nil, err
	}
	buzzer, err := newGpioPin(conf.Buzzer)
	if err != nil {
		rpio.Close()
		return nil, err
	}
	board.Buzzer = buzzer
	return board, nil
}
