// Package hardware drives the doorbell's physical outputs: the feedback LED,
// the door relay and the buzzer.
package hardware

import (
	"time"

	"github.com/pkg/errors"

	"github.com/smartklingel/klingel/config"
)

// Output is a binary output such as a relay or an LED.
type Output interface {
	Set(on bool) error
}

// Buzzer plays a tone of the given frequency for a duration, blocking until
// it has finished.
type Buzzer interface {
	Tone(freq float64, d time.Duration) error
}

// Board is the set of outputs the doorbell needs.
type Board struct {
	Feedback Output
	Door     Output
	Buzzer   Buzzer
	close    func() error
}

func (self *Board) Close() error {
	if self.close == nil {
		return nil
	}
	return self.close()
}

// Open the backend named in conf.
func Open(conf config.HardwareConf) (*Board, error) {
	switch conf.Backend {
	case "raspi":
		return openRaspi(conf)
	case "arduino":
		return openArduino(conf)
	case "dummy", "":
		return NewDummy(), nil
	}
	return nil, errors.Errorf("unknown hardware backend: %s", conf.Backend)
}

// Hold switches an output on for d, then off again.
func Hold(out Output, d time.Duration) error {
	if err := out.Set(true); err != nil {
		return err
	}
	time.Sleep(d)
	return out.Set(false)
}

type Note struct {
	Freq     float64
	Duration time.Duration
}

// Chime is the doorbell sound: C5 then G4.
var Chime = []Note{
	{523.25, 200 * time.Millisecond},
	{392.00, 400 * time.Millisecond},
}

// Play the notes in order, stopping at the first error.
func Play(b Buzzer, notes []Note) error {
	for _, n := range notes {
		if err := b.Tone(n.Freq, n.Duration); err != nil {
			return err
		}
	}
	return nil
}
