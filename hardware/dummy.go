package hardware

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// DummyOutput logs and remembers its changes.
type DummyOutput struct {
	Name    string
	Err     error
	mu      sync.Mutex
	on      bool
	changes []bool
}

func (self *DummyOutput) Set(on bool) error {
	if self.Err != nil {
		return self.Err
	}
	log.Println("Output", self.Name, on)
	self.mu.Lock()
	defer self.mu.Unlock()
	self.on = on
	self.changes = append(self.changes, on)
	return nil
}

func (self *DummyOutput) On() bool {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.on
}

// Changes returns every value set so far, in order.
func (self *DummyOutput) Changes() []bool {
	self.mu.Lock()
	defer self.mu.Unlock()
	return append([]bool(nil), self.changes...)
}

// DummyBuzzer records notes without sleeping.
type DummyBuzzer struct {
	Err   error
	mu    sync.Mutex
	notes []string
}

func (self *DummyBuzzer) Tone(freq float64, d time.Duration) error {
	if self.Err != nil {
		return self.Err
	}
	self.mu.Lock()
	defer self.mu.Unlock()
	self.notes = append(self.notes, fmt.Sprintf("%.2fHz %s", freq, d))
	return nil
}

func (self *DummyBuzzer) Notes() []string {
	self.mu.Lock()
	defer self.mu.Unlock()
	return append([]string(nil), self.notes...)
}

// NewDummy returns a board for development and tests.
func NewDummy() *Board {
	return &Board{
		Feedback: &DummyOutput{Name: "feedback"},
		Door:     &DummyOutput{Name: "door"},
		Buzzer:   &DummyBuzzer{},
	}
}
