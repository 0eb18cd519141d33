// Package door pulses the door opener relay.
package door

import (
	"log"
	"sync"
	"time"

	"github.com/smartklingel/klingel/hardware"
)

// Actuation is one request to open the door.
type Actuation struct {
	Time   time.Time
	Source string
	Actor  string
	Reason string
}

type Observer func(Actuation)

// Door holds the relay asserted for the pulse duration after each Open.
// Overlapping opens share the relay: it is released when the last pulse ends.
type Door struct {
	out       hardware.Output
	pulse     time.Duration
	mu        sync.Mutex
	active    int
	observers []Observer
	wg        sync.WaitGroup
}

func New(out hardware.Output, pulse time.Duration) *Door {
	return &Door{out: out, pulse: pulse}
}

// Observe registers fn to be called, in its own goroutine, for every
// actuation. Slow observers never stretch the pulse. Register observers
// before the first Open.
func (self *Door) Observe(fn Observer) {
	self.mu.Lock()
	self.observers = append(self.observers, fn)
	self.mu.Unlock()
}

// Open the door. Returns immediately.
func (self *Door) Open(source, actor string) {
	self.OpenWithReason(source, actor, "")
}

func (self *Door) OpenWithReason(source, actor, reason string) {
	a := Actuation{Time: time.Now(), Source: source, Actor: actor, Reason: reason}
	self.wg.Add(1)
	go self.run(a)
}

func (self *Door) run(a Actuation) {
	defer self.wg.Done()
	log.Println("Door open:", a.Source, a.Actor)

	self.mu.Lock()
	self.active++
	if self.active == 1 {
		self.set(true)
	}
	observers := self.observers
	self.mu.Unlock()

	for _, fn := range observers {
		self.wg.Add(1)
		go func(fn Observer) {
			defer self.wg.Done()
			fn(a)
		}(fn)
	}

	time.Sleep(self.pulse)

	self.mu.Lock()
	self.active--
	if self.active == 0 {
		self.set(false)
		log.Println("Door closed")
	}
	self.mu.Unlock()
}

func (self *Door) set(on bool) {
	if err := self.out.Set(on); err != nil {
		log.Println("Door relay error:", err)
	}
}

// Active is true while the relay is held open.
func (self *Door) Active() bool {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.active > 0
}

// Wait for running pulses to finish.
func (self *Door) Wait() {
	self.wg.Wait()
}
