package kiosk

import (
	"log"
	"sync/atomic"
	"time"

	"github.com/barnybug/gofsm"

	"github.com/smartklingel/klingel/config"
	"github.com/smartklingel/klingel/hardware"
	"github.com/smartklingel/klingel/hours"
	"github.com/smartklingel/klingel/pubsub"
)

type Lookuper interface {
	Lookup(code string) (string, bool)
}

type Recorder interface {
	Record(text string) error
}

type Opener interface {
	OpenWithReason(source, actor, reason string)
}

// Deps are the collaborators the kiosk drives.
type Deps struct {
	Codes     Lookuper
	Log       Recorder
	Door      Opener
	Board     *hardware.Board
	Hours     hours.Schedule
	Publisher pubsub.Publisher
	// Count a metric, may be nil.
	Count func(path string)
}

// MaxEntry is the longest code that can be typed.
const MaxEntry = 8

// Machine is the kiosk screen flow. It is not safe for concurrent use: the
// UI loop owns it. Status may be read from anywhere.
type Machine struct {
	conf     config.KioskConf
	deps     Deps
	automata *gofsm.Automata
	fsm      *gofsm.Automaton
	Theme    *Theme

	// Entry is the code typed so far.
	Entry string
	// Owner greeted after a good code.
	Owner string
	// Reason the visitor chose, and whether that was within opening hours.
	Reason string
	Open   bool

	flashUntil time.Time
	deadline   time.Time
	now        func() time.Time
	async      func(func())
	status     atomic.Value
}

type Status struct {
	State string `json:"state"`
	Theme string `json:"theme"`
}

func NewMachine(conf config.KioskConf, deps Deps) (*Machine, error) {
	automata, fsm, err := loadAutomaton()
	if err != nil {
		return nil, err
	}
	m := &Machine{
		conf:     conf,
		deps:     deps,
		automata: automata,
		fsm:      fsm,
		Theme:    NewTheme(conf.Theme),
		now:      time.Now,
		async:    func(fn func()) { go fn() },
	}
	m.Refresh()
	return m, nil
}

func (self *Machine) State() string {
	return self.fsm.State.Name
}

func (self *Machine) timeout(state string) time.Duration {
	switch state {
	case ReasonSelect:
		return self.conf.Timeouts.Reason.Duration
	case PinEntry:
		return self.conf.Timeouts.Pin.Duration
	case Result:
		return self.conf.Timeouts.Result.Duration
	case Greeting:
		return self.conf.Timeouts.Greeting.Duration
	}
	return 0
}

// Handle an input. Any input restarts the current screen's timeout.
func (self *Machine) Handle(in Input) {
	switch in.Kind {
	case "submit":
		in = self.check(self.Entry)
	case "keypad":
		if self.State() == Idle {
			self.process(Code())
		}
		if self.State() != PinEntry {
			log.Println("Keypad code ignored in", self.State())
			return
		}
		in = self.check(in.Value)
	}
	self.process(in)
	if self.State() != Idle {
		self.deadline = self.now().Add(self.timeout(self.State()))
	}
	self.Refresh()
}

// check a code against the access store. Known codes are accepted whatever
// the time.
func (self *Machine) check(code string) Input {
	if code != "" {
		if owner, ok := self.deps.Codes.Lookup(code); ok {
			return Input{Kind: "accept", Value: owner}
		}
	}
	return Input{Kind: "reject"}
}

func (self *Machine) process(in Input) {
	self.automata.Process(in)
	for {
		select {
		case action := <-self.automata.Actions:
			a := &actions{m: self, input: in}
			if err := DynamicCall(a, action.Name); err != nil {
				log.Println("Error:", err)
			}
		case change := <-self.automata.Changes:
			log.Printf("[kiosk] %s->%s (event: %s)", change.Old, change.New, in)
		default:
			return
		}
	}
}

// Tick fires the screen timeout once it is due. Returns true if it fired.
func (self *Machine) Tick() bool {
	if self.State() == Idle || self.now().Before(self.deadline) {
		return false
	}
	self.Handle(Timeout())
	return true
}

// Remaining time until the screen times out, zero on Idle.
func (self *Machine) Remaining() time.Duration {
	if self.State() == Idle {
		return 0
	}
	d := self.deadline.Sub(self.now())
	if d < 0 {
		return 0
	}
	return d
}

// Flashing is true while a rejected code is shown.
func (self *Machine) Flashing() bool {
	return self.now().Before(self.flashUntil)
}

func (self *Machine) Reasons() []string {
	return self.conf.Reasons
}

func (self *Machine) Night() bool {
	return self.Theme.Night(self.now())
}

// IsOpen reports the opening hours now.
func (self *Machine) IsOpen() bool {
	return self.deps.Hours.IsOpen(self.now())
}

// UntilChange is the time until the door next opens or closes, zero if
// the schedule never changes.
func (self *Machine) UntilChange() time.Duration {
	now := self.now()
	next := self.deps.Hours.NextChange(now)
	if next.IsZero() {
		return 0
	}
	return next.Sub(now)
}

func (self *Machine) Hours() hours.Schedule {
	return self.deps.Hours
}

// Refresh the status snapshot.
func (self *Machine) Refresh() {
	self.status.Store(Status{State: self.State(), Theme: self.Theme.Name(self.now())})
}

func (self *Machine) Status() Status {
	return self.status.Load().(Status)
}

func (self *Machine) emit(topic string, fields pubsub.Fields) {
	if self.deps.Publisher == nil {
		return
	}
	ev := pubsub.NewEvent(topic, fields)
	self.async(func() { self.deps.Publisher.Emit(ev) })
}

func (self *Machine) count(path string) {
	if self.deps.Count == nil {
		return
	}
	self.async(func() { self.deps.Count(path) })
}
