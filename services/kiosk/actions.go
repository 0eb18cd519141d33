package kiosk

import (
	"log"
	"strings"

	"github.com/smartklingel/klingel/hardware"
	"github.com/smartklingel/klingel/pubsub"
)

// actions are called by name from the automaton, with the input that
// triggered them.
type actions struct {
	m     *Machine
	input Input
}

func (self *actions) Reset() {
	m := self.m
	m.Entry, m.Owner, m.Reason = "", "", ""
	m.Open = false
}

// Feedback lights the indicator for a moment.
func (self *actions) Feedback() {
	board, d := self.m.deps.Board, self.m.conf.Feedback.Duration
	if board == nil || board.Feedback == nil {
		return
	}
	self.m.async(func() {
		if err := hardware.Hold(board.Feedback, d); err != nil {
			log.Println("Feedback failed:", err)
		}
	})
}

func (self *actions) Chime() {
	board := self.m.deps.Board
	if board == nil || board.Buzzer == nil {
		return
	}
	self.m.async(func() {
		if err := hardware.Play(board.Buzzer, hardware.Chime); err != nil {
			log.Println("Chime failed:", err)
		}
	})
}

// Visitor records the reason and lets them in during opening hours.
func (self *actions) Visitor() {
	m := self.m
	m.Reason = self.input.Value
	m.Open = m.IsOpen()
	m.deps.Log.Record(m.Reason)
	m.emit("ring", pubsub.Fields{"reason": m.Reason, "open": m.Open})
	m.count("klingel.ring")
	if m.Open {
		m.deps.Door.OpenWithReason("kiosk", "", m.Reason)
	}
}

func (self *actions) Append() {
	d := self.input.Value
	if len(d) != 1 || !strings.Contains("0123456789", d) {
		return
	}
	if len(self.m.Entry) < MaxEntry {
		self.m.Entry += d
	}
}

func (self *actions) Clear() {
	self.m.Entry = ""
}

func (self *actions) Reject() {
	m := self.m
	m.Entry = ""
	m.flashUntil = m.now().Add(m.conf.Flash.Duration)
	m.emit("code", pubsub.Fields{"result": "rejected", "source": "kiosk"})
}

// Owner greets a known code and opens the door, opening hours or not.
func (self *actions) Owner() {
	m := self.m
	m.Owner = self.input.Value
	m.Entry = ""
	m.deps.Log.Record("Door opened by: " + m.Owner)
	m.deps.Door.OpenWithReason("kiosk", m.Owner, "")
}

func (self *actions) ToggleTheme() {
	self.m.Theme.Toggle(self.m.now())
}
