package kiosk

import (
	"github.com/barnybug/gofsm"
)

const (
	Idle         = "Idle"
	ReasonSelect = "ReasonSelect"
	PinEntry     = "PinEntry"
	Result       = "Result"
	Greeting     = "Greeting"
)

// The kiosk screens and their transitions. Actions name methods of actions.
const automatonYaml = `
kiosk:
  start: Idle
  states:
    Idle:
      entering: [Reset()]
    ReasonSelect:
      entering: [Feedback(), Chime()]
    PinEntry:
      entering: [Clear()]
    Result:
    Greeting:
  transitions:
    Idle->ReasonSelect:
    - when: ring
    Idle->PinEntry:
    - when: code
    Idle:
    - when: mode
      actions: [ToggleTheme()]
    ReasonSelect->Result:
    - when: reason
      actions: [Visitor()]
    PinEntry:
    - when: digit
      actions: [Append()]
    - when: clear
      actions: [Clear()]
    - when: reject
      actions: [Reject()]
    PinEntry->Greeting:
    - when: accept
      actions: [Owner()]
    PinEntry->Idle:
    - when: cancel
    ReasonSelect,PinEntry,Result,Greeting->Idle:
    - when: timeout
`

func loadAutomaton() (*gofsm.Automata, *gofsm.Automaton, error) {
	automata, err := gofsm.Load([]byte(automatonYaml))
	if err != nil {
		return nil, nil, err
	}
	return automata, automata.Automaton["kiosk"], nil
}

// Input is something the visitor did, or a timeout.
type Input struct {
	Kind  string
	Value string
}

// Match implements gofsm.Event
func (self Input) Match(when string) bool {
	return self.Kind == when
}

func (self Input) String() string {
	switch self.Kind {
	case "reason", "mode", "ring", "code", "clear", "cancel", "timeout":
		if self.Value != "" {
			return self.Kind + ":" + self.Value
		}
	}
	// codes are never logged
	return self.Kind
}

func Ring() Input { return Input{Kind: "ring"} }

func Code() Input { return Input{Kind: "code"} }

func Mode() Input { return Input{Kind: "mode"} }

func Reason(r string) Input { return Input{Kind: "reason", Value: r} }

func Digit(d string) Input { return Input{Kind: "digit", Value: d} }

func Clear() Input { return Input{Kind: "clear"} }

func Submit() Input { return Input{Kind: "submit"} }

func Cancel() Input { return Input{Kind: "cancel"} }

func Timeout() Input { return Input{Kind: "timeout"} }

// Keypad is a whole code from the keypad service.
func Keypad(code string) Input { return Input{Kind: "keypad", Value: code} }
