package dummy

import (
	"sync"

	"github.com/smartklingel/klingel/pubsub"
)

// Publisher for testing
type Publisher struct {
	mu     sync.Mutex
	Events []*pubsub.Event
}

func (self *Publisher) ID() string {
	return "dummy"
}

func (self *Publisher) Emit(ev *pubsub.Event) {
	self.mu.Lock()
	self.Events = append(self.Events, ev)
	self.mu.Unlock()
}

// Topics emitted so far, in order.
func (self *Publisher) Topics() []string {
	self.mu.Lock()
	defer self.mu.Unlock()
	var ret []string
	for _, ev := range self.Events {
		ret = append(ret, ev.Topic)
	}
	return ret
}
