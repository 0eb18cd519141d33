package pubsub

import (
	"log"
	"sync"
)

type eventChannel struct {
	C      chan *Event
	topics []Topic
}

func (ch eventChannel) match(topic string) bool {
	for _, t := range ch.topics {
		if t.Match(topic) {
			return true
		}
	}
	return false
}

// Bus is an in-process publisher and subscriber. Events that do not belong
// on the network, such as keypad codes, travel on it.
type Bus struct {
	id           string
	channels     []eventChannel
	channelsLock sync.Mutex
}

func NewBus(id string) *Bus {
	return &Bus{id: id}
}

func (self *Bus) ID() string {
	return self.id
}

// Emit delivers to every matching subscription. A subscriber that has fallen
// 16 events behind misses the event rather than stalling the sender.
func (self *Bus) Emit(ev *Event) {
	self.channelsLock.Lock()
	defer self.channelsLock.Unlock()
	for _, ch := range self.channels {
		if !ch.match(ev.Topic) {
			continue
		}
		select {
		case ch.C <- ev:
		default:
			log.Println("Bus", self.id, "dropped event:", ev.Topic)
		}
	}
}

func (self *Bus) Subscribe(topics ...Topic) <-chan *Event {
	ch := eventChannel{
		C:      make(chan *Event, 16),
		topics: topics,
	}
	self.channelsLock.Lock()
	self.channels = append(self.channels, ch)
	self.channelsLock.Unlock()
	return ch.C
}

func (self *Bus) Close(channel <-chan *Event) {
	self.channelsLock.Lock()
	defer self.channelsLock.Unlock()
	var channels []eventChannel
	for _, ch := range self.channels {
		if channel == (<-chan *Event)(ch.C) {
			close(ch.C)
		} else {
			channels = append(channels, ch)
		}
	}
	self.channels = channels
}
