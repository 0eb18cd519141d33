package dummy

import "github.com/smartklingel/klingel/pubsub"

// Subscriber for testing. Each subscription replays the matching Events,
// then closes.
type Subscriber struct {
	Events []*pubsub.Event
}

func (sub *Subscriber) ID() string {
	return "dummy"
}

func (sub *Subscriber) Subscribe(topics ...pubsub.Topic) <-chan *pubsub.Event {
	ch := make(chan *pubsub.Event)
	go func() {
		for _, ev := range sub.Events {
			for _, t := range topics {
				if t.Match(ev.Topic) {
					ch <- ev
					break
				}
			}
		}
		close(ch)
	}()
	return ch
}

func (sub *Subscriber) Close(<-chan *pubsub.Event) {
}
