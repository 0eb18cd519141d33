package services

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"github.com/smartklingel/klingel/pubsub"
)

func SendQuery(query, source, replyTo string) {
	fields := pubsub.Fields{
		"source":   source,
		"query":    query,
		"reply_to": replyTo,
	}
	Publisher.Emit(pubsub.NewEvent("query", fields))
}

// QueryChannel sends query, and collects answers until timeout.
func QueryChannel(query string, timeout time.Duration) <-chan *pubsub.Event {
	replyTo := fmt.Sprintf("_rpc/%d", rand.Int())
	ch := Subscriber.Subscribe(pubsub.Exact(replyTo))

	SendQuery(query, "rpc", replyTo)

	// close the listener after timeout
	go func() {
		time.Sleep(timeout)
		Subscriber.Close(ch)
	}()
	return ch
}

// RPC returns the first answer to query.
func RPC(query string, timeout time.Duration) (string, error) {
	for ev := range QueryChannel(query, timeout) {
		return ev.StringField("message"), nil
	}
	return "", errors.New("timeout")
}
