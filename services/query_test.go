package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartklingel/klingel/pubsub"
	"github.com/smartklingel/klingel/pubsub/dummy"
)

type MockService struct {
	id            string
	queryHandlers map[string]QueryHandler
}

func (service *MockService) ID() string {
	return service.id
}

func (service *MockService) Run() error {
	return nil
}

func (service *MockService) QueryHandlers() QueryHandlers {
	return service.queryHandlers
}

func ExampleQuerySubscriber() {
	fields := pubsub.Fields{"query": "help", "source": "cli"}
	query := pubsub.NewEvent("query", fields)
	Subscriber = &dummy.Subscriber{Events: []*pubsub.Event{query}}
	em := &dummy.Publisher{}
	Publisher = em
	mock := &MockService{
		id:            "kiosk",
		queryHandlers: map[string]QueryHandler{"help": StaticHandler("squiggle")},
	}
	enabled = []Service{mock}
	QuerySubscriber()
	fmt.Println(len(em.Events))
	fmt.Println(em.Events[0].Topic, em.Events[0].StringField("target"))
	fmt.Println(em.Events[0].StringField("message"))
	// Output:
	// 1
	// answer cli
	// squiggle
}

func TestQueryLimitedToService(t *testing.T) {
	em := &dummy.Publisher{}
	Publisher = em
	kiosk := &MockService{id: "kiosk", queryHandlers: QueryHandlers{
		"status": TextHandler(func(q Question) string { return "Idle " + q.Args }),
	}}
	console := &MockService{id: "console", queryHandlers: QueryHandlers{
		"status": StaticHandler("listening"),
	}}
	ev := pubsub.NewEvent("query", pubsub.Fields{"query": "Kiosk/status now", "reply_to": "_rpc/1"})
	handleQuery(ev, []Queryable{kiosk, console})

	require.Len(t, em.Events, 1)
	assert.Equal(t, "_rpc/1", em.Events[0].Topic)
	assert.Equal(t, "kiosk", em.Events[0].Source())
	assert.Equal(t, "Idle now", em.Events[0].StringField("message"))
}

func TestRPC(t *testing.T) {
	bus := pubsub.NewBus("local")
	Publisher = bus
	Subscriber = bus
	enabled = []Service{&MockService{id: "kiosk", queryHandlers: QueryHandlers{
		"status": StaticHandler("Idle"),
	}}}
	go QuerySubscriber()
	// let the subscriber attach
	time.Sleep(10 * time.Millisecond)

	answer, err := RPC("status", time.Second)
	require.NoError(t, err)
	assert.Equal(t, "Idle", answer)
}

func TestRPCTimeout(t *testing.T) {
	bus := pubsub.NewBus("local")
	Publisher = bus
	Subscriber = bus
	_, err := RPC("status", 10*time.Millisecond)
	assert.EqualError(t, err, "timeout")
}
