package pubsub

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ExampleEvent_String() {
	ev := NewEvent("ring", Fields{"reason": "Visit"})
	ev.Timestamp = time.Date(2014, 1, 2, 3, 4, 5, 987654321, time.UTC)
	fmt.Println(ev.String())
	// Output: {"reason":"Visit","timestamp":"2014-01-02 03:04:05.987","topic":"ring"}
}

func ExampleParse() {
	ev := Parse(`{"timestamp":"2014-01-02 03:04:05.987","topic":"door","source":"console"}`, "")
	fmt.Println(ev.Topic)
	fmt.Println(ev.Timestamp)
	fmt.Println(ev.Fields)
	// Output:
	// door
	// 2014-01-02 03:04:05.987 +0000 UTC
	// map[source:console]
}

func ExampleParse_topicFromChannel() {
	ev := Parse(`{"command":"open"}`, "command/door")
	fmt.Println(ev.Topic)
	fmt.Println(ev.Command())
	// Output:
	// command/door
	// open
}

func TestParseBad(t *testing.T) {
	assert.Nil(t, Parse(`{`, "x"))
	assert.Nil(t, Parse(`null`, "x"))
	assert.Nil(t, Parse(`{"command":"open"}`, ""))
}

func TestNewCommand(t *testing.T) {
	ev := NewCommand("door", "open")
	assert.Equal(t, "command/door", ev.Topic)
	assert.Equal(t, "door", ev.Device())
	assert.Equal(t, "open", ev.Command())

	ev = Parse(`{"command":"open"}`, "command/door")
	assert.Equal(t, "door", ev.Device())
}

func TestIntField(t *testing.T) {
	ev := Parse(`{"topic":"code","attempts":3}`, "")
	assert.Equal(t, int64(3), ev.IntField("attempts"))
	ev.SetField("attempts", 4)
	assert.Equal(t, int64(4), ev.IntField("attempts"))
	assert.Equal(t, int64(0), ev.IntField("missing"))
}
