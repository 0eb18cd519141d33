package pubsub

import (
	"encoding/json"
	"strings"
	"time"
)

type Fields map[string]interface{}

type Event struct {
	Topic     string
	Timestamp time.Time
	Fields    Fields
	Retained  bool
}

func NewEvent(topic string, fields map[string]interface{}) *Event {
	if fields == nil {
		fields = Fields{}
	}
	timestamp := time.Now().UTC()
	if ts, ok := fields["timestamp"].(string); ok {
		delete(fields, "timestamp")
		timestamp, _ = time.Parse(TimeFormat, ts)
	}
	return &Event{Topic: topic, Timestamp: timestamp, Fields: fields}
}

// NewCommand creates a command event for a device, as sent to command/<device>.
func NewCommand(device string, command string) *Event {
	fields := map[string]interface{}{
		"device":  device,
		"command": command,
	}
	return NewEvent("command/"+device, fields)
}

const TimeFormat = "2006-01-02 15:04:05.000"

func (event *Event) Map() map[string]interface{} {
	data := make(map[string]interface{})
	data["topic"] = event.Topic
	data["timestamp"] = event.Timestamp.Format(TimeFormat)
	for k, v := range event.Fields {
		data[k] = v
	}
	return data
}

func (event *Event) Bytes() []byte {
	v, _ := json.Marshal(event.Map())
	return v
}

func (event *Event) String() string {
	return string(event.Bytes())
}

func (event *Event) StringField(name string) string {
	ret, _ := event.Fields[name].(string)
	return ret
}

func (event *Event) IntField(name string) int64 {
	switch v := event.Fields[name].(type) {
	case float64:
		return int64(v)
	case int:
		return int64(v)
	case int64:
		return v
	}
	return 0
}

func (event *Event) SetField(name string, value interface{}) {
	event.Fields[name] = value
}

// Device the event is about. Commands published without a device field take
// it from their command/<device> topic.
func (event *Event) Device() string {
	if device := event.StringField("device"); device != "" {
		return device
	}
	return strings.TrimPrefix(event.Topic, "command/")
}

func (event *Event) Source() string {
	return event.StringField("source")
}

func (event *Event) Command() string {
	return event.StringField("command")
}

// Parse a json message. The topic is taken from the message body, or from
// topic when the body has none. Returns nil for anything unparseable.
func Parse(msg string, topic string) *Event {
	var fields map[string]interface{}
	err := json.Unmarshal([]byte(msg), &fields)
	if err != nil || fields == nil {
		return nil
	}
	if t, ok := fields["topic"].(string); ok {
		topic = t
	}
	delete(fields, "topic")
	if topic == "" {
		return nil
	}
	return NewEvent(topic, fields)
}
