package pubsub

import "strings"

// PrefixTopic matches a topic and everything below it, so "command" matches
// "command/door".
type PrefixTopic struct {
	Prefix string
}

func Prefix(prefix string) *PrefixTopic {
	return &PrefixTopic{prefix}
}

func (t *PrefixTopic) Match(topic string) bool {
	return t.Prefix == topic || strings.HasPrefix(topic, t.Prefix+"/")
}

// AllTopic matches every topic, for bridges and debugging.
type AllTopic struct{}

func All() *AllTopic {
	return &AllTopic{}
}

func (t *AllTopic) Match(topic string) bool {
	return true
}

// ExactTopic matches one topic only.
type ExactTopic struct {
	Exact string
}

func Exact(exact string) *ExactTopic {
	return &ExactTopic{exact}
}

func (t *ExactTopic) Match(topic string) bool {
	return t.Exact == topic
}
