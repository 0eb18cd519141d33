// Package mqtt carries klingel events over an MQTT broker. Event topics are
// placed under a prefix, so "door" is published as "klingel/door".
package mqtt

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"sync"
	"time"

	MQTT "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"

	"github.com/smartklingel/klingel/pubsub"
)

type eventChannel struct {
	C      chan *pubsub.Event
	topics []pubsub.Topic
}

// Broker is both publisher and subscriber on one client connection.
type Broker struct {
	broker         string
	prefix         string
	client         MQTT.Client
	channels       []eventChannel
	channelsLock   sync.Mutex
	topicCount     map[string]int
	topicCountLock sync.RWMutex
}

func clientID() string {
	hostname, _ := os.Hostname()
	return fmt.Sprintf("klingel/%s-%d-%d", hostname, os.Getpid(), rand.Int())
}

// NewBroker connects to broker, eg tcp://127.0.0.1:1883.
func NewBroker(broker, prefix string) (*Broker, error) {
	self := &Broker{
		broker:     broker,
		prefix:     prefix,
		topicCount: map[string]int{},
	}
	opts := MQTT.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID()).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second).
		SetOnConnectHandler(self.connectHandler).
		SetDefaultPublishHandler(self.publishHandler)
	self.client = MQTT.NewClient(opts)
	if token := self.client.Connect(); token.Wait() && token.Error() != nil {
		return nil, errors.Wrapf(token.Error(), "connecting to %s", broker)
	}
	return self, nil
}

func (self *Broker) ID() string {
	return "mqtt: " + self.broker
}

func (self *Broker) Disconnect() {
	self.client.Disconnect(250)
}

// Emit publishes an event at QoS 1.
func (self *Broker) Emit(ev *pubsub.Event) {
	topic := self.prefix + "/" + ev.Topic
	token := self.client.Publish(topic, 1, ev.Retained, ev.Bytes())
	if token.WaitTimeout(5*time.Second) && token.Error() != nil {
		log.Println("Error publishing:", token.Error())
	}
}

func (self *Broker) publishHandler(client MQTT.Client, msg MQTT.Message) {
	topic := strings.TrimPrefix(msg.Topic(), self.prefix+"/")
	event := pubsub.Parse(string(msg.Payload()), topic)
	if event == nil {
		log.Println("Ignoring message on", msg.Topic())
		return
	}
	event.Retained = msg.Retained()
	self.channelsLock.Lock()
	defer self.channelsLock.Unlock()
	for _, ch := range self.channels {
		for _, t := range ch.topics {
			if t.Match(topic) {
				select {
				case ch.C <- event:
				default:
					log.Println("Dropped event:", topic)
				}
				break
			}
		}
	}
}

func (self *Broker) connectHandler(client MQTT.Client) {
	// (re)subscribe when (re)connected
	subs := map[string]byte{}
	self.topicCountLock.RLock()
	for topic := range self.topicCount {
		subs[topic] = 1
	}
	self.topicCountLock.RUnlock()

	if len(subs) > 0 {
		log.Println("Connected, subscribing:", subs)
		if token := client.SubscribeMultiple(subs, nil); token.Wait() && token.Error() != nil {
			log.Println("Error subscribing:", token.Error())
		}
	}
}

func (self *Broker) topicToMqtt(topic pubsub.Topic) string {
	switch topic := topic.(type) {
	case *pubsub.AllTopic:
		return self.prefix + "/#"
	case *pubsub.ExactTopic:
		return self.prefix + "/" + topic.Exact
	case *pubsub.PrefixTopic:
		return self.prefix + "/" + topic.Prefix + "/#"
	default:
		log.Panicln("Topic type unsupported")
	}
	return ""
}

func (self *Broker) Subscribe(topics ...pubsub.Topic) <-chan *pubsub.Event {
	// subscribe topics not yet subscribed to
	subs := map[string]byte{}
	self.topicCountLock.Lock()
	for _, topic := range topics {
		t := self.topicToMqtt(topic)
		if self.topicCount[t] == 0 {
			subs[t] = 1
		}
		self.topicCount[t] += 1
	}
	self.topicCountLock.Unlock()

	ch := eventChannel{
		C:      make(chan *pubsub.Event, 16),
		topics: topics,
	}
	self.channelsLock.Lock()
	self.channels = append(self.channels, ch)
	self.channelsLock.Unlock()

	if len(subs) > 0 {
		// nil = all messages go to the default handler
		if token := self.client.SubscribeMultiple(subs, nil); token.Wait() && token.Error() != nil {
			log.Println("Error subscribing:", token.Error())
		}
	}
	return ch.C
}

func (self *Broker) Close(channel <-chan *pubsub.Event) {
	self.channelsLock.Lock()
	defer self.channelsLock.Unlock()
	var channels []eventChannel
	for _, ch := range self.channels {
		if channel != (<-chan *pubsub.Event)(ch.C) {
			channels = append(channels, ch)
			continue
		}
		for _, topic := range ch.topics {
			t := self.topicToMqtt(topic)
			self.topicCountLock.Lock()
			self.topicCount[t] -= 1
			current := self.topicCount[t]
			if current == 0 {
				delete(self.topicCount, t)
			}
			self.topicCountLock.Unlock()
			if current == 0 {
				if token := self.client.Unsubscribe(t); token.Wait() && token.Error() != nil {
					log.Println("Error unsubscribing:", token.Error())
				}
			}
		}
		close(ch.C)
	}
	self.channels = channels
}
