// Service to open the door from home automation. Publish to
// command/door on the broker:
//
//	{"command": "open", "source": "homeassistant"}
//
// Door openings, rings and code attempts are published back by the other
// services under the same prefix.
package bridge

import (
	"log"

	"github.com/smartklingel/klingel/pubsub"
	"github.com/smartklingel/klingel/services"
)

// Service bridge
type Service struct{}

// ID of the service
func (self *Service) ID() string {
	return "bridge"
}

func (self *Service) QueryHandlers() services.QueryHandlers {
	return services.QueryHandlers{
		"help": services.StaticHandler("publish {\"command\": \"open\"} to command/door\n"),
	}
}

func handleCommand(ev *pubsub.Event) {
	if ev.Device() != "door" {
		log.Printf("Device %q not supported", ev.Device())
		return
	}
	switch ev.Command() {
	case "open":
		log.Println("Remote open from", ev.Source())
		services.Log.Record("Remote command opening")
		services.Door.OpenWithReason("mqtt", ev.Source(), ev.StringField("reason"))
	default:
		log.Printf("Command %q not supported", ev.Command())
	}
}

// Run the service
func (self *Service) Run() error {
	for ev := range services.Subscriber.Subscribe(pubsub.Prefix("command")) {
		handleCommand(ev)
	}
	return nil
}
