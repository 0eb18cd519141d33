// Package notify delivers push notifications about the front door. Delivery
// is best effort: callers log failures and carry on.
package notify

import (
	"log"
	"strings"

	"github.com/smartklingel/klingel/config"
)

// Notifier sends a short message to a person's phone.
type Notifier interface {
	ID() string
	Notify(title, message string) error
}

// Multi fans a message out to several notifiers.
type Multi []Notifier

func (self Multi) ID() string {
	var ids []string
	for _, n := range self {
		ids = append(ids, n.ID())
	}
	return strings.Join(ids, ",")
}

// Notify sends to every notifier, returning the first error after trying all.
func (self Multi) Notify(title, message string) error {
	var first error
	for _, n := range self {
		if err := n.Notify(title, message); err != nil {
			log.Printf("Notify %s error: %s", n.ID(), err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}

// FromConfig builds the notifiers that have credentials configured.
func FromConfig(conf *config.Config) Multi {
	var ret Multi
	if conf.Ntfy.Topic != "" {
		ret = append(ret, NewNtfy(conf.Ntfy))
	}
	if conf.Pushbullet.Token != "" {
		ret = append(ret, NewPushbullet(conf.Pushbullet))
	}
	if conf.Telegram.Token != "" && conf.Telegram.Chat_id != 0 {
		ret = append(ret, NewTelegram(conf.Telegram))
	}
	if conf.Slack.Token != "" && conf.Slack.Channel != "" {
		ret = append(ret, NewSlack(conf.Slack))
	}
	if conf.Mastodon.Server != "" && conf.Mastodon.Access_token != "" {
		ret = append(ret, NewMastodon(conf.Mastodon))
	}
	return ret
}
