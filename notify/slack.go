package notify

import (
	"github.com/nlopes/slack"
	"github.com/pkg/errors"

	"github.com/smartklingel/klingel/config"
)

type Slack struct {
	api     *slack.Client
	channel string
}

func NewSlack(conf config.SlackConf) *Slack {
	return &Slack{api: slack.New(conf.Token), channel: conf.Channel}
}

func (self *Slack) ID() string {
	return "slack"
}

func (self *Slack) Notify(title, message string) error {
	params := slack.NewPostMessageParameters()
	params.Username = title
	_, _, err := self.api.PostMessage(self.channel, message, params)
	return errors.Wrap(err, "slack")
}
