package notify

import (
	"github.com/mitsuse/pushbullet-go"
	"github.com/mitsuse/pushbullet-go/requests"
	"github.com/pkg/errors"

	"github.com/smartklingel/klingel/config"
)

type Pushbullet struct {
	pb *pushbullet.Pushbullet
}

func NewPushbullet(conf config.PushbulletConf) *Pushbullet {
	return &Pushbullet{pb: pushbullet.New(conf.Token)}
}

func (self *Pushbullet) ID() string {
	return "pushbullet"
}

func (self *Pushbullet) Notify(title, message string) error {
	n := requests.NewNote()
	n.Title = title
	n.Body = message
	_, err := self.pb.PostPushesNote(n)
	return errors.Wrap(err, "pushbullet")
}
