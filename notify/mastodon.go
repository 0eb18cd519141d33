package notify

import (
	"context"
	"time"

	"github.com/mattn/go-mastodon"
	"github.com/pkg/errors"

	"github.com/smartklingel/klingel/config"
)

// Mastodon posts a private status, visible to the account's followers only.
type Mastodon struct {
	client *mastodon.Client
}

func NewMastodon(conf config.MastodonConf) *Mastodon {
	client := mastodon.NewClient(&mastodon.Config{
		Server:       conf.Server,
		ClientID:     conf.Client_id,
		ClientSecret: conf.Client_secret,
		AccessToken:  conf.Access_token,
	})
	return &Mastodon{client: client}
}

func (self *Mastodon) ID() string {
	return "mastodon"
}

func (self *Mastodon) Notify(title, message string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	toot := mastodon.Toot{
		Status:     title + ": " + message,
		Visibility: "private",
	}
	_, err := self.client.PostStatus(ctx, &toot)
	return errors.Wrap(err, "mastodon")
}
