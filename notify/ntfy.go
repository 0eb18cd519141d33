package notify

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/smartklingel/klingel/config"
)

// Ntfy publishes to a topic on an ntfy server (https://ntfy.sh by default).
type Ntfy struct {
	url      string
	title    string
	priority string
	client   *http.Client
}

func NewNtfy(conf config.NtfyConf) *Ntfy {
	return &Ntfy{
		url:      strings.TrimRight(conf.Server, "/") + "/" + conf.Topic,
		title:    conf.Title,
		priority: conf.Priority,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (self *Ntfy) ID() string {
	return "ntfy"
}

func (self *Ntfy) Notify(title, message string) error {
	req, err := http.NewRequest("POST", self.url, strings.NewReader(message))
	if err != nil {
		return err
	}
	if title == "" {
		title = self.title
	}
	req.Header.Set("Title", title)
	req.Header.Set("Priority", self.priority)
	resp, err := self.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "ntfy")
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("ntfy: %s", resp.Status)
	}
	return nil
}
