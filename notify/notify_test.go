package notify

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartklingel/klingel/config"
)

func TestNtfy(t *testing.T) {
	var got *http.Request
	var body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		got, body = r, string(data)
	}))
	defer server.Close()

	n := NewNtfy(config.NtfyConf{Server: server.URL + "/", Topic: "front-door", Title: "Front door", Priority: "high"})
	require.NoError(t, n.Notify("", "Parcel / Post"))
	require.NotNil(t, got)
	assert.Equal(t, "POST", got.Method)
	assert.Equal(t, "/front-door", got.URL.Path)
	assert.Equal(t, "Front door", got.Header.Get("Title"))
	assert.Equal(t, "high", got.Header.Get("Priority"))
	assert.Equal(t, "Parcel / Post", body)
}

func TestNtfyErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusTooManyRequests)
	}))
	defer server.Close()

	n := NewNtfy(config.NtfyConf{Server: server.URL, Topic: "t"})
	assert.Error(t, n.Notify("x", "y"))
}

func TestNtfyUnreachable(t *testing.T) {
	n := NewNtfy(config.NtfyConf{Server: "http://127.0.0.1:1", Topic: "t"})
	assert.Error(t, n.Notify("x", "y"))
}

func TestMultiTriesAll(t *testing.T) {
	failing := &Mock{Err: errors.New("boom")}
	working := &Mock{}
	m := Multi{failing, working}
	err := m.Notify("Front door", "Visit")
	assert.EqualError(t, err, "boom")
	assert.Equal(t, []string{"Visit"}, failing.Messages())
	assert.Equal(t, []string{"Visit"}, working.Messages())
	assert.Equal(t, "mock,mock", m.ID())
}

func TestFromConfig(t *testing.T) {
	conf := config.Default()
	assert.Empty(t, FromConfig(conf))

	conf.Ntfy.Topic = "door"
	conf.Pushbullet.Token = "abc"
	conf.Telegram.Token = "123:abc"
	conf.Slack.Token = "xoxb"
	ns := FromConfig(conf)
	// telegram without chat id and slack without channel are skipped
	assert.Equal(t, "ntfy,pushbullet", ns.ID())
}
