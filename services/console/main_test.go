package console

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartklingel/klingel/codes"
	"github.com/smartklingel/klingel/config"
	"github.com/smartklingel/klingel/hardware"
	"github.com/smartklingel/klingel/pubsub"
	"github.com/smartklingel/klingel/services"
)

func setup(t *testing.T) {
	dir := t.TempDir()
	conf := config.Default()
	conf.General.Log = filepath.Join(dir, "klingel_log.txt")
	conf.General.Codes = filepath.Join(dir, "codes.json")
	conf.Door.Pulse.Duration = 5 * time.Millisecond
	require.NoError(t, services.Setup(conf))
	t.Cleanup(services.Shutdown)
}

func get(path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	handler().ServeHTTP(w, req)
	return w
}

func post(path string, form url.Values) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	handler().ServeHTTP(w, req)
	return w
}

func TestIndex(t *testing.T) {
	setup(t)
	require.NoError(t, services.Codes.Save("1234", "Anna"))
	require.NoError(t, services.Log.Record("Doorbell rang"))

	w := get("/")
	assert.Equal(t, 200, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Anna")
	assert.Contains(t, body, "1234")
	assert.Contains(t, body, "Doorbell rang")
	assert.Contains(t, body, "Opening hours:")
}

func TestIndexEscapes(t *testing.T) {
	setup(t)
	require.NoError(t, services.Codes.Save("1234", "<b>Anna</b>"))

	body := get("/").Body.String()
	assert.Contains(t, body, "&lt;b&gt;Anna&lt;/b&gt;")
	assert.NotContains(t, body, "<b>Anna</b>")
}

func TestOpen(t *testing.T) {
	setup(t)
	out := services.Board.Door.(*hardware.DummyOutput)

	w := post("/open", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	services.Door.Wait()
	assert.Equal(t, []bool{true, false}, out.Changes())

	lines := services.Log.Tail(1)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "Web interface remote opening")
}

func TestOpenRequiresPost(t *testing.T) {
	setup(t)
	w := get("/open")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.False(t, services.Door.Active())
}

func TestAddCode(t *testing.T) {
	setup(t)
	w := post("/add_code", url.Values{"name": {"Bert"}, "code": {"987654"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	name, ok := services.Codes.Lookup("987654")
	assert.True(t, ok)
	assert.Equal(t, "Bert", name)
}

func TestAddCodeInvalid(t *testing.T) {
	setup(t)
	cases := []url.Values{
		{"name": {"Bert"}, "code": {"12"}},
		{"name": {"Bert"}, "code": {"12ab"}},
		{"name": {""}, "code": {"1234"}},
		{"name": {"Bert"}},
	}
	for _, form := range cases {
		w := post("/add_code", form)
		assert.Equal(t, http.StatusSeeOther, w.Code)
	}
	assert.Equal(t, codes.DefaultCodes, services.Codes.Load())
}

func TestDelCode(t *testing.T) {
	setup(t)
	require.NoError(t, services.Codes.Save("1234", "Anna"))
	require.NoError(t, services.Codes.Save("5678", "Bert"))

	w := post("/del_code", url.Values{"code": {"1234"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, map[string]string{"5678": "Bert"}, services.Codes.Load())

	post("/del_code", url.Values{"code": {"0000"}})
	assert.Len(t, services.Codes.Load(), 1)
}

func TestDownloadMissing(t *testing.T) {
	setup(t)
	w := get("/download")
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "No log available", w.Body.String())
}

func TestDownload(t *testing.T) {
	setup(t)
	require.NoError(t, services.Log.Record("Doorbell rang"))
	w := get("/download")
	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Body.String(), "Doorbell rang")
}

func TestStatus(t *testing.T) {
	setup(t)
	kioskTimeout = 20 * time.Millisecond
	require.NoError(t, services.Codes.Save("1234", "Anna"))
	w := get("/status.json")
	assert.Equal(t, 200, w.Code)
	var st status
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	assert.Equal(t, 1, st.Codes)
	assert.False(t, st.DoorActive)
	assert.Contains(t, []string{"day", "night"}, st.Theme)
	assert.Equal(t, "", st.State)
}

// answerKiosk replies to kiosk/status queries on the bus like a running kiosk.
func answerKiosk(t *testing.T, text string) {
	queries := services.Bus.Subscribe(pubsub.Exact("query"))
	t.Cleanup(func() { services.Bus.Close(queries) })
	go func() {
		for q := range queries {
			if q.StringField("query") != "kiosk/status" {
				continue
			}
			answer := pubsub.NewEvent(q.StringField("reply_to"), pubsub.Fields{"source": "kiosk", "message": text})
			services.Publisher.Emit(answer)
		}
	}()
}

func TestStatusFromRunningKiosk(t *testing.T) {
	setup(t)
	kioskTimeout = time.Second
	// toggled to night in the middle of the day
	answerKiosk(t, `{"state":"PinEntry","theme":"night"}`)

	w := get("/status.json")
	var st status
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	assert.Equal(t, "night", st.Theme)
	assert.Equal(t, "PinEntry", st.State)
}

func ExampleService_ID() {
	fmt.Println((&Service{}).ID())
	// Output: console
}
