// Package console is a service providing the web page for remote
// administrators: open the door, manage access codes and read the log.
//
// The endpoints supported are:
//
// http://localhost:5000/ - status page
//
// http://localhost:5000/open - POST to open the door
//
// http://localhost:5000/add_code - POST name and code to add an access code
//
// http://localhost:5000/del_code - POST code to remove an access code
//
// http://localhost:5000/download - download the event log
//
// http://localhost:5000/status.json - status for dashboards
//
// http://localhost:5000/query/{query} - query a service, e.g. http://localhost:5000/query/kiosk/status
package console

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"

	"github.com/smartklingel/klingel/audit"
	"github.com/smartklingel/klingel/codes"
	"github.com/smartklingel/klingel/services"
	"github.com/smartklingel/klingel/services/kiosk"
)

// Service console
type Service struct {
}

// ID of the service
func (service *Service) ID() string {
	return "console"
}

func errorResponse(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), 500)
}

func jsonResponse(w http.ResponseWriter, obj interface{}) {
	w.Header().Add("Content-Type", "application/json; charset=utf-8")
	enc := json.NewEncoder(w)
	err := enc.Encode(obj)
	if err != nil {
		errorResponse(w, err)
	}
}

type page struct {
	Codes  []codes.Entry
	Lines  []string
	Hours  string
	Open   bool
	Recent []audit.Record
}

func consoleIndex(w http.ResponseWriter, r *http.Request) {
	p := page{
		Codes: services.Codes.List(),
		Lines: services.Log.Tail(services.Config.Console.Lines),
		Hours: services.Config.Schedule.String(),
		Open:  services.Config.Schedule.IsOpen(time.Now()),
	}
	if services.Audit != nil {
		recent, err := services.Audit.Recent(r.Context(), 10)
		if err != nil {
			log.Println("Audit error:", err)
		}
		p.Recent = recent
	}
	w.Header().Add("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, p); err != nil {
		log.Println("Template error:", err)
	}
}

func home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func consoleOpen(w http.ResponseWriter, r *http.Request) {
	services.Log.Record("Web interface remote opening")
	services.Door.Open("console", "")
	home(w, r)
}

func consoleAddCode(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("name")
	code := r.FormValue("code")
	if name != "" && code != "" {
		if err := services.Codes.Save(code, name); err != nil {
			log.Println("Add code:", err)
		} else {
			log.Println("Added code for", name)
		}
	}
	home(w, r)
}

func consoleDelCode(w http.ResponseWriter, r *http.Request) {
	code := r.FormValue("code")
	if code != "" {
		if err := services.Codes.Delete(code); err != nil {
			log.Println("Delete code:", err)
		}
	}
	home(w, r)
}

func consoleDownload(w http.ResponseWriter, r *http.Request) {
	path := services.Log.Path()
	if _, err := os.Stat(path); err != nil {
		w.Header().Add("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, "No log available")
		return
	}
	w.Header().Add("Content-Disposition", `attachment; filename="klingel_log.txt"`)
	w.Header().Add("Content-Type", "text/plain; charset=utf-8")
	http.ServeFile(w, r, path)
}

type status struct {
	Open       bool   `json:"open"`
	State      string `json:"state,omitempty"`
	Theme      string `json:"theme"`
	Codes      int    `json:"codes"`
	DoorActive bool   `json:"door_active"`
}

// kioskTimeout bounds the wait for the kiosk's answer.
var kioskTimeout = 250 * time.Millisecond

// kioskStatus asks the running kiosk for its screen and theme.
func kioskStatus() (kiosk.Status, bool) {
	var st kiosk.Status
	text, err := services.RPC("kiosk/status", kioskTimeout)
	if err != nil {
		return st, false
	}
	if err := json.Unmarshal([]byte(text), &st); err != nil {
		return st, false
	}
	return st, true
}

func consoleStatus(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	ret := status{
		Open:       services.Config.Schedule.IsOpen(now),
		Codes:      len(services.Codes.Load()),
		DoorActive: services.Door.Active(),
	}
	if st, ok := kioskStatus(); ok {
		ret.State, ret.Theme = st.State, st.Theme
	} else {
		// no kiosk running, the theme it would start with
		ret.Theme = kiosk.NewTheme(services.Config.Kiosk.Theme).Name(now)
	}
	jsonResponse(w, ret)
}

func consoleQuery(w http.ResponseWriter, r *http.Request) {
	query := mux.Vars(r)["query"]
	if q := r.URL.Query().Get("q"); q != "" {
		query += " " + q
	}
	w.Header().Add("Content-Type", "application/json; charset=utf-8")
	for ev := range services.QueryChannel(query, 100*time.Millisecond) {
		fmt.Fprint(w, ev.String()+"\r\n")
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}

func router() *mux.Router {
	router := mux.NewRouter()
	router.Path("/").Methods("GET").HandlerFunc(consoleIndex)
	router.Path("/open").Methods("POST").HandlerFunc(consoleOpen)
	router.Path("/add_code").Methods("POST").HandlerFunc(consoleAddCode)
	router.Path("/del_code").Methods("POST").HandlerFunc(consoleDelCode)
	router.Path("/download").Methods("GET").HandlerFunc(consoleDownload)
	router.Path("/status.json").Methods("GET").HandlerFunc(consoleStatus)
	router.Path("/query/{query:.+}").Methods("GET").HandlerFunc(consoleQuery)
	return router
}

type loggingHandler struct {
	Handler http.Handler
}

func (service loggingHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	log.Printf("%s %s\n", req.Method, req.RequestURI)
	service.Handler.ServeHTTP(w, req)
}

func handler() http.Handler {
	return loggingHandler{Handler: router()}
}

// Run the service
func (service *Service) Run() error {
	addr := services.Config.Console.Listen
	server := &http.Server{
		Addr:              addr,
		Handler:           handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Println("Listening on " + addr)
	err := server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
