// Service for the doorbell's touchscreen. Visitors ring and pick a reason,
// owners type their code. The screen is a terminal UI on the kiosk's tty,
// touches arrive as mouse presses.
package kiosk

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/smartklingel/klingel/pubsub"
	"github.com/smartklingel/klingel/services"
)

// Service kiosk
type Service struct {
	machine *Machine
}

// ID of the service
func (self *Service) ID() string {
	return "kiosk"
}

func (self *Service) QueryHandlers() services.QueryHandlers {
	return services.QueryHandlers{
		"status": self.queryStatus,
		"help":   services.StaticHandler("status: kiosk screen and theme\n"),
	}
}

func (self *Service) queryStatus(q services.Question) services.Answer {
	if self.machine == nil {
		return services.Answer{Text: "starting"}
	}
	status := self.machine.Status()
	text, _ := json.Marshal(status)
	return services.Answer{Text: string(text), Json: status}
}

// Run the service
func (self *Service) Run() error {
	conf := services.Config
	deps := Deps{
		Codes:     services.Codes,
		Log:       services.Log,
		Door:      services.Door,
		Board:     services.Board,
		Hours:     conf.Schedule,
		Publisher: services.Publisher,
		Count:     services.Count,
	}
	machine, err := NewMachine(conf.Kiosk, deps)
	if err != nil {
		return err
	}
	self.machine = machine

	// the screen owns stdout, so logging moves beside the event log
	logfile := filepath.Join(filepath.Dir(conf.General.Log), "kiosk.log")
	os.MkdirAll(filepath.Dir(logfile), 0755)
	f, err := tea.LogToFile(logfile, "")
	if err != nil {
		return err
	}
	defer f.Close()

	program := tea.NewProgram(newModel(machine), tea.WithAltScreen(), tea.WithMouseCellMotion())

	// codes from the keypad service
	ch := services.Bus.Subscribe(pubsub.Exact("keypad"))
	defer services.Bus.Close(ch)
	go func() {
		for ev := range ch {
			program.Send(keypadMsg{ev.StringField("code")})
		}
	}()

	log.Println("Kiosk screen started")
	_, err = program.Run()
	return err
}
