package kiosk

import (
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/smartklingel/klingel/config"
	"github.com/smartklingel/klingel/util"
)

// Theme is day or night by the clock. A manual toggle holds until the clock
// next says otherwise.
type Theme struct {
	nightAt     time.Duration
	dayAt       time.Duration
	manual      bool
	value       bool
	lastDerived bool
	seen        bool
}

func NewTheme(conf config.ThemeConf) *Theme {
	night, err := util.ParseClock(conf.Night)
	if err != nil {
		night = 18 * time.Hour
	}
	day, err := util.ParseClock(conf.Day)
	if err != nil {
		day = 7 * time.Hour
	}
	return &Theme{nightAt: night, dayAt: day}
}

func (self *Theme) derive(t time.Time) bool {
	s := util.SinceMidnight(t)
	if self.nightAt > self.dayAt {
		return s >= self.nightAt || s < self.dayAt
	}
	return s >= self.nightAt && s < self.dayAt
}

// Night reports whether the night theme applies at t.
func (self *Theme) Night(t time.Time) bool {
	d := self.derive(t)
	if self.manual && self.seen && d != self.lastDerived {
		self.manual = false
	}
	self.lastDerived = d
	self.seen = true
	if self.manual {
		return self.value
	}
	return d
}

func (self *Theme) Toggle(t time.Time) {
	current := self.Night(t)
	self.manual = true
	self.value = !current
}

func (self *Theme) Name(t time.Time) string {
	if self.Night(t) {
		return "night"
	}
	return "day"
}

type Palette struct {
	Bg     string
	Fg     string
	BtnBg  string
	BtnFg  string
	BellBg string
}

var DayPalette = Palette{Bg: "#ecf0f1", Fg: "#2c3e50", BtnBg: "#bdc3c7", BtnFg: "#2c3e50", BellBg: "#e74c3c"}
var NightPalette = Palette{Bg: "#2c3e50", Fg: "#ecf0f1", BtnBg: "#34495e", BtnFg: "#ecf0f1", BellBg: "#c0392b"}

const (
	colorGood  = "#2ecc71"
	colorBad   = "#e74c3c"
	colorWhite = "#ffffff"
)

type Styles struct {
	Base       lipgloss.Style
	Title      lipgloss.Style
	Text       lipgloss.Style
	Button     lipgloss.Style
	Bell       lipgloss.Style
	Good       lipgloss.Style
	Bad        lipgloss.Style
	Entry      lipgloss.Style
	EntryError lipgloss.Style
}

func NewStyles(p Palette) Styles {
	bg := lipgloss.Color(p.Bg)
	base := lipgloss.NewStyle().Background(bg).Foreground(lipgloss.Color(p.Fg))
	button := lipgloss.NewStyle().
		Background(lipgloss.Color(p.BtnBg)).
		Foreground(lipgloss.Color(p.BtnFg)).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(p.Fg)).
		BorderBackground(bg).
		Align(lipgloss.Center)
	entry := lipgloss.NewStyle().
		Background(lipgloss.Color(colorWhite)).
		Foreground(lipgloss.Color("#000000")).
		Border(lipgloss.NormalBorder()).
		BorderBackground(bg).
		Align(lipgloss.Center)
	return Styles{
		Base:       base,
		Title:      base.Bold(true).Align(lipgloss.Center).Padding(1, 0),
		Text:       base.Align(lipgloss.Center),
		Button:     button,
		Bell:       button.Background(lipgloss.Color(p.BellBg)).Foreground(lipgloss.Color(colorWhite)).Bold(true).Padding(2, 0),
		Good:       base.Foreground(lipgloss.Color(colorGood)).Bold(true).Align(lipgloss.Center).Padding(2, 0),
		Bad:        base.Foreground(lipgloss.Color(colorBad)).Bold(true).Align(lipgloss.Center).Padding(2, 0),
		Entry:      entry,
		EntryError: entry.Background(lipgloss.Color(colorBad)),
	}
}

var (
	dayStyles   = NewStyles(DayPalette)
	nightStyles = NewStyles(NightPalette)
)
