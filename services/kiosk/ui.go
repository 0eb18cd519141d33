package kiosk

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smartklingel/klingel/util"
)

type tickMsg struct{ gen int }

type flashMsg struct{}

type clockMsg time.Time

type keypadMsg struct{ code string }

type keyMap struct {
	Ring   key.Binding
	Code   key.Binding
	Mode   key.Binding
	Submit key.Binding
	Clear  key.Binding
	Cancel key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Ring:   key.NewBinding(key.WithKeys("r", " "), key.WithHelp("r", "ring")),
	Code:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "code entry")),
	Mode:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "day/night")),
	Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "ok")),
	Clear:  key.NewBinding(key.WithKeys("backspace", "delete"), key.WithHelp("backspace", "clear")),
	Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Quit:   key.NewBinding(key.WithKeys("ctrl+c")),
}

const minWidth = 24

// model draws the Machine and turns touches, keys and timers into inputs.
type model struct {
	machine *Machine
	width   int
	height  int
	gen     int
}

func newModel(m *Machine) *model {
	return &model{machine: m, width: 48, height: 40}
}

func clock() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg { return clockMsg(t) })
}

func (self *model) Init() tea.Cmd {
	return clock()
}

func (self *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		self.width, self.height = msg.Width, msg.Height
	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			return self, tea.Quit
		}
		if in, ok := self.keyInput(msg); ok {
			return self, self.handle(in)
		}
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			if in, ok := self.hit(msg.X, msg.Y); ok {
				return self, self.handle(in)
			}
		}
	case keypadMsg:
		return self, self.handle(Keypad(msg.code))
	case tickMsg:
		if msg.gen != self.gen {
			// superseded by later input
			return self, nil
		}
		if self.machine.Tick() {
			self.gen++
			return self, nil
		}
		return self, self.schedule()
	case flashMsg:
		// redraw without the error colour
	case clockMsg:
		self.machine.Refresh()
		return self, clock()
	}
	return self, nil
}

func (self *model) handle(in Input) tea.Cmd {
	self.machine.Handle(in)
	self.gen++
	cmd := self.schedule()
	if self.machine.Flashing() {
		flash := tea.Tick(self.machine.conf.Flash.Duration, func(time.Time) tea.Msg { return flashMsg{} })
		cmd = tea.Batch(cmd, flash)
	}
	return cmd
}

func (self *model) schedule() tea.Cmd {
	d := self.machine.Remaining()
	if self.machine.State() == Idle {
		return nil
	}
	gen := self.gen
	return tea.Tick(d, func(time.Time) tea.Msg { return tickMsg{gen} })
}

func (self *model) keyInput(msg tea.KeyMsg) (Input, bool) {
	switch self.machine.State() {
	case Idle:
		switch {
		case key.Matches(msg, keys.Ring):
			return Ring(), true
		case key.Matches(msg, keys.Code):
			return Code(), true
		case key.Matches(msg, keys.Mode):
			return Mode(), true
		}
	case ReasonSelect:
		s := msg.String()
		reasons := self.machine.Reasons()
		if len(s) == 1 && s[0] >= '1' && int(s[0]-'1') < len(reasons) {
			return Reason(reasons[s[0]-'1']), true
		}
	case PinEntry:
		s := msg.String()
		switch {
		case len(s) == 1 && s[0] >= '0' && s[0] <= '9':
			return Digit(s), true
		case key.Matches(msg, keys.Submit):
			return Submit(), true
		case key.Matches(msg, keys.Clear):
			return Clear(), true
		case key.Matches(msg, keys.Cancel):
			return Cancel(), true
		}
	}
	return Input{}, false
}

type cell struct {
	text  string
	style lipgloss.Style
	width int
	input *Input
}

func label(text string, style lipgloss.Style) cell {
	return cell{text: text, style: style}
}

func button(text string, style lipgloss.Style, in Input) cell {
	return cell{text: text, style: style, input: &in}
}

func (self cell) render(width int) string {
	w := width - self.style.GetHorizontalBorderSize()
	if w < 1 {
		w = 1
	}
	return self.style.Width(w).Render(self.text)
}

type hit struct {
	x0, y0, x1, y1 int
	input          Input
}

func (self hit) contains(x, y int) bool {
	return x >= self.x0 && x < self.x1 && y >= self.y0 && y < self.y1
}

// widths shares width between the cells of a row. Cells without a width
// split what the others leave.
func widths(width int, row []cell) []int {
	ret := make([]int, len(row))
	flexible := 0
	remaining := width
	for i, c := range row {
		if c.width > 0 {
			ret[i] = c.width
			remaining -= c.width
		} else {
			flexible++
		}
	}
	if flexible == 0 {
		return ret
	}
	share := remaining / flexible
	last := -1
	for i, c := range row {
		if c.width == 0 {
			ret[i] = share
			last = i
		}
	}
	ret[last] += remaining - share*flexible
	return ret
}

func (self *model) styles() Styles {
	if self.machine.Night() {
		return nightStyles
	}
	return dayStyles
}

func (self *model) rows(st Styles) [][]cell {
	m := self.machine
	switch m.State() {
	case ReasonSelect:
		rows := [][]cell{{label("Choose a reason:", st.Title)}}
		for _, r := range m.Reasons() {
			rows = append(rows, []cell{button(r, st.Button, Reason(r))})
		}
		return rows
	case PinEntry:
		entry := st.Entry
		if m.Flashing() {
			entry = st.EntryError
		}
		rows := [][]cell{
			{label("Enter code:", st.Title)},
			{label(strings.Repeat("*", len(m.Entry)), entry)},
		}
		for _, line := range []string{"123", "456", "789"} {
			var row []cell
			for _, d := range line {
				row = append(row, button(string(d), st.Button, Digit(string(d))))
			}
			rows = append(rows, row)
		}
		rows = append(rows,
			[]cell{button("C", st.Button, Clear()), button("0", st.Button, Digit("0")), button("OK", st.Button, Submit())},
			[]cell{label("", st.Base)},
			[]cell{button("Cancel", st.Button, Cancel())},
		)
		return rows
	case Result:
		if m.Open {
			return [][]cell{
				{label("Thank you!", st.Good)},
				{label("We'll be right with you!", st.Text)},
			}
		}
		return [][]cell{
			{label("Closed", st.Bad)},
			{label("We are not here right now.\nYour message has been sent!", st.Text)},
		}
	case Greeting:
		return [][]cell{{label("Hello\n"+m.Owner, st.Good)}}
	}

	status, verb := "Closed now", "opens"
	if m.IsOpen() {
		status, verb = "Open now", "closes"
	}
	if d := m.UntilChange(); d > 0 {
		status += ", " + verb + " in " + util.ShortDuration(d)
	}
	mode := button("Mode", st.Button, Mode())
	mode.width = 10
	return [][]cell{
		{label("", st.Base), mode},
		{label("", st.Base)},
		{button("RING", st.Bell, Ring())},
		{label("Opening hours:\n"+m.Hours().String(), st.Title)},
		{label(status, st.Text)},
		{button("Code entry", st.Button, Code())},
	}
}

// render the screen, returning where the buttons were drawn.
func (self *model) render() (string, []hit) {
	width := self.width
	if width < minWidth {
		width = minWidth
	}
	st := self.styles()
	var lines []string
	var hits []hit
	y := 0
	for _, row := range self.rows(st) {
		ws := widths(width, row)
		var parts []string
		x := 0
		for i, c := range row {
			s := c.render(ws[i])
			w, h := lipgloss.Width(s), lipgloss.Height(s)
			if c.input != nil {
				hits = append(hits, hit{x, y, x + w, y + h, *c.input})
			}
			parts = append(parts, s)
			x += w
		}
		line := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
		lines = append(lines, line)
		y += lipgloss.Height(line)
	}
	body := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return st.Base.Width(width).Height(self.height).Render(body), hits
}

func (self *model) hit(x, y int) (Input, bool) {
	_, hits := self.render()
	for _, h := range hits {
		if h.contains(x, y) {
			return h.input, true
		}
	}
	return Input{}, false
}

func (self *model) View() string {
	s, _ := self.render()
	return s
}
