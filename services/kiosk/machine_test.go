package kiosk

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartklingel/klingel/config"
	"github.com/smartklingel/klingel/door"
	"github.com/smartklingel/klingel/hardware"
	"github.com/smartklingel/klingel/hours"
	"github.com/smartklingel/klingel/pubsub/dummy"
)

type fakeCodes map[string]string

func (self fakeCodes) Lookup(code string) (string, bool) {
	name, ok := self[code]
	return name, ok
}

type fakeLog struct {
	mu      sync.Mutex
	entries []string
}

func (self *fakeLog) Record(text string) error {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.entries = append(self.entries, text)
	return nil
}

type opening struct {
	source, actor, reason string
}

type fakeDoor struct {
	opens []opening
}

func (self *fakeDoor) OpenWithReason(source, actor, reason string) {
	self.opens = append(self.opens, opening{source, actor, reason})
}

type fixture struct {
	m         *Machine
	log       *fakeLog
	door      *fakeDoor
	board     *hardware.Board
	publisher *dummy.Publisher
	counted   []string
	clock     time.Time
}

var monday = time.Date(2024, 3, 4, 10, 0, 0, 0, time.Local)
var sunday = time.Date(2024, 3, 3, 10, 0, 0, 0, time.Local)

func newFixture(t *testing.T, now time.Time) *fixture {
	f := &fixture{
		log:       &fakeLog{},
		door:      &fakeDoor{},
		board:     hardware.NewDummy(),
		publisher: &dummy.Publisher{},
		clock:     now,
	}
	conf := config.Default().Kiosk
	conf.Feedback.Duration = time.Millisecond
	deps := Deps{
		Codes:     fakeCodes{"1234": "Anna", "987654": "Bert"},
		Log:       f.log,
		Door:      f.door,
		Board:     f.board,
		Hours:     hours.Default,
		Publisher: f.publisher,
		Count:     func(path string) { f.counted = append(f.counted, path) },
	}
	m, err := NewMachine(conf, deps)
	require.NoError(t, err)
	m.now = func() time.Time { return f.clock }
	m.async = func(fn func()) { fn() }
	m.Refresh()
	f.m = m
	return f
}

func (self *fixture) advance(d time.Duration) {
	self.clock = self.clock.Add(d)
}

func (self *fixture) typeCode(code string) {
	for _, c := range code {
		self.m.Handle(Digit(string(c)))
	}
}

func TestStartsIdle(t *testing.T) {
	f := newFixture(t, monday)
	assert.Equal(t, Idle, f.m.State())
	assert.Equal(t, Status{State: Idle, Theme: "day"}, f.m.Status())
	assert.False(t, f.m.Tick())
	assert.Equal(t, time.Duration(0), f.m.Remaining())
}

func TestValidPin(t *testing.T) {
	f := newFixture(t, sunday)
	f.m.Handle(Code())
	assert.Equal(t, PinEntry, f.m.State())
	f.typeCode("1234")
	assert.Equal(t, "1234", f.m.Entry)
	f.m.Handle(Submit())

	assert.Equal(t, Greeting, f.m.State())
	assert.Equal(t, "Anna", f.m.Owner)
	assert.Equal(t, []string{"Door opened by: Anna"}, f.log.entries)
	// closed on sunday, known codes open anyway
	assert.Equal(t, []opening{{"kiosk", "Anna", ""}}, f.door.opens)
	assert.Equal(t, "", f.m.Entry)
}

func TestInvalidPin(t *testing.T) {
	f := newFixture(t, monday)
	f.m.Handle(Code())
	f.typeCode("4321")
	f.m.Handle(Submit())

	assert.Equal(t, PinEntry, f.m.State())
	assert.Equal(t, "", f.m.Entry)
	assert.True(t, f.m.Flashing())
	assert.Empty(t, f.door.opens)
	assert.Empty(t, f.log.entries)
	assert.Equal(t, []string{"code"}, f.publisher.Topics())

	f.advance(500 * time.Millisecond)
	assert.False(t, f.m.Flashing())

	// a retry with the right code still works
	f.typeCode("987654")
	f.m.Handle(Submit())
	assert.Equal(t, Greeting, f.m.State())
	assert.Equal(t, []string{"Door opened by: Bert"}, f.log.entries)
}

func TestEmptySubmitRejected(t *testing.T) {
	f := newFixture(t, monday)
	f.m.Handle(Code())
	f.m.Handle(Submit())
	assert.Equal(t, PinEntry, f.m.State())
	assert.True(t, f.m.Flashing())
	assert.Empty(t, f.door.opens)
}

func TestClearAndCancel(t *testing.T) {
	f := newFixture(t, monday)
	f.m.Handle(Code())
	f.typeCode("12")
	f.m.Handle(Clear())
	assert.Equal(t, "", f.m.Entry)
	f.typeCode("123456789")
	assert.Equal(t, "12345678", f.m.Entry)
	f.m.Handle(Digit("x"))
	assert.Equal(t, "12345678", f.m.Entry)

	f.m.Handle(Cancel())
	assert.Equal(t, Idle, f.m.State())
	assert.Equal(t, "", f.m.Entry)
	assert.Empty(t, f.door.opens)
}

func TestRingDuringOpeningHours(t *testing.T) {
	f := newFixture(t, monday)
	f.m.Handle(Ring())
	assert.Equal(t, ReasonSelect, f.m.State())
	assert.Equal(t, []bool{true, false}, f.board.Feedback.(*hardware.DummyOutput).Changes())
	assert.Equal(t, []string{"523.25Hz 200ms", "392.00Hz 400ms"}, f.board.Buzzer.(*hardware.DummyBuzzer).Notes())

	f.m.Handle(Reason("Visit"))
	assert.Equal(t, Result, f.m.State())
	assert.True(t, f.m.Open)
	assert.Equal(t, "Visit", f.m.Reason)
	assert.Equal(t, []string{"Visit"}, f.log.entries)
	assert.Equal(t, []opening{{"kiosk", "", "Visit"}}, f.door.opens)
	assert.Equal(t, []string{"ring"}, f.publisher.Topics())
	assert.Equal(t, []string{"klingel.ring"}, f.counted)
}

func TestRingWhenClosed(t *testing.T) {
	f := newFixture(t, sunday)
	f.m.Handle(Ring())
	f.m.Handle(Reason("Parcel / Post"))
	assert.Equal(t, Result, f.m.State())
	assert.False(t, f.m.Open)
	assert.Equal(t, []string{"Parcel / Post"}, f.log.entries)
	assert.Empty(t, f.door.opens)
}

func TestChimeFailureIgnored(t *testing.T) {
	f := newFixture(t, monday)
	f.board.Buzzer.(*hardware.DummyBuzzer).Err = assert.AnError
	f.m.Handle(Ring())
	assert.Equal(t, ReasonSelect, f.m.State())
}

func TestTimeouts(t *testing.T) {
	cases := []struct {
		state   string
		reach   func(f *fixture)
		timeout time.Duration
	}{
		{ReasonSelect, func(f *fixture) { f.m.Handle(Ring()) }, 10 * time.Second},
		{PinEntry, func(f *fixture) { f.m.Handle(Code()) }, 15 * time.Second},
		{Result, func(f *fixture) {
			f.m.Handle(Ring())
			f.m.Handle(Reason("Visit"))
		}, 6 * time.Second},
		{Greeting, func(f *fixture) {
			f.m.Handle(Code())
			f.typeCode("1234")
			f.m.Handle(Submit())
		}, 3 * time.Second},
	}
	for _, c := range cases {
		t.Run(c.state, func(t *testing.T) {
			f := newFixture(t, monday)
			c.reach(f)
			require.Equal(t, c.state, f.m.State())
			assert.Equal(t, c.timeout, f.m.Remaining())

			f.advance(c.timeout - time.Millisecond)
			assert.False(t, f.m.Tick())
			assert.Equal(t, c.state, f.m.State())

			f.advance(time.Millisecond)
			assert.True(t, f.m.Tick())
			assert.Equal(t, Idle, f.m.State())
			assert.Equal(t, Status{State: Idle, Theme: "day"}, f.m.Status())
		})
	}
}

func TestInputRestartsTimeout(t *testing.T) {
	f := newFixture(t, monday)
	f.m.Handle(Code())
	f.advance(10 * time.Second)
	f.m.Handle(Digit("1"))
	f.advance(10 * time.Second)
	assert.False(t, f.m.Tick())
	assert.Equal(t, "1", f.m.Entry)
	f.advance(5 * time.Second)
	assert.True(t, f.m.Tick())
	assert.Equal(t, Idle, f.m.State())
	assert.Equal(t, "", f.m.Entry)
}

func TestKeypad(t *testing.T) {
	f := newFixture(t, monday)
	f.m.Handle(Keypad("1234"))
	assert.Equal(t, Greeting, f.m.State())
	assert.Equal(t, []string{"Door opened by: Anna"}, f.log.entries)

	// ignored on the greeting screen
	f.m.Handle(Keypad("987654"))
	assert.Equal(t, Greeting, f.m.State())
	assert.Len(t, f.door.opens, 1)
}

func TestKeypadUnknownCode(t *testing.T) {
	f := newFixture(t, monday)
	f.m.Handle(Keypad("0000"))
	assert.Equal(t, PinEntry, f.m.State())
	assert.True(t, f.m.Flashing())
	assert.Empty(t, f.door.opens)
}

func TestModeOnlyWhenIdle(t *testing.T) {
	f := newFixture(t, monday)
	assert.False(t, f.m.Night())
	f.m.Handle(Mode())
	assert.True(t, f.m.Night())
	assert.Equal(t, "night", f.m.Status().Theme)

	f.m.Handle(Code())
	f.m.Handle(Mode())
	assert.True(t, f.m.Night())
	assert.Equal(t, PinEntry, f.m.State())
}

func TestValidPinPulsesRelay(t *testing.T) {
	f := newFixture(t, sunday)
	relay := f.board.Door.(*hardware.DummyOutput)
	d := door.New(relay, 5*time.Millisecond)
	f.m.deps.Door = d

	f.m.Handle(Code())
	f.typeCode("987654")
	f.m.Handle(Submit())
	assert.Equal(t, Greeting, f.m.State())

	d.Wait()
	assert.Equal(t, []bool{true, false}, relay.Changes())
	assert.False(t, d.Active())
}
