// Package hours holds the weekly opening schedule. A visitor ringing outside
// of it is told nobody is there, and the door is left shut.
package hours

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/smartklingel/klingel/util"
)

// Window is an open period within a day, from Open (inclusive) to Close
// (exclusive), as offsets from midnight.
type Window struct {
	Open  time.Duration
	Close time.Duration
}

func (self Window) contains(d time.Duration) bool {
	return d >= self.Open && d < self.Close
}

func (self Window) String() string {
	return util.FormatClock(self.Open) + " - " + util.FormatClock(self.Close)
}

// Schedule of open windows per weekday. Days not present are closed.
type Schedule map[time.Weekday][]Window

// Default opening hours: Mon - Fri 08:00 - 17:00, Sat 09:00 - 13:00.
var Default = Schedule{
	time.Monday:    {{8 * time.Hour, 17 * time.Hour}},
	time.Tuesday:   {{8 * time.Hour, 17 * time.Hour}},
	time.Wednesday: {{8 * time.Hour, 17 * time.Hour}},
	time.Thursday:  {{8 * time.Hour, 17 * time.Hour}},
	time.Friday:    {{8 * time.Hour, 17 * time.Hour}},
	time.Saturday:  {{9 * time.Hour, 13 * time.Hour}},
}

var weekOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

func lookupDay(s string) (time.Weekday, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
	d, ok := util.DOW[s]
	return d, ok
}

func parseDays(key string) ([]time.Weekday, error) {
	var days []time.Weekday
	for _, part := range strings.Split(key, ",") {
		part = strings.TrimSpace(part)
		switch strings.ToLower(part) {
		case "weekdays":
			days = append(days, weekOrder[:5]...)
			continue
		case "weekends":
			days = append(days, weekOrder[5:]...)
			continue
		}
		if i := strings.Index(part, "-"); i != -1 {
			from, ok1 := lookupDay(part[:i])
			to, ok2 := lookupDay(part[i+1:])
			if !ok1 || !ok2 {
				return nil, fmt.Errorf("invalid day range: %s", part)
			}
			for d := from; ; d = (d + 1) % 7 {
				days = append(days, d)
				if d == to {
					break
				}
			}
			continue
		}
		d, ok := lookupDay(part)
		if !ok {
			return nil, fmt.Errorf("invalid day: %s", part)
		}
		days = append(days, d)
	}
	return days, nil
}

func parseWindows(value string) ([]Window, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "closed") {
		return nil, nil
	}
	var windows []Window
	for _, part := range strings.Split(value, ",") {
		ps := strings.SplitN(part, "-", 2)
		if len(ps) != 2 {
			return nil, fmt.Errorf("invalid window: %s", part)
		}
		open, err := util.ParseClock(ps[0])
		if err != nil {
			return nil, err
		}
		shut, err := util.ParseClock(ps[1])
		if err != nil {
			return nil, err
		}
		if shut <= open {
			return nil, fmt.Errorf("window closes before it opens: %s", part)
		}
		windows = append(windows, Window{open, shut})
	}
	sort.Slice(windows, func(i, j int) bool { return windows[i].Open < windows[j].Open })
	return windows, nil
}

// Parse a schedule from configuration, for example:
//
//	Monday-Friday: 08:00-17:00
//	Saturday: 09:00-13:00
//
// Keys are comma separated days, day ranges, "Weekdays" or "Weekends". Values
// are comma separated windows, or "closed". An empty configuration gives the
// Default schedule.
func Parse(conf map[string]string) (Schedule, error) {
	if len(conf) == 0 {
		return Default, nil
	}
	schedule := Schedule{}
	for key, value := range conf {
		days, err := parseDays(key)
		if err != nil {
			return nil, errors.Wrap(err, "hours")
		}
		windows, err := parseWindows(value)
		if err != nil {
			return nil, errors.Wrapf(err, "hours %s", key)
		}
		for _, d := range days {
			schedule[d] = append(schedule[d], windows...)
		}
	}
	for d, windows := range schedule {
		sort.Slice(windows, func(i, j int) bool { return windows[i].Open < windows[j].Open })
		schedule[d] = windows
	}
	return schedule, nil
}

// IsOpen reports whether t falls within an open window.
func (self Schedule) IsOpen(t time.Time) bool {
	offset := util.SinceMidnight(t)
	for _, w := range self[t.Weekday()] {
		if w.contains(offset) {
			return true
		}
	}
	return false
}

// NextChange returns when the schedule next flips between open and closed
// after t, or the zero time if it never does.
func (self Schedule) NextChange(t time.Time) time.Time {
	current := self.IsOpen(t)
	y, m, d := t.Date()
	var candidates []time.Time
	for i := 0; i <= 7; i++ {
		midnight := time.Date(y, m, d+i, 0, 0, 0, 0, t.Location())
		for _, w := range self[midnight.Weekday()] {
			candidates = append(candidates, midnight.Add(w.Open), midnight.Add(w.Close))
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Before(candidates[j]) })
	for _, c := range candidates {
		if c.After(t) && self.IsOpen(c) != current {
			return c
		}
	}
	return time.Time{}
}

func sameWindows(a, b []Window) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func dayName(d time.Weekday) string {
	return d.String()[:3]
}

// String renders the schedule for display, one line per run of days with the
// same hours, e.g. "Mon - Fri: 08:00 - 17:00".
func (self Schedule) String() string {
	var lines []string
	for i := 0; i < len(weekOrder); {
		windows := self[weekOrder[i]]
		j := i
		for j+1 < len(weekOrder) && sameWindows(self[weekOrder[j+1]], windows) {
			j++
		}
		if len(windows) > 0 {
			days := dayName(weekOrder[i])
			if j > i {
				days += " - " + dayName(weekOrder[j])
			}
			var ws []string
			for _, w := range windows {
				ws = append(ws, w.String())
			}
			lines = append(lines, days+": "+strings.Join(ws, ", "))
		}
		i = j + 1
	}
	if len(lines) == 0 {
		return "Closed"
	}
	return strings.Join(lines, "\n")
}
