package util

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

func plural(n int, suffix string) string {
	switch n {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("%d %s", n, suffix)
	default:
		return fmt.Sprintf("%d %ss", n, suffix)
	}
}

func number(n int, suffix string) string {
	switch n {
	case 0:
		return ""
	default:
		return fmt.Sprintf("%d%s", n, suffix)
	}
}

func joinpair(a, b string) string {
	if a != "" && b != "" {
		return a + " " + b
	}
	return a + b
}

func FriendlyDuration(d time.Duration) string {
	switch {
	case d.Hours() >= 24:
		days := int(d.Hours() / 24)
		hours := int(d.Hours()) - days*24
		return joinpair(plural(days, "day"), plural(hours, "hour"))
	case d.Hours() >= 1:
		hours := int(d.Hours())
		mins := int(int(d.Minutes()) - 60*hours)
		return joinpair(plural(hours, "hour"), plural(mins, "minute"))
	case d.Minutes() >= 1:
		mins := int(d.Minutes())
		secs := int(int(d.Seconds()) - 60*mins)
		return joinpair(plural(mins, "minute"), plural(secs, "second"))
	case d.Seconds() >= 1:
		secs := int(d.Seconds())
		return plural(secs, "second")
	}
	return "0 seconds"
}

func ShortDuration(d time.Duration) string {
	switch {
	case d.Hours() >= 24:
		days := int(d.Hours() / 24)
		hours := int(d.Hours()) - days*24
		return joinpair(number(days, "d"), number(hours, "h"))
	case d.Hours() >= 1:
		hours := int(d.Hours())
		mins := int(int(d.Minutes()) - 60*hours)
		return joinpair(number(hours, "h"), number(mins, "m"))
	case d.Minutes() >= 1:
		mins := int(d.Minutes())
		secs := int(int(d.Seconds()) - 60*mins)
		return joinpair(number(mins, "m"), number(secs, "s"))
	case d.Seconds() >= 1:
		secs := int(d.Seconds())
		return number(secs, "s")
	}
	return "0s"
}

var DOW = map[string]time.Weekday{
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
	"Sunday":    time.Sunday,
	"Mon":       time.Monday,
	"Tue":       time.Tuesday,
	"Wed":       time.Wednesday,
	"Thu":       time.Thursday,
	"Fri":       time.Friday,
	"Sat":       time.Saturday,
	"Sun":       time.Sunday,
}

// ParseClock parses a wall clock time of the form "8:00" or "17:30" into the
// offset from midnight. "24:00" is accepted as the end of the day.
func ParseClock(s string) (time.Duration, error) {
	ps := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(ps) != 2 {
		return 0, errors.New("invalid time: " + s)
	}
	h, err := strconv.Atoi(ps[0])
	if err != nil {
		return 0, errors.New("invalid time: " + s)
	}
	m, err := strconv.Atoi(ps[1])
	if err != nil || h < 0 || m < 0 || m > 59 || h > 24 || (h == 24 && m != 0) {
		return 0, errors.New("invalid time: " + s)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute, nil
}

// FormatClock is the inverse of ParseClock.
func FormatClock(d time.Duration) string {
	mins := int(d.Minutes())
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

// SinceMidnight returns the offset of t into its (local) day.
func SinceMidnight(t time.Time) time.Duration {
	h, m, s := t.Clock()
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second +
		time.Duration(t.Nanosecond())
}
