package util

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ExampleFriendlyDuration() {
	d1, _ := time.ParseDuration("48h")
	d2, _ := time.ParseDuration("26.5h")
	d3, _ := time.ParseDuration("5h59m")
	d4, _ := time.ParseDuration("37m1s")
	d5, _ := time.ParseDuration("1500ms")
	d6, _ := time.ParseDuration("0ms")

	fmt.Println(FriendlyDuration(d1))
	fmt.Println(FriendlyDuration(d2))
	fmt.Println(FriendlyDuration(d3))
	fmt.Println(FriendlyDuration(d4))
	fmt.Println(FriendlyDuration(d5))
	fmt.Println(FriendlyDuration(d6))
	// Output:
	// 2 days
	// 1 day 2 hours
	// 5 hours 59 minutes
	// 37 minutes 1 second
	// 1 second
	// 0 seconds
}

func ExampleShortDuration() {
	d1, _ := time.ParseDuration("48h")
	d2, _ := time.ParseDuration("26.5h")
	d3, _ := time.ParseDuration("5h59m")
	d4, _ := time.ParseDuration("37m1s")
	d5, _ := time.ParseDuration("1500ms")
	d6, _ := time.ParseDuration("500ms")

	fmt.Println(ShortDuration(d1))
	fmt.Println(ShortDuration(d2))
	fmt.Println(ShortDuration(d3))
	fmt.Println(ShortDuration(d4))
	fmt.Println(ShortDuration(d5))
	fmt.Println(ShortDuration(d6))
	// Output:
	// 2d
	// 1d 2h
	// 5h 59m
	// 37m 1s
	// 1s
	// 0s
}

func ExampleParseClock() {
	d, _ := ParseClock("8:05")
	fmt.Println(d)
	fmt.Println(FormatClock(d))
	// Output:
	// 8h5m0s
	// 08:05
}

func TestParseClockErrors(t *testing.T) {
	for _, s := range []string{"", "8", "aa:00", "8:60", "25:00", "24:01", "-1:00"} {
		_, err := ParseClock(s)
		assert.Error(t, err, s)
	}
	d, err := ParseClock("24:00")
	assert.NoError(t, err)
	assert.Equal(t, 24*time.Hour, d)
}

func TestSinceMidnight(t *testing.T) {
	now := time.Date(2024, 3, 4, 17, 0, 1, 0, time.UTC)
	assert.Equal(t, 17*time.Hour+time.Second, SinceMidnight(now))
}
