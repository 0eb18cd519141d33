// Package eventlog is the doorbell's append-only activity log. Every entry is
// also pushed to the configured notifiers.
package eventlog

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/smartklingel/klingel/notify"
)

const TimeFormat = "2006-01-02 15:04:05"

type Log struct {
	path     string
	title    string
	notifier notify.Notifier
	mu       sync.Mutex
	pending  sync.WaitGroup
	now      func() time.Time
}

// New log at path. notifier may be nil.
func New(path, title string, notifier notify.Notifier) *Log {
	return &Log{path: path, title: title, notifier: notifier, now: time.Now}
}

func (self *Log) Path() string {
	return self.path
}

// Format a log line, without the newline.
func Format(t time.Time, text string) string {
	return fmt.Sprintf("[%s] %s", t.Format(TimeFormat), text)
}

// Record appends text to the log, then notifies in the background. The write
// error is returned, but notification happens either way.
func (self *Log) Record(text string) error {
	line := Format(self.now(), text)
	if len(line) >= MaxLine {
		line = line[:MaxLine-1]
	}
	log.Println("Event:", text)
	err := self.append(line)
	if err != nil {
		log.Println("Error writing log:", err)
	}
	if self.notifier != nil {
		self.pending.Add(1)
		go func() {
			defer self.pending.Done()
			if err := self.notifier.Notify(self.title, text); err != nil {
				log.Println("Notification failed:", err)
			}
		}()
	}
	return err
}

func (self *Log) append(line string) error {
	self.mu.Lock()
	defer self.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(self.path), 0755); err != nil {
		return errors.Wrap(err, "creating log directory")
	}
	f, err := os.OpenFile(self.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrap(err, "opening log")
	}
	_, err = f.WriteString(line + "\n")
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return errors.Wrap(err, "writing log")
}

// MaxLine bounds a log line, longer entries are cut when recorded.
const MaxLine = 1024 * 1024

// Tail returns up to n of the newest lines, newest first. A missing log has
// no lines.
func (self *Log) Tail(n int) []string {
	self.mu.Lock()
	defer self.mu.Unlock()
	f, err := os.Open(self.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Println("Error reading log:", err)
		}
		return []string{}
	}
	defer f.Close()

	if n < 0 {
		n = 0
	}
	ring := make([]string, 0, n)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLine+1)
	for scanner.Scan() {
		if n <= 0 {
			continue
		}
		if len(ring) == n {
			ring = ring[1:]
		}
		ring = append(ring, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		log.Println("Error reading log:", err)
	}
	ret := make([]string, len(ring))
	for i, line := range ring {
		ret[len(ring)-1-i] = line
	}
	return ret
}

// Wait for notifications in flight.
func (self *Log) Wait() {
	self.pending.Wait()
}
