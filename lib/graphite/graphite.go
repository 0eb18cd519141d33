// Package graphite sends datapoints to a carbon plaintext endpoint.
package graphite

import (
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"time"
)

const BatchSize = 4096

type Sink interface {
	Add(path string, timestamp int64, value float64) error
	Flush() error
}

type Graphite struct {
	addr   string
	buffer string
	mu     sync.Mutex
}

var dialer = func(network, address string) (io.ReadWriteCloser, error) {
	return net.DialTimeout(network, address, 5*time.Second)
}

// New sink for addr. The carbon port 2003 is assumed when addr has none.
func New(addr string) *Graphite {
	if !strings.Contains(addr, ":") {
		addr += ":2003"
	}
	return &Graphite{addr: addr}
}

func (graphite *Graphite) Add(path string, timestamp int64, value float64) error {
	graphite.mu.Lock()
	line := fmt.Sprintf("%s %v %d\n", path, value, timestamp)
	graphite.buffer += line
	full := len(graphite.buffer) > BatchSize
	graphite.mu.Unlock()
	if full {
		return graphite.Flush()
	}
	return nil
}

// Flush buffered datapoints. If the endpoint is unreachable they are kept
// for the next flush, up to BatchSize bytes of the newest.
func (graphite *Graphite) Flush() error {
	graphite.mu.Lock()
	defer graphite.mu.Unlock()
	if graphite.buffer == "" {
		return nil
	}
	conn, err := dialer("tcp", graphite.addr)
	if err != nil {
		graphite.truncate()
		return err
	}
	defer conn.Close()
	if _, err := conn.Write([]byte(graphite.buffer)); err != nil {
		graphite.truncate()
		return err
	}
	graphite.buffer = ""
	return nil
}

// truncate drops the oldest whole lines beyond BatchSize.
func (graphite *Graphite) truncate() {
	if len(graphite.buffer) <= BatchSize {
		return
	}
	rest := graphite.buffer[len(graphite.buffer)-BatchSize:]
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[i+1:]
	}
	graphite.buffer = rest
}

// Count adds a datapoint of 1 now, and flushes.
func Count(sink Sink, path string) error {
	if err := sink.Add(path, time.Now().Unix(), 1); err != nil {
		return err
	}
	return sink.Flush()
}

// Mock sink that remembers paths.
type Mock struct {
	mu    sync.Mutex
	Paths []string
}

func (self *Mock) Add(path string, timestamp int64, value float64) error {
	self.mu.Lock()
	self.Paths = append(self.Paths, path)
	self.mu.Unlock()
	return nil
}

func (self *Mock) Flush() error {
	return nil
}

func (self *Mock) Counted() []string {
	self.mu.Lock()
	defer self.mu.Unlock()
	return append([]string(nil), self.Paths...)
}
