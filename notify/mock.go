package notify

import "sync"

// Mock notifier for testing. Messages are recorded, and also sent to Sent
// when it is non-nil.
type Mock struct {
	Err      error
	Sent     chan string
	mu       sync.Mutex
	messages []string
}

func (self *Mock) ID() string {
	return "mock"
}

func (self *Mock) Notify(title, message string) error {
	self.mu.Lock()
	self.messages = append(self.messages, message)
	self.mu.Unlock()
	if self.Sent != nil {
		self.Sent <- message
	}
	return self.Err
}

func (self *Mock) Messages() []string {
	self.mu.Lock()
	defer self.mu.Unlock()
	return append([]string(nil), self.messages...)
}
