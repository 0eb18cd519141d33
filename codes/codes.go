// Package codes is the access store: a flat mapping of numeric codes to the
// name of their owner, kept as a JSON file that is rewritten whole on every
// change.
package codes

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

var (
	ErrInvalidCode = errors.New("code must be 4 to 8 digits")
	ErrInvalidName = errors.New("name is required")
)

// DefaultCodes is written when no code file exists yet.
var DefaultCodes = map[string]string{"1234": "Admin"}

var reCode = regexp.MustCompile(`^[0-9]{4,8}$`)

// Valid reports whether code looks like an access code.
func Valid(code string) bool {
	return reCode.MatchString(code)
}

// Store of access codes. The mutex only serialises writers within this
// process; other processes sharing the file get last write wins.
type Store struct {
	path string
	mu   sync.Mutex
}

func New(path string) *Store {
	return &Store{path: path}
}

func (self *Store) Path() string {
	return self.path
}

// Load returns all codes. A missing file is created with DefaultCodes, an
// unreadable or corrupt one counts as empty.
func (self *Store) Load() map[string]string {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.load()
}

func (self *Store) load() map[string]string {
	data, err := os.ReadFile(self.path)
	if os.IsNotExist(err) {
		codes := map[string]string{}
		for k, v := range DefaultCodes {
			codes[k] = v
		}
		if err := self.write(codes); err != nil {
			log.Println("Error creating code file:", err)
		}
		return codes
	}
	if err != nil {
		log.Println("Error reading code file:", err)
		return map[string]string{}
	}
	var codes map[string]string
	if err := json.Unmarshal(data, &codes); err != nil || codes == nil {
		log.Println("Code file corrupt, treating as empty:", self.path)
		return map[string]string{}
	}
	return codes
}

// write replaces the file via a rename, so a reader never sees a partial
// mapping.
func (self *Store) write(codes map[string]string) error {
	data, err := json.Marshal(codes)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(self.path), 0755); err != nil {
		return errors.Wrap(err, "creating code directory")
	}
	tmp, err := os.CreateTemp(filepath.Dir(self.path), ".codes-*")
	if err != nil {
		return errors.Wrap(err, "writing codes")
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrap(err, "writing codes")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, "writing codes")
	}
	if err := os.Chmod(tmp.Name(), 0600); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, "writing codes")
	}
	return errors.Wrap(os.Rename(tmp.Name(), self.path), "writing codes")
}

// Save adds or replaces the owner of code.
func (self *Store) Save(code, name string) error {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if !Valid(code) {
		return ErrInvalidCode
	}
	if name == "" {
		return ErrInvalidName
	}
	self.mu.Lock()
	defer self.mu.Unlock()
	codes := self.load()
	codes[code] = name
	return self.write(codes)
}

// Delete removes code. Deleting a code that does not exist does nothing.
func (self *Store) Delete(code string) error {
	self.mu.Lock()
	defer self.mu.Unlock()
	codes := self.load()
	if _, ok := codes[code]; !ok {
		return nil
	}
	delete(codes, code)
	return self.write(codes)
}

// Lookup returns the owner of code.
func (self *Store) Lookup(code string) (string, bool) {
	if code == "" {
		return "", false
	}
	name, ok := self.Load()[code]
	return name, ok
}

type Entry struct {
	Code string
	Name string
}

// List returns codes sorted by owner name, then code.
func (self *Store) List() []Entry {
	var entries []Entry
	for code, name := range self.Load() {
		entries = append(entries, Entry{code, name})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].Code < entries[j].Code
	})
	return entries
}
