package eventlog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartklingel/klingel/notify"
)

func fixedClock(l *Log) {
	t := time.Date(2024, 3, 1, 9, 30, 0, 0, time.Local)
	l.now = func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func ExampleFormat() {
	t := time.Date(2024, 3, 1, 9, 30, 5, 0, time.UTC)
	fmt.Println(Format(t, "Door opened by: Anna"))
	// Output: [2024-03-01 09:30:05] Door opened by: Anna
}

func TestRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "klingel_log.txt")
	mock := &notify.Mock{}
	l := New(path, "Front door", mock)
	fixedClock(l)

	require.NoError(t, l.Record("Visit"))
	require.NoError(t, l.Record("Door opened by: Anna"))
	l.Wait()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[2024-03-01 09:30:01] Visit\n[2024-03-01 09:30:02] Door opened by: Anna\n", string(data))
	assert.ElementsMatch(t, []string{"Visit", "Door opened by: Anna"}, mock.Messages())
	assert.Equal(t, path, l.Path())
}

func TestRecordNotifyFailureIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	l := New(path, "Front door", &notify.Mock{Err: errors.New("offline")})
	assert.NoError(t, l.Record("Visit"))
	l.Wait()
	assert.Len(t, l.Tail(10), 1)
}

func TestRecordWriteFailureStillNotifies(t *testing.T) {
	dir := t.TempDir()
	// a directory where the file should be
	path := filepath.Join(dir, "log.txt")
	require.NoError(t, os.Mkdir(path, 0755))
	mock := &notify.Mock{}
	l := New(path, "Front door", mock)
	assert.Error(t, l.Record("Visit"))
	l.Wait()
	assert.Equal(t, []string{"Visit"}, mock.Messages())
}

func TestTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	l := New(path, "", nil)
	fixedClock(l)
	for i := 1; i <= 20; i++ {
		l.Record(fmt.Sprintf("entry %d", i))
	}
	lines := l.Tail(3)
	assert.Equal(t, []string{
		"[2024-03-01 09:30:20] entry 20",
		"[2024-03-01 09:30:19] entry 19",
		"[2024-03-01 09:30:18] entry 18",
	}, lines)
	assert.Len(t, l.Tail(100), 20)
	assert.Empty(t, l.Tail(0))
}

func TestTailLongLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	l := New(path, "", nil)
	fixedClock(l)
	require.NoError(t, l.Record("Added code for "+strings.Repeat("x", 100*1024)))
	require.NoError(t, l.Record("Visit"))

	lines := l.Tail(2)
	require.Len(t, lines, 2)
	assert.Equal(t, "[2024-03-01 09:30:02] Visit", lines[0])
	assert.Len(t, lines[1], len("[2024-03-01 09:30:01] Added code for ")+100*1024)
}

func TestRecordCutsHugeLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	l := New(path, "", nil)
	require.NoError(t, l.Record(strings.Repeat("x", 2*MaxLine)))
	require.NoError(t, l.Record("Visit"))

	lines := l.Tail(2)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Visit")
	assert.Len(t, lines[1], MaxLine-1)
}

func TestTailMissing(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "none.txt"), "", nil)
	lines := l.Tail(15)
	assert.NotNil(t, lines)
	assert.Empty(t, lines)
}
