package util

import (
	"os"
	"testing"
)

func TestExpandUser(t *testing.T) {
	path := ExpandUser("~/abc")
	expected := os.ExpandEnv("$HOME/abc")
	if path != expected {
		t.Error("Expected ", expected, ", got ", path)
	}
}

func TestExpandUserAbsolute(t *testing.T) {
	if ExpandUser("/var/log/klingel.txt") != "/var/log/klingel.txt" {
		t.Error("Expected absolute path unchanged")
	}
}

func TestSdNotifyWithoutSystemd(t *testing.T) {
	os.Unsetenv("NOTIFY_SOCKET")
	sent, err := SdNotify(false, SdNotifyReady)
	if sent || err != nil {
		t.Error("Expected no notification outside systemd, got", sent, err)
	}
}
