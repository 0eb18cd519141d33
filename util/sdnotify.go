package util

import (
	"net"
	"os"
)

const (
	SdNotifyReady    = "READY=1"
	SdNotifyStopping = "STOPPING=1"
	SdNotifyWatchdog = "WATCHDOG=1"
)

// SdNotify sends state to systemd over $NOTIFY_SOCKET. It returns false with
// no error when not running under systemd.
func SdNotify(unsetEnvironment bool, state string) (bool, error) {
	socketAddr := &net.UnixAddr{
		Name: os.Getenv("NOTIFY_SOCKET"),
		Net:  "unixgram",
	}
	if unsetEnvironment {
		defer os.Unsetenv("NOTIFY_SOCKET")
	}
	if socketAddr.Name == "" {
		return false, nil
	}

	conn, err := net.DialUnix(socketAddr.Net, nil, socketAddr)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	if _, err = conn.Write([]byte(state)); err != nil {
		return false, err
	}
	return true, nil
}
