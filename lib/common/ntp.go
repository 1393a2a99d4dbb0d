package common

import (
	"sync"
	"time"

	"github.com/beevik/ntp"
)

// The voting window is checked against `Now()`, so the node clock matters.
// When an NTP server is configured the measured offset is applied to every
// `Now()` call instead of stepping the system clock.

var clockOffset struct {
	sync.RWMutex
	d time.Duration
}

func Now() time.Time {
	clockOffset.RLock()
	defer clockOffset.RUnlock()

	return time.Now().Add(clockOffset.d)
}

func ClockOffset() time.Duration {
	clockOffset.RLock()
	defer clockOffset.RUnlock()

	return clockOffset.d
}

func SetClockOffset(d time.Duration) {
	clockOffset.Lock()
	defer clockOffset.Unlock()

	clockOffset.d = d
}

func SyncClockOffset(server string) error {
	response, err := ntp.Query(server)
	if err != nil {
		return err
	}

	SetClockOffset(response.ClockOffset)
	log.Debug("clock offset synced", "server", server, "offset", response.ClockOffset)

	return nil
}
