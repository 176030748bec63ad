package service

import "time"

// Clock supplies the current instant. Services take it as a dependency so
// year clamping, semester status and assignment stamps are deterministic
// under test; nil falls back to the system clock.
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC()
}
