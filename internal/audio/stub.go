//go:build headless

package audio

import "time"

// OtoDevice is unavailable in headless builds.
type OtoDevice struct{ Offline }

// NewOtoDevice always fails so headless binaries take the offline path.
func NewOtoDevice(sampleRate int, buffer time.Duration) (*OtoDevice, error) {
	return nil, ErrNoDevice
}
