// Package crypto provides the core OpenPGP functionality of pgpseal:
// staged key ring generation and the streaming sign-then-encrypt
// pipeline.
package crypto

import "time"

// Clock is a function that returns a timestamp.
type Clock func() time.Time

// NewConstantClock returns a Clock that always reports the given unix time.
func NewConstantClock(unixTime int64) Clock {
	return func() time.Time {
		return time.Unix(unixTime, 0)
	}
}
