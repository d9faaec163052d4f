// Package timeutil provides the wall-clock timestamp format used by the
// accounting wire protocol.
package timeutil

import "time"

// Now returns the current UTC time in RFC 3339 format with sub-second
// precision, as expected by the usage endpoint.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
