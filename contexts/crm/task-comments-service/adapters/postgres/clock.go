package postgresadapter

import "time"

// SystemClock is the runtime clock; timestamps are always stored in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
