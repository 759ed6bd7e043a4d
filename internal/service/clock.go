package service

import "time"

// Clock is the single server-side time source for occurred_at and extracted_at.
type Clock func() time.Time

func UTCClock() time.Time {
	return time.Now().UTC()
}
