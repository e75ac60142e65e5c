package reminders

import "time"

// SystemClock reads wall-clock time in a fixed location so that "HH:MM" and
// the calendar date follow the user's zone rather than the host's.
type SystemClock struct {
	loc *time.Location
}

func NewSystemClock(loc *time.Location) SystemClock {
	if loc == nil {
		loc = time.Local
	}
	return SystemClock{loc: loc}
}

func (c SystemClock) Now() time.Time {
	return time.Now().In(c.loc)
}
