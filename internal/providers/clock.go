package providers

import (
	"log"
	"time"
)

type Clock struct {
	Timezone    string `json:"timezone"`
	Location    string `json:"location"`
	CurrentTime string `json:"current_time"`
	Time12h     string `json:"time_12h"`
	Date        string `json:"date"`
	UTCOffset   string `json:"utc_offset"`
	Timestamp   string `json:"timestamp"`
	Mock        bool   `json:"mock"`
}

// Layouts of the formatted Clock fields.
const (
	ClockTimeLayout   = "2006-01-02 15:04:05"
	Clock12hLayout    = "03:04:05 PM"
	ClockDateLayout   = "Monday, January 02, 2006"
	ClockOffsetLayout = "-0700"
)

// ClockSource converts the server time into IANA time zones.
type ClockSource struct {
	Now func() time.Time
}

func NewClockSource() *ClockSource {
	return &ClockSource{Now: time.Now}
}

// Time returns the current time in tz. An unknown zone yields UTC values
// marked as mock, labelled with the requested zone.
func (c *ClockSource) Time(tz, location string) *Clock {
	if tz == "" {
		tz = "UTC"
	}
	if location == "" {
		location = tz
	}
	now := time.Now
	if c != nil && c.Now != nil {
		now = c.Now
	}
	loc, err := time.LoadLocation(tz)
	mock := false
	if err != nil {
		log.Printf("[ClockSource.Time] unknown timezone %q: %v", tz, err)
		loc = time.UTC
		mock = true
	}
	t := now().In(loc)
	return &Clock{
		Timezone:    tz,
		Location:    location,
		CurrentTime: t.Format(ClockTimeLayout),
		Time12h:     t.Format(Clock12hLayout),
		Date:        t.Format(ClockDateLayout),
		UTCOffset:   t.Format(ClockOffsetLayout),
		Timestamp:   t.Format(time.RFC3339),
		Mock:        mock,
	}
}
