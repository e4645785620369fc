package widgets

import (
	"errors"
	"fmt"
	"time"

	"widgetchat/internal/providers"
)

type ClockWidget struct{}

type clockData struct {
	Error     string    `json:"error,omitempty"`
	Timezone  string    `json:"timezone"`
	Location  string    `json:"location"`
	Time      clockTime `json:"time"`
	Date      clockDate `json:"date"`
	UTCOffset string    `json:"utc_offset"`
	Timestamp string    `json:"timestamp"`
	Mock      bool      `json:"mock"`
}

type clockTime struct {
	Current      string `json:"current"`
	Formatted12h string `json:"formatted_12h"`
	Formatted24h string `json:"formatted_24h"`
	Hour         int    `json:"hour"`
	Hour12       int    `json:"hour_12"`
	Minute       int    `json:"minute"`
	Second       int    `json:"second"`
	AmPm         string `json:"am_pm"`
}

type clockDate struct {
	Full      string `json:"full"`
	DayOfWeek string `json:"day_of_week"`
	Month     string `json:"month"`
	Day       string `json:"day"`
	Year      string `json:"year"`
}

func (ClockWidget) Type() string { return "clock" }

func (ClockWidget) DefaultConfig() map[string]any {
	return map[string]any{
		"size":            "small",
		"theme":           "auto",
		"refreshInterval": 30,
		"showDate":        true,
		"showSeconds":     true,
		"format24Hour":    false,
		"showTimezone":    true,
		"showDayOfWeek":   true,
	}
}

func (ClockWidget) Validate(cfg map[string]any) bool {
	return validateBase(cfg) && intInRange(cfg, "refreshInterval", 1, 3600, false)
}

func (ClockWidget) Actions() []Action {
	return []Action{
		refreshAction,
		configureAction,
		{Type: "timezone", Label: "Change Timezone", Icon: "schedule", Description: "Change the timezone"},
		{Type: "world_clock", Label: "World Clock", Icon: "public", Description: "View multiple timezones"},
	}
}

// parseClockTime reads "2006-01-02 15:04:05" or a bare "15:04:05".
func parseClockTime(s string) (time.Time, error) {
	if t, err := time.Parse(providers.ClockTimeLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid current time %q", s)
	}
	return t, nil
}

func (w ClockWidget) Build(timezone, location string, raw *providers.Clock) *Widget {
	return build(w, func() (*Widget, error) {
		if raw == nil {
			return nil, errors.New("no time data")
		}
		t, err := parseClockTime(raw.CurrentTime)
		if err != nil {
			return nil, err
		}
		hour := t.Hour()
		amPm := "AM"
		if hour >= 12 {
			amPm = "PM"
		}
		hour12 := hour
		if hour12 > 12 {
			hour12 -= 12
		}
		if hour12 == 0 {
			hour12 = 12
		}
		tz := raw.Timezone
		if tz == "" {
			tz = "UTC"
		}
		loc := raw.Location
		if loc == "" {
			loc = "Unknown"
		}
		offset := raw.UTCOffset
		if offset == "" {
			offset = "+0000"
		}
		ts := raw.Timestamp
		if ts == "" {
			ts = timestamp()
		}
		titleLoc := location
		if titleLoc == "" {
			titleLoc = timezone
		}
		return &Widget{
			ID:    widgetID("clock", slug(timezone)),
			Type:  w.Type(),
			Title: "Clock - " + titleLoc,
			Data: clockData{
				Timezone: tz,
				Location: loc,
				Time: clockTime{
					Current:      raw.CurrentTime,
					Formatted12h: raw.Time12h,
					Formatted24h: raw.CurrentTime,
					Hour:         hour,
					Hour12:       hour12,
					Minute:       t.Minute(),
					Second:       t.Second(),
					AmPm:         amPm,
				},
				Date: clockDate{
					Full:      raw.Date,
					DayOfWeek: findName(raw.Date, dayNames),
					Month:     findName(raw.Date, monthNames),
					Day:       findMatch(dayRe, raw.Date),
					Year:      findMatch(yearRe, raw.Date),
				},
				UTCOffset: offset,
				Timestamp: ts,
				Mock:      raw.Mock,
			},
			Config:   w.DefaultConfig(),
			Actions:  w.Actions(),
			Metadata: newMetadata(sourceOf(raw.Mock, SourceSystem)),
		}, nil
	})
}

func (w ClockWidget) ErrorWidget(message string) *Widget {
	return errorEnvelope(w, "clock", "Clock Widget Error", clockData{
		Error:    message,
		Timezone: "UTC",
		Location: "Unknown",
		Time: clockTime{
			Current:      "00:00:00",
			Formatted12h: "12:00:00 AM",
			Formatted24h: "00:00:00",
			Hour12:       12,
			AmPm:         "AM",
		},
		Date: clockDate{
			Full:      "Unknown Date",
			DayOfWeek: "Unknown",
			Month:     "Unknown",
			Day:       "Unknown",
			Year:      "Unknown",
		},
		UTCOffset: "+0000",
		Timestamp: timestamp(),
	}, []Action{refreshAction})
}
