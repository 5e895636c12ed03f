package timeutil

import (
	"time"
)

// ICT is the Indochina Time location (UTC+7), the depot's local zone
var ICT *time.Location

func init() {
	var err error
	ICT, err = time.LoadLocation("Asia/Ho_Chi_Minh")
	if err != nil {
		// Fallback: create fixed zone if Asia/Ho_Chi_Minh not available
		ICT = time.FixedZone("ICT", 7*60*60) // UTC+7
	}
}

// Now returns the current time in ICT
func Now() time.Time {
	return time.Now().In(ICT)
}

// Location returns the depot's local time zone
func Location() *time.Location {
	return ICT
}

// ToICT converts any time to ICT
func ToICT(t time.Time) time.Time {
	return t.In(ICT)
}

// ParseInICT parses a time string and returns it in ICT
func ParseInICT(layout, value string) (time.Time, error) {
	t, err := time.ParseInLocation(layout, value, ICT)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// FormatICT formats a time in ICT using the given layout
func FormatICT(t time.Time, layout string) string {
	return t.In(ICT).Format(layout)
}

// StartOfDay returns the start of day (00:00:00) in ICT for the given time
func StartOfDay(t time.Time) time.Time {
	ict := t.In(ICT)
	return time.Date(ict.Year(), ict.Month(), ict.Day(), 0, 0, 0, 0, ICT)
}

// EndOfDay returns the end of day (23:59:59) in ICT for the given time
func EndOfDay(t time.Time) time.Time {
	ict := t.In(ICT)
	return time.Date(ict.Year(), ict.Month(), ict.Day(), 23, 59, 59, 999999999, ICT)
}

// Common layouts for ICT formatting
const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04:05"
	DateTimeLayout = "2006-01-02 15:04:05"
	DisplayLayout  = "02 Jan 2006, 03:04 PM"
)
