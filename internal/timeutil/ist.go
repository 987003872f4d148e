package timeutil

import (
	"time"
)

// IST is the Indian Standard Time location (UTC+5:30). Ledger days and invoice dates use it.
var IST *time.Location

func init() {
	var err error
	IST, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		// Fallback when tzdata is not installed
		IST = time.FixedZone("IST", 5*60*60+30*60)
	}
}

// Now returns the current time in IST
func Now() time.Time {
	return time.Now().In(IST)
}

// StartOfDay returns 00:00 IST of the day containing t
func StartOfDay(t time.Time) time.Time {
	ist := t.In(IST)
	return time.Date(ist.Year(), ist.Month(), ist.Day(), 0, 0, 0, 0, IST)
}

// DayRange parses a YYYY-MM-DD date and returns [start, start of next day) in IST
func DayRange(value string) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, value, IST)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := StartOfDay(day)
	return start, start.AddDate(0, 0, 1), nil
}

// BillDate formats t the way bills are dated and named (DD-MM-YYYY)
func BillDate(t time.Time) string {
	return t.In(IST).Format(BillDateLayout)
}

const (
	DateLayout     = "2006-01-02"
	BillDateLayout = "02-01-2006"
)
