package forecast

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-day format of observation and forecast dates.
const DateLayout = "2006-01-02"

// ParseError reports a date that does not match DateLayout.
type ParseError struct {
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid date %q: expected YYYY-MM-DD", e.Value)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NextDates returns the horizon calendar days following last.
func NextDates(last string, horizon int) ([]string, error) {
	day, err := time.Parse(DateLayout, last)
	if err != nil {
		return nil, &ParseError{Value: last, Err: err}
	}

	dates := make([]string, horizon)
	for i := range dates {
		dates[i] = day.AddDate(0, 0, i+1).Format(DateLayout)
	}

	return dates, nil
}
