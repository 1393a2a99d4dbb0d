package common

import "time"

// Nanosecond precision ISO8601; every stored timestamp uses this form.
const TimeFormatISO8601 string = "2006-01-02T15:04:05.000000000Z07:00"

func FormatISO8601(t time.Time) string {
	return t.Format(TimeFormatISO8601)
}

// NowISO8601 formats Now(), which includes the ntp clock offset.
func NowISO8601() string {
	return FormatISO8601(Now())
}

func ParseISO8601(s string) (time.Time, error) {
	return time.Parse(TimeFormatISO8601, s)
}
