package models

import "time"

// TimestampLayout is the format of every data_inclusao column.
const TimestampLayout = "2006-01-02 15:04:05"

// Timestamp renders t in local time using TimestampLayout.
func Timestamp(t time.Time) string {
	return t.Local().Format(TimestampLayout)
}
