package models

import "time"

// DateLayout mirrors a locale-style "M/D/YYYY, h:mm:ss AM" timestamp.
const DateLayout = "1/2/2006, 3:04:05 PM"

// RowColumns is the column order a submission is written in.
var RowColumns = []string{"fullName", "email", "phone", "subject", "message", "preferredContact", "date"}

// Field is a single column name/value pair of a sheet row.
type Field struct {
	Key   string
	Value string
}

// Row is an ordered field mapping. Order matters because the header of the
// sheet follows the order in which keys first appear.
type Row []Field

// Get returns the value stored under key.
func (r Row) Get(key string) (string, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Map flattens the row, mostly for printing and assertions.
func (r Row) Map() map[string]string {
	m := make(map[string]string, len(r))
	for _, f := range r {
		m[f.Key] = f.Value
	}
	return m
}

// FormatDate renders t the way the log's date column expects.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ToRow converts the submission into a sheet row. No validation happens here;
// missing values simply become blank cells.
func (c *ContactSubmission) ToRow(date string) Row {
	return Row{
		{Key: "fullName", Value: c.FullName},
		{Key: "email", Value: c.Email},
		{Key: "phone", Value: c.Phone},
		{Key: "subject", Value: c.Subject},
		{Key: "message", Value: c.Message},
		{Key: "preferredContact", Value: string(c.PreferredContact)},
		{Key: "date", Value: date},
	}
}
