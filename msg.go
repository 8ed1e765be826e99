package baklog

import "time"

// Severity classifies a log record.
type Severity uint8

// Record severities, in increasing order of alarm.
const (
	Normal Severity = iota
	Info
	Warning
	Critical
)

// Code returns the single-letter marker written at the start of a log line.
func (s Severity) Code() byte {
	switch s {
	case Info:
		return 'I'
	case Warning:
		return 'W'
	case Critical:
		return 'C'
	default:
		return 'N'
	}
}

// Msg is one log record as delivered by a Source.
type Msg struct {
	Level Severity
	Stamp int64 // seconds since the Unix epoch.
	Text  string
}

// timeLayout is ISO-8601 without a zone designator, in local time.
const timeLayout = "2006-01-02T15:04:05"

// Line renders the record in the on-disk format:
// a parenthesized severity code, the timestamp, a dash, and the message.
func (m Msg) Line() string {
	return "(" + string(m.Level.Code()) + ") " +
		time.Unix(m.Stamp, 0).Format(timeLayout) + " - " + m.Text + "\n"
}
