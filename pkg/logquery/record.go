package logquery

import (
	"regexp"
	"strings"
	"time"
)

// Log levels recognized by the query engine. LevelUnknown is assigned to
// lines that do not match the expected layout; such lines are kept, not
// dropped, so they stay searchable.
const (
	LevelDebug   = "DEBUG"
	LevelInfo    = "INFO"
	LevelWarning = "WARNING"
	LevelError   = "ERROR"
	LevelUnknown = "UNKNOWN"
)

// timeLayout matches the timestamp prefix the logging package writes.
const timeLayout = "2006-01-02 15:04:05"

// linePattern matches "2006-01-02 15:04:05 LEVEL message".
var linePattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}) (DEBUG|INFO|WARNING|ERROR) (.*)$`)

// Record is one parsed log line. It is constructed transiently per
// query; the log file itself is the durable store.
type Record struct {
	// Timestamp is zero when the line did not carry a parsable one
	Timestamp time.Time `json:"timestamp,omitzero"`

	// Level is one of the Level* constants
	Level string `json:"level"`

	// Message is the text after timestamp and level, or the whole line
	// for unparsable input
	Message string `json:"message"`

	// Raw is the original line, preserved for display and search
	Raw string `json:"-"`
}

// parseLine converts one physical log line into a Record. Lines that do
// not match the expected layout degrade to LevelUnknown with the full
// line preserved as both message and raw text.
func parseLine(line string) Record {
	m := linePattern.FindStringSubmatch(line)
	if m == nil {
		return Record{
			Level:   LevelUnknown,
			Message: line,
			Raw:     line,
		}
	}

	ts, err := time.Parse(timeLayout, m[1])
	if err != nil {
		// Pattern guarantees the shape but not calendar validity
		// (e.g. month 13)
		return Record{
			Level:   LevelUnknown,
			Message: line,
			Raw:     line,
		}
	}

	return Record{
		Timestamp: ts,
		Level:     m[2],
		Message:   m[3],
		Raw:       line,
	}
}

// CanonicalLevel maps a case-insensitive level filter value to its
// canonical token, or "" if the value is not a valid filter.
func CanonicalLevel(s string) string {
	switch strings.ToUpper(s) {
	case LevelDebug, LevelInfo, LevelWarning, LevelError:
		return strings.ToUpper(s)
	default:
		return ""
	}
}
