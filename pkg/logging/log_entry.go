package logging

// LogEntry represents a structured log record with fields relevant to
// solver tuning runs.
type LogEntry struct {
	// Standard fields
	Time     int64
	Severity Severity
	Message  string
	File     string
	Line     int
	Function string

	// Tuning-specific fields
	StudyID string  // The tuning study this record belongs to
	Trial   int     // Trial number within the study, -1 if unset
	Score   float64 // Scalar score attached to the record, if any

	// General structured data
	Fields map[string]interface{}
}
