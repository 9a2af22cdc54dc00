package security

// Severity represents the severity level of a security event.
// It is derived from EventType, never from caller input.
type Severity string

const (
	SeverityINFO   Severity = "INFO"
	SeverityMEDIUM Severity = "MEDIUM"
	SeverityWARN   Severity = "WARN"
	SeverityHIGH   Severity = "HIGH"
)

// EventSeverityMap defines the hard-coded severity for each event type
var EventSeverityMap = map[EventType]Severity{
	EventContactReceived:    SeverityINFO,
	EventValidationFailed:   SeverityMEDIUM,
	EventRateLimitTriggered: SeverityWARN,
	EventMailDispatchFailed: SeverityHIGH,
}

// GetSeverity returns the severity for an event type, MEDIUM when unknown
func GetSeverity(eventType EventType) Severity {
	if s, ok := EventSeverityMap[eventType]; ok {
		return s
	}
	return SeverityMEDIUM
}
