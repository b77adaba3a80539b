package model

// LeadEventAction marks a POST body as a lead notification rather than a document save.
const LeadEventAction = "lead_event"

// LeadEvent is a fire-and-forget marketing-conversion ping.
type LeadEvent struct {
	ActionType string `json:"action_type"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	EventTime  int64  `json:"event_time,omitempty"`
}

// IsLeadEvent reports whether a decoded POST body carries the lead-event marker.
func IsLeadEvent(body map[string]any) bool {
	v, ok := body["action_type"].(string)
	return ok && v == LeadEventAction
}
