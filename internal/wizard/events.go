package wizard

import "time"

// Event types published to session subscribers
const (
	EventFieldAdded        = "field.added"
	EventFieldRemoved      = "field.removed"
	EventFieldMoved        = "field.moved"
	EventFieldUpdated      = "field.updated"
	EventModeChanged       = "field.mode_changed"
	EventDependencyApplied = "field.dependency_applied"
	EventOptionsUpdated    = "options.updated"
	EventSheetsUpdated     = "sheets.updated"
	EventProfileSaved      = "profile.saved"
	EventProfileSaveFailed = "profile.save_failed"
	EventExportCompleted   = "export.completed"
	EventExportFailed      = "export.failed"
	EventSessionClosed     = "session.closed"
)

// Event is a notification about a session change
type Event struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId"`
	FieldID   string      `json:"fieldId,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
	At        time.Time   `json:"at"`
}
