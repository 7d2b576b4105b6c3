package events

import "time"

// Event defines the contract for all workspace events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "CACHE_CLEARED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

const (
	TypeSessionInitialized = "SESSION_INITIALIZED"
	TypeCacheCleared       = "CACHE_CLEARED"
	TypeDeletionScheduled  = "DELETION_SCHEDULED"
	TypeDeletionFired      = "DELETION_FIRED"
	TypeDeletionCanceled   = "DELETION_CANCELED"
	TypeOutputSaved        = "OUTPUT_SAVED"
	TypeEdgarDetailsSaved  = "EDGAR_DETAILS_SAVED"
)

// BaseEvent carries the common fields. The typed constructors below are the
// only place payload keys are spelled out; consumers rely on those keys.
type BaseEvent struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

func newEvent(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
}

func SessionInitialized(sessionID, cacheDir string, prodMode bool) BaseEvent {
	return newEvent(TypeSessionInitialized, map[string]interface{}{
		"session_id": sessionID,
		"cache_dir":  cacheDir,
		"prod_mode":  prodMode,
	})
}

func CacheCleared(sessionID, cacheDir string, deleteRoot bool) BaseEvent {
	return newEvent(TypeCacheCleared, map[string]interface{}{
		"session_id":  sessionID,
		"cache_dir":   cacheDir,
		"delete_root": deleteRoot,
	})
}

func DeletionScheduled(sessionID, path string, fireAt time.Time) BaseEvent {
	return newEvent(TypeDeletionScheduled, map[string]interface{}{
		"session_id": sessionID,
		"path":       path,
		"fire_at":    fireAt.Format(time.RFC3339),
	})
}

func DeletionFired(path string) BaseEvent {
	return newEvent(TypeDeletionFired, map[string]interface{}{
		"path": path,
	})
}

func DeletionCanceled(sessionID, path string) BaseEvent {
	return newEvent(TypeDeletionCanceled, map[string]interface{}{
		"session_id": sessionID,
		"path":       path,
	})
}

func OutputSaved(sessionID, target, path string) BaseEvent {
	return newEvent(TypeOutputSaved, map[string]interface{}{
		"session_id": sessionID,
		"target":     target,
		"path":       path,
	})
}

func EdgarDetailsSaved(sessionID, organization string) BaseEvent {
	return newEvent(TypeEdgarDetailsSaved, map[string]interface{}{
		"session_id":   sessionID,
		"organization": organization,
	})
}
