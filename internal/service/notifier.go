package service

// Notifier interface for editor event delivery (avoids import cycle with the
// WebSocket transport)
type Notifier interface {
	NotifySession(sessionID string, msgType string, payload interface{})
}

// NopNotifier discards events. Used when no WebSocket hub is wired.
type NopNotifier struct{}

func (NopNotifier) NotifySession(string, string, interface{}) {}
