package events

import (
	"encoding/json"
	"fmt"

	"ehsaudit/domain/events"
	"ehsaudit/logging"
)

// SSEBroadcaster defines the interface for pushing register updates to connected clients
type SSEBroadcaster interface {
	BroadcastFindingUpdate(sessionID, findingID string, data string)
	BroadcastRegisterUpdate(sessionID string)
	BroadcastToast(message, toastType string)
}

// NotificationEventHandlers converts register events into client notifications
type NotificationEventHandlers struct {
	sseBroadcaster SSEBroadcaster
	logger         *logging.Logger
}

// NewNotificationEventHandlers creates event handlers for notifications
func NewNotificationEventHandlers(sseBroadcaster SSEBroadcaster) *NotificationEventHandlers {
	return &NotificationEventHandlers{
		sseBroadcaster: sseBroadcaster,
		logger:         logging.Default().WithComponent("notification_events"),
	}
}

// RegisterHandlers registers all notification event handlers with the event bus
func (h *NotificationEventHandlers) RegisterHandlers(eventBus *RegisterEventBus) {
	eventBus.OnRegisterSeeded(h.handleRegisterSeeded)
	eventBus.OnFindingUpdated(h.handleFindingUpdated)
	eventBus.OnStatusChanged(h.handleStatusChanged)
	eventBus.OnTransitionRejected(h.handleTransitionRejected)
}

func (h *NotificationEventHandlers) handleRegisterSeeded(event events.RegisterSeededEvent) {
	h.logger.Info("Handling register seeded event", "session_id", event.SessionID, "findings", event.Count)

	h.sseBroadcaster.BroadcastRegisterUpdate(event.SessionID)
}

func (h *NotificationEventHandlers) handleFindingUpdated(event events.FindingUpdatedEvent) {
	h.logger.Debug("Handling finding updated event", "session_id", event.SessionID, "finding_id", event.Finding.ID)

	payload, err := json.Marshal(event.Finding)
	if err != nil {
		h.logger.Error("Failed to encode finding update", "finding_id", event.Finding.ID, "error", err)
		return
	}
	h.sseBroadcaster.BroadcastFindingUpdate(event.SessionID, event.Finding.ID, string(payload))
}

func (h *NotificationEventHandlers) handleStatusChanged(event events.StatusChangedEvent) {
	h.logger.Info("Handling status changed event",
		"session_id", event.SessionID,
		"finding_id", event.Finding.ID,
		"from", event.From,
		"to", event.Finding.Status)

	payload, err := json.Marshal(event.Finding)
	if err != nil {
		h.logger.Error("Failed to encode finding update", "finding_id", event.Finding.ID, "error", err)
		return
	}
	h.sseBroadcaster.BroadcastFindingUpdate(event.SessionID, event.Finding.ID, string(payload))

	// Status drives ranking badges and summary counts
	h.sseBroadcaster.BroadcastRegisterUpdate(event.SessionID)
	h.sseBroadcaster.BroadcastToast(
		fmt.Sprintf("%s moved from %s to %s", event.Finding.ID, event.From, event.Finding.Status),
		"success")
}

func (h *NotificationEventHandlers) handleTransitionRejected(event events.TransitionRejectedEvent) {
	h.logger.Info("Handling transition rejected event",
		"session_id", event.SessionID,
		"finding_id", event.FindingID,
		"rule", event.Result.Rule)

	h.sseBroadcaster.BroadcastToast(event.Result.Message, "warning")
}
