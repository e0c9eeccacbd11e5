package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/goleak"

	"ehsaudit/domain/events"
	"ehsaudit/domain/findings"
)

// Integration test for the complete event flow: EventBus -> EventHandlers -> SSE
func TestEventSystem_EndToEndFlow_EventBusToSSENotification(t *testing.T) {
	defer goleak.VerifyNone(t)

	// Arrange - Set up the complete event system
	mockSSE := &MockSSEBroadcaster{}
	eventBus := NewRegisterEventBus()
	NewNotificationEventHandlers(mockSSE).RegisterHandlers(eventBus)

	toastSent := make(chan string, 2)
	mockSSE.On("BroadcastRegisterUpdate", "session-1").Return()
	mockSSE.On("BroadcastFindingUpdate", "session-1", "F-1", mock.AnythingOfType("string")).Return()
	mockSSE.On("BroadcastToast", mock.AnythingOfType("string"), mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { toastSent <- args.String(1) }).
		Return()

	// Act - a rejected start followed by an accepted one
	eventBus.PublishTransitionRejected(events.TransitionRejectedEvent{
		SessionID: "session-1",
		FindingID: "F-1",
		From:      findings.StatusOpen,
		To:        findings.StatusInProgress,
		Result: findings.TransitionResult{
			Rule:    findings.RuleOwnerEvidenceOrReason,
			Message: findings.MsgStartRequiresAccountability,
		},
		Timestamp: time.Now(),
	})
	eventBus.PublishStatusChanged(events.StatusChangedEvent{
		SessionID: "session-1",
		From:      findings.StatusOpen,
		Finding:   createTestFinding("F-1", findings.StatusInProgress),
		Timestamp: time.Now(),
	})

	// Assert - toasts arrive in publish order
	received := []string{waitFor(t, toastSent), waitFor(t, toastSent)}
	assert.Equal(t, []string{"warning", "success"}, received)
	mockSSE.AssertExpectations(t)
}
