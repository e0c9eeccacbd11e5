package events

import (
	"sync"

	"ehsaudit/domain/events"
	"ehsaudit/logging"
)

// RegisterEventBus provides type-safe publishing and subscription for finding register events.
// Handlers run synchronously on the publishing goroutine, in subscription order,
// so subscribers observe events in the order they were published.
type RegisterEventBus struct {
	mu     sync.RWMutex
	logger *logging.Logger

	// Event handler slices for each event type
	registerSeededHandlers     []func(events.RegisterSeededEvent)
	findingUpdatedHandlers     []func(events.FindingUpdatedEvent)
	statusChangedHandlers      []func(events.StatusChangedEvent)
	transitionRejectedHandlers []func(events.TransitionRejectedEvent)
}

// NewRegisterEventBus creates a new typed register event bus
func NewRegisterEventBus() *RegisterEventBus {
	return &RegisterEventBus{
		logger: logging.Default().WithComponent("register_event_bus"),
	}
}

// Subscribe methods for each event type

func (bus *RegisterEventBus) OnRegisterSeeded(handler func(events.RegisterSeededEvent)) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.registerSeededHandlers = append(bus.registerSeededHandlers, handler)
}

func (bus *RegisterEventBus) OnFindingUpdated(handler func(events.FindingUpdatedEvent)) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.findingUpdatedHandlers = append(bus.findingUpdatedHandlers, handler)
}

func (bus *RegisterEventBus) OnStatusChanged(handler func(events.StatusChangedEvent)) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.statusChangedHandlers = append(bus.statusChangedHandlers, handler)
}

func (bus *RegisterEventBus) OnTransitionRejected(handler func(events.TransitionRejectedEvent)) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.transitionRejectedHandlers = append(bus.transitionRejectedHandlers, handler)
}

// Publish methods for each event type

func (bus *RegisterEventBus) PublishRegisterSeeded(event events.RegisterSeededEvent) {
	bus.mu.RLock()
	handlers := append([]func(events.RegisterSeededEvent){}, bus.registerSeededHandlers...)
	bus.mu.RUnlock()

	dispatch(bus.logger, "RegisterSeeded", handlers, event, "session_id", event.SessionID)
}

func (bus *RegisterEventBus) PublishFindingUpdated(event events.FindingUpdatedEvent) {
	bus.mu.RLock()
	handlers := append([]func(events.FindingUpdatedEvent){}, bus.findingUpdatedHandlers...)
	bus.mu.RUnlock()

	dispatch(bus.logger, "FindingUpdated", handlers, event,
		"session_id", event.SessionID,
		"finding_id", event.Finding.ID)
}

func (bus *RegisterEventBus) PublishStatusChanged(event events.StatusChangedEvent) {
	bus.mu.RLock()
	handlers := append([]func(events.StatusChangedEvent){}, bus.statusChangedHandlers...)
	bus.mu.RUnlock()

	dispatch(bus.logger, "StatusChanged", handlers, event,
		"session_id", event.SessionID,
		"finding_id", event.Finding.ID,
		"from", event.From,
		"to", event.Finding.Status)
}

func (bus *RegisterEventBus) PublishTransitionRejected(event events.TransitionRejectedEvent) {
	bus.mu.RLock()
	handlers := append([]func(events.TransitionRejectedEvent){}, bus.transitionRejectedHandlers...)
	bus.mu.RUnlock()

	dispatch(bus.logger, "TransitionRejected", handlers, event,
		"session_id", event.SessionID,
		"finding_id", event.FindingID,
		"rule", event.Result.Rule)
}

// dispatch runs every handler in turn. A panicking handler is logged with the
// given attributes and does not stop the rest.
func dispatch[E any](logger *logging.Logger, name string, handlers []func(E), event E, attrs ...any) {
	for _, handler := range handlers {
		invoke(logger, name, handler, event, attrs)
	}
}

func invoke[E any](logger *logging.Logger, name string, handler func(E), event E, attrs []any) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Event handler panicked in "+name, append(attrs[:len(attrs):len(attrs)], "panic", r)...)
		}
	}()
	handler(event)
}
