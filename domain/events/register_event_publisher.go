package events

// RegisterEventPublisher defines the interface for publishing register events.
type RegisterEventPublisher interface {
	PublishRegisterSeeded(event RegisterSeededEvent)
	PublishFindingUpdated(event FindingUpdatedEvent)
	PublishStatusChanged(event StatusChangedEvent)
	PublishTransitionRejected(event TransitionRejectedEvent)
}
