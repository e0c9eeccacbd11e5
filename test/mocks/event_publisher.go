package mocks

import (
	"github.com/stretchr/testify/mock"

	"ehsaudit/domain/events"
)

// MockRegisterEventPublisher is a mock implementation of RegisterEventPublisher for testing
type MockRegisterEventPublisher struct {
	mock.Mock
}

func (m *MockRegisterEventPublisher) PublishRegisterSeeded(event events.RegisterSeededEvent) {
	m.Called(event)
}

func (m *MockRegisterEventPublisher) PublishFindingUpdated(event events.FindingUpdatedEvent) {
	m.Called(event)
}

func (m *MockRegisterEventPublisher) PublishStatusChanged(event events.StatusChangedEvent) {
	m.Called(event)
}

func (m *MockRegisterEventPublisher) PublishTransitionRejected(event events.TransitionRejectedEvent) {
	m.Called(event)
}
