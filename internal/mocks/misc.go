package mocks

import (
	"github.com/tobenna/vendora/internal/models"
	"github.com/tobenna/vendora/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetOne(id string) (*models.User, bool, error) {
	args := m.Called(id)

	user, _ := args.Get(0).(*models.User)
	return user, args.Bool(1), args.Error(2)
}

type MockActivityRepo struct {
	mock.Mock
}

func (m *MockActivityRepo) Insert(log *repository.ActivityLog) (*repository.ActivityLog, error) {
	args := m.Called(log)
	return args.Get(0).(*repository.ActivityLog), args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(recipient string, data any, patterns ...string) error {
	args := m.Called(recipient, data, patterns)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) ProduceMessage(topic, message string) error {
	args := m.Called(topic, message)
	return args.Error(0)
}
