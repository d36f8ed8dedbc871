package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/schengen-planner/internal/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindStaysStartingTomorrow(ctx context.Context) ([]*models.StayReminderInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StayReminderInfo), args.Error(1)
}

type MockChannel struct {
	mock.Mock
}

func (m *MockChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(exchange, key, mandatory, immediate, msg)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestReminderService_runFindStaysDueTomorrow(t *testing.T) {
	stay := &models.StayReminderInfo{
		Email:       "test@example.com",
		Username:    "testuser",
		PlanTitle:   "Summer route",
		WindowLabel: "1 year",
		Entry:       time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Exit:        time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name       string
		setupMocks func(*MockRepository, *MockChannel)
	}{
		{
			name: "success - found upcoming stays",
			setupMocks: func(r *MockRepository, ch *MockChannel) {
				r.On("FindStaysStartingTomorrow", mock.Anything).Return([]*models.StayReminderInfo{stay}, nil).Once()
				ch.On("Publish", "reminders", "upcoming", false, false, mock.MatchedBy(func(msg amqp.Publishing) bool {
					var got models.StayReminderInfo
					if err := json.Unmarshal(msg.Body, &got); err != nil {
						return false
					}
					return msg.ContentType == "application/json" && got.Email == stay.Email && got.PlanTitle == stay.PlanTitle
				})).Return(nil).Once()
			},
		},
		{
			name: "success - no upcoming stays",
			setupMocks: func(r *MockRepository, _ *MockChannel) {
				r.On("FindStaysStartingTomorrow", mock.Anything).Return([]*models.StayReminderInfo{}, nil).Once()
			},
		},
		{
			name: "repository error",
			setupMocks: func(r *MockRepository, _ *MockChannel) {
				r.On("FindStaysStartingTomorrow", mock.Anything).Return(nil, errors.New("db error")).Once()
			},
		},
		{
			name: "publish error is logged and does not stop the loop",
			setupMocks: func(r *MockRepository, ch *MockChannel) {
				r.On("FindStaysStartingTomorrow", mock.Anything).Return([]*models.StayReminderInfo{stay, stay}, nil).Once()
				ch.On("Publish", "reminders", "upcoming", false, false, mock.Anything).Return(errors.New("publish error")).Twice()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			channel := new(MockChannel)
			service := NewReminderService(repo, newNoopLogger())

			tt.setupMocks(repo, channel)

			service.runFindStaysDueTomorrow(context.Background(), channel)

			repo.AssertExpectations(t)
			channel.AssertExpectations(t)
		})
	}
}

func TestReminderService_FindStaysDueTomorrow_StopsOnContextCancel(t *testing.T) {
	repo := new(MockRepository)
	channel := new(MockChannel)
	service := NewReminderService(repo, newNoopLogger())

	repo.On("FindStaysStartingTomorrow", mock.Anything).Return([]*models.StayReminderInfo{}, nil)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		service.FindStaysDueTomorrow(ctx, channel)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("FindStaysDueTomorrow did not stop after context cancellation")
	}

	repo.AssertExpectations(t)
}

func TestReminderService_NewReminderService(t *testing.T) {
	repo := new(MockRepository)
	logger := newNoopLogger()

	service := NewReminderService(repo, logger)

	assert.NotNil(t, service)
	assert.Equal(t, repo, service.repo)
	assert.Equal(t, logger, service.log)
}
