package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/schengen-planner/internal/models"
)

// MockService реализует интерфейс read.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Read(ctx context.Context, id int) (*models.TripPlan, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*models.TripPlan), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestReadHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		url            string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешное чтение плана",
			url:  "/plans/123",
			setupMock: func(m *MockService) {
				plan := &models.TripPlan{
					ID:          123,
					Username:    "testuser",
					Title:       "Summer in Spain",
					VisaStart:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
					WindowLabel: "1 year",
					WindowDays:  365,
					TripCount:   3,
					TotalDays:   185,
					Stays: []models.PlanStay{
						{
							Position:     1,
							Kind:         "Optimized (Auto)",
							Entry:        time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
							Exit:         time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
							DurationDays: 90,
						},
					},
				}
				m.On("Read", mock.Anything, 123).Return(plan, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"Title":"Summer in Spain"`,
		},
		{
			name:           "некорректный id в URL",
			url:            "/plans/abc",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"failed to decode id from url"}`,
		},
		{
			name: "ошибка сервиса чтения",
			url:  "/plans/777",
			setupMock: func(m *MockService) {
				m.On("Read", mock.Anything, 777).Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not read plan"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			// Устанавливаем URL params с помощью роутера chi
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", strings.TrimPrefix(tt.url, "/plans/"))
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
