package windows

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/schengen-planner/internal/models"
)

// MockService реализует интерфейс windows.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Windows() []models.WindowInfo {
	args := m.Called()
	return args.Get(0).([]models.WindowInfo)
}

func TestWindowsHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	mockService := new(MockService)
	mockService.On("Windows").Return([]models.WindowInfo{
		{Label: "3 months", TotalDays: 90},
		{Label: "1 year", TotalDays: 365},
		{Label: "2 years", TotalDays: 730},
		{Label: "5 years", TotalDays: 1825},
	})

	handler := New(logger, mockService)

	req := httptest.NewRequest(http.MethodGet, "/windows", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"label":"3 months"`)
	assert.Contains(t, w.Body.String(), `"total_days":1825`)
	mockService.AssertExpectations(t)
}
