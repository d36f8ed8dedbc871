// Package read реализует HTTP-обработчик получения конкретного плана по ID.
//
// Handler извлекает ID из URL-параметров, вызывает бизнес-логику для чтения плана
// по идентификатору и возвращает данные плана вместе с поездками в JSON-формате.
//
// В случае ошибок формирует соответствующие HTTP-ответы с описанием проблемы.
package read

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/schengen-planner/internal/http/response"
	"github.com/magabrotheeeer/schengen-planner/internal/lib/sl"
	"github.com/magabrotheeeer/schengen-planner/internal/models"
)

// Handler обрабатывает запросы на получение плана по уникальному идентификатору.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики для получения плана по ID
}

// Service описывает интерфейс бизнес-логики чтения плана.
type Service interface {
	Read(ctx context.Context, id int) (*models.TripPlan, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP обрабатывает HTTP-запрос на получение плана по ID.
//
// Выполняет:
// - Парсинг ID из URL.
// - Вызов бизнес-логики для чтения плана.
// - Формирование JSON-ответа с данными или ошибкой.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plan.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	res, err := h.service.Read(r.Context(), id)
	if err != nil {
		log.Error("failed to read plan", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read plan"))
		return
	}

	log.Info("success to read plan", slog.Any("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"plan": res,
	}))
}
