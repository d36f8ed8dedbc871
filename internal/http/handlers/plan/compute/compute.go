// Package compute реализует HTTP-обработчик расчёта расписания поездок.
//
// Handler принимает JSON-запрос с датой начала визы и, опционально, первой
// зафиксированной поездкой, валидирует его, вызывает бизнес-логику расчёта
// по всем вариантам длительности визы и возвращает готовое расписание в JSON-формате.
//
// Нарушение правил первой поездки не является HTTP-ошибкой: расчёт продолжается,
// а сообщение о нарушении возвращается внутри результата.
package compute

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/schengen-planner/internal/http/response"
	"github.com/magabrotheeeer/schengen-planner/internal/lib/sl"
	"github.com/magabrotheeeer/schengen-planner/internal/models"
)

// Handler управляет HTTP-запросами на расчёт расписания поездок.
//
// Использует логгер для записи операций и ошибок,
// сервис бизнес-логики для расчёта расписания,
// а также валидатор для проверки структуры входных данных.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики расчёта расписания
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики расчёта расписания.
type Service interface {
	ComputePlan(ctx context.Context, req models.DummyPlanRequest) (*models.PlanResult, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Рассчитать расписание поездок
// @Description Строит расписание максимального пребывания по всем вариантам длительности визы. Учитывает зафиксированную первую поездку, если она передана.
// @Tags Plans
// @Accept  json
// @Produce  json
// @Param request body models.DummyPlanRequest true "Параметры расчёта"
// @Success 200 {object} map[string]any "Готовое расписание по всем окнам"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или дата"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /plans/compute [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plan.compute"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	result, err := h.service.ComputePlan(r.Context(), req)
	if err != nil {
		log.Error("failed to compute plan", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid plan request"))
		return
	}

	log.Info("success to compute plan", slog.String("visa_start", result.VisaStart))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"result": result,
	}))
}
