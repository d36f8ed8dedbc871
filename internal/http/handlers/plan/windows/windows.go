package windows

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/schengen-planner/internal/http/response"
	"github.com/magabrotheeeer/schengen-planner/internal/models"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс получения вариантов длительности визы.
type Service interface {
	Windows() []models.WindowInfo
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Варианты длительности визы
// @Description Возвращает настроенные варианты длительности визы для формы расчёта.
// @Tags Plans
// @Produce  json
// @Success 200 {object} map[string]any "Список вариантов"
// @Router /windows [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plan.windows"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	res := h.service.Windows()

	log.Info("list windows", "count", len(res))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"windows": res,
	}))
}
