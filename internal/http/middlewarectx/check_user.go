package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/schengen-planner/internal/http/response"
	"github.com/magabrotheeeer/schengen-planner/internal/lib/sl"
	"github.com/magabrotheeeer/schengen-planner/internal/models"
)

// PlanReader определяет интерфейс для чтения плана по идентификатору.
type PlanReader interface {
	Read(ctx context.Context, id int) (*models.TripPlan, error)
}

// PlanOwnerMiddleware создает middleware для проверки, что план из URL принадлежит
// текущему пользователю. Администраторам доступны любые планы.
func PlanOwnerMiddleware(log *slog.Logger, planService PlanReader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, ok := r.Context().Value(User).(string)
			if !ok || username == "" {
				log.Error("user identification missing")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			if role, ok := r.Context().Value(Role).(string); ok && role == "admin" {
				next.ServeHTTP(w, r)
				return
			}

			id, err := strconv.Atoi(chi.URLParam(r, "id"))
			if err != nil {
				log.Error("invalid plan id in url", sl.Err(err))
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error("invalid plan id"))
				return
			}

			plan, err := planService.Read(r.Context(), id)
			if err != nil {
				log.Error("failed to read plan for ownership check", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}

			if plan == nil || plan.Username != username {
				log.Error("plan does not belong to user")
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("access denied"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
