// Package services содержит бизнес-логику расчёта и хранения планов поездок.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/schengen-planner/internal/lib/schedule"
	"github.com/magabrotheeeer/schengen-planner/internal/models"
)

// PlanRepository определяет методы для работы с планами в хранилище.
type PlanRepository interface {
	// SavePlan сохраняет план с поездками и возвращает его ID.
	SavePlan(ctx context.Context, plan models.TripPlan) (int, error)
	// RemovePlan удаляет план по ID и возвращает количество удалённых записей.
	RemovePlan(ctx context.Context, id int) (int, error)
	// ReadPlan возвращает план по ID.
	ReadPlan(ctx context.Context, id int) (*models.TripPlan, error)
	// ListPlans возвращает список планов пользователя с пагинацией.
	ListPlans(ctx context.Context, username string, limit, offset int) ([]*models.TripPlan, error)
	// ListAllPlans возвращает список всех планов с пагинацией.
	ListAllPlans(ctx context.Context, limit, offset int) ([]*models.TripPlan, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// PlannerService реализует бизнес-логику расчёта расписаний и работы
// с сохранёнными планами, включая кеширование.
type PlannerService struct {
	repo       PlanRepository
	cache      Cache
	log        *slog.Logger
	policy     schedule.Policy
	validities []schedule.Validity
}

// NewPlannerService создает новый экземпляр PlannerService.
// Нулевые параметры правила и пустой набор окон заменяются значениями по умолчанию.
func NewPlannerService(repo PlanRepository, cache Cache, log *slog.Logger, policy schedule.Policy, validities []schedule.Validity) *PlannerService {
	if policy.MaxStayDays == 0 || policy.RecoveryGapDays == 0 {
		policy = schedule.DefaultPolicy()
	}
	if len(validities) == 0 {
		validities = schedule.DefaultValidities()
	}
	return &PlannerService{
		repo:       repo,
		cache:      cache,
		log:        log,
		policy:     policy,
		validities: validities,
	}
}

// ComputePlan рассчитывает расписания для всех окон действия визы.
// Невалидная ручная поездка не прерывает расчёт: окна считаются без неё,
// а сообщение о нарушенном правиле попадает в результат.
func (s *PlannerService) ComputePlan(ctx context.Context, req models.DummyPlanRequest) (*models.PlanResult, error) {
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date: %w", err)
	}

	cacheKey := fmt.Sprintf("plan:%s:%t:%s:%s", req.StartDate, req.HasManualTrip, req.ManualEntry, req.ManualExit)
	var cached models.PlanResult
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read plan from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found {
		return &cached, nil
	}

	result := &models.PlanResult{
		VisaStart:     req.StartDate,
		HasManualTrip: req.HasManualTrip,
	}

	var manual *schedule.ManualTrip
	if req.HasManualTrip {
		trip, err := s.parseManualTrip(req.ManualEntry, req.ManualExit)
		if err != nil {
			return nil, err
		}
		if err := schedule.ValidateManualTrip(startDate, *trip, s.policy); err != nil {
			result.ManualTripError = s.manualTripMessage(err, *trip)
		} else {
			manual = trip
			result.ManualTripValid = true
		}
	}

	for _, v := range s.validities {
		result.Windows = append(result.Windows, s.buildWindow(startDate, manual, v))
	}

	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to cache plan", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}

// buildWindow рассчитывает расписание для одного окна действия визы.
func (s *PlannerService) buildWindow(startDate time.Time, manual *schedule.ManualTrip, v schedule.Validity) models.WindowResult {
	w := schedule.NewWindow(v.Label, v.Days, startDate)
	wr := models.WindowResult{
		Label:      v.Label,
		TotalDays:  v.Days,
		VisaEnd:    w.End.Format("2006-01-02"),
		Applicable: true,
		Rows:       []models.StayRow{},
	}

	built, err := schedule.Build(startDate, manual, w, s.policy)
	if err != nil {
		// Поездка не помещается в это окно, остальные окна не затрагиваются.
		wr.Applicable = false
		wr.Warning = fmt.Sprintf("Your planned first trip ends after this visa expires (%s).", w.End.Format("2006-01-02"))
		return wr
	}

	for _, stay := range built.Stays {
		wr.Rows = append(wr.Rows, models.StayRow{
			Type:      string(stay.Kind),
			EntryDate: stay.Entry.Format("2006-01-02"),
			ExitDate:  stay.Exit.Format("2006-01-02"),
			Duration:  stay.DurationDays,
		})
	}
	wr.TripCount = built.TripCount
	wr.TotalDaysUsed = built.TotalDays
	if built.TripCount == 0 {
		wr.Warning = "No travel periods possible."
	}
	return wr
}

// SavePlan пересчитывает расписание для выбранного окна и сохраняет план.
// План с невалидной или не помещающейся в окно ручной поездкой не сохраняется.
func (s *PlannerService) SavePlan(ctx context.Context, username, userUID string, req models.DummySavePlanRequest) (int, error) {
	validity, err := s.findValidity(req.WindowLabel)
	if err != nil {
		return 0, err
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return 0, fmt.Errorf("invalid start date: %w", err)
	}

	var manual *schedule.ManualTrip
	if req.HasManualTrip {
		trip, err := s.parseManualTrip(req.ManualEntry, req.ManualExit)
		if err != nil {
			return 0, err
		}
		if err := schedule.ValidateManualTrip(startDate, *trip, s.policy); err != nil {
			return 0, fmt.Errorf("invalid manual trip: %w", err)
		}
		manual = trip
	}

	w := schedule.NewWindow(validity.Label, validity.Days, startDate)
	built, err := schedule.Build(startDate, manual, w, s.policy)
	if err != nil {
		return 0, fmt.Errorf("cannot save plan: %w", err)
	}

	plan := models.TripPlan{
		UserUID:     userUID,
		Username:    username,
		Title:       req.Title,
		VisaStart:   startDate,
		WindowLabel: validity.Label,
		WindowDays:  validity.Days,
		TripCount:   built.TripCount,
		TotalDays:   built.TotalDays,
	}
	for i, stay := range built.Stays {
		plan.Stays = append(plan.Stays, models.PlanStay{
			Position:     i + 1,
			Kind:         string(stay.Kind),
			Entry:        stay.Entry,
			Exit:         stay.Exit,
			DurationDays: stay.DurationDays,
		})
	}

	id, err := s.repo.SavePlan(ctx, plan)
	if err != nil {
		return 0, err
	}
	s.log.Info("saved new trip plan", slog.Int("id", id))

	cacheKey := fmt.Sprintf("tripplan:%d", id)
	plan.ID = id
	if err := s.cache.Set(cacheKey, &plan, time.Hour); err != nil {
		s.log.Warn("failed to cache trip plan", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return id, nil
}

// Read возвращает план по ID, используя кеш или репозиторий.
func (s *PlannerService) Read(ctx context.Context, id int) (*models.TripPlan, error) {
	var result *models.TripPlan
	cacheKey := fmt.Sprintf("tripplan:%d", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}
	result, err = s.repo.ReadPlan(ctx, id)
	if err != nil {
		return nil, err
	}

	if result != nil {
		if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
			s.log.Warn("failed to add to cache", slog.String("key", cacheKey),
				slog.Any("err", err))
		}
	}
	return result, nil
}

// Remove удаляет план по ID и инвалидирует кеш.
func (s *PlannerService) Remove(ctx context.Context, id int) (int, error) {
	cacheKey := fmt.Sprintf("tripplan:%d", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}

	count, err := s.repo.RemovePlan(ctx, id)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// List возвращает список планов в зависимости от роли пользователя.
func (s *PlannerService) List(ctx context.Context, username, role string, limit, offset int) ([]*models.TripPlan, error) {
	var err error
	var plans []*models.TripPlan
	if role == "admin" {
		plans, err = s.repo.ListAllPlans(ctx, limit, offset)
	} else {
		plans, err = s.repo.ListPlans(ctx, username, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	return plans, nil
}

// Windows возвращает настроенный набор вариантов длительности визы.
func (s *PlannerService) Windows() []models.WindowInfo {
	result := make([]models.WindowInfo, 0, len(s.validities))
	for _, v := range s.validities {
		result = append(result, models.WindowInfo{Label: v.Label, TotalDays: v.Days})
	}
	return result
}

func (s *PlannerService) parseManualTrip(entry, exit string) (*schedule.ManualTrip, error) {
	entryDate, err := time.Parse("2006-01-02", entry)
	if err != nil {
		return nil, fmt.Errorf("invalid manual entry date: %w", err)
	}
	exitDate, err := time.Parse("2006-01-02", exit)
	if err != nil {
		return nil, fmt.Errorf("invalid manual exit date: %w", err)
	}
	return &schedule.ManualTrip{Entry: entryDate, Exit: exitDate}, nil
}

func (s *PlannerService) findValidity(label string) (schedule.Validity, error) {
	for _, v := range s.validities {
		if v.Label == label {
			return v, nil
		}
	}
	return schedule.Validity{}, fmt.Errorf("unknown validity window: %s", label)
}

// manualTripMessage переводит ошибку проверки в сообщение для пользователя.
func (s *PlannerService) manualTripMessage(err error, trip schedule.ManualTrip) string {
	switch {
	case errors.Is(err, schedule.ErrEntryBeforeStart):
		return "Entry date cannot be before Visa Start Date."
	case errors.Is(err, schedule.ErrExitBeforeEntry):
		return "Exit date must be after Entry date."
	case errors.Is(err, schedule.ErrStayTooLong):
		days := schedule.DaysInclusive(trip.Entry, trip.Exit)
		return fmt.Sprintf("Trip is too long (%d days). Max is %d.", days, s.policy.MaxStayDays)
	default:
		return err.Error()
	}
}
