package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/schengen-planner/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/schengen-planner/internal/lib/sl"
	"github.com/magabrotheeeer/schengen-planner/internal/models"
)

type StayRepository interface {
	FindStaysStartingTomorrow(ctx context.Context) ([]*models.StayReminderInfo, error)
}

type ReminderService struct {
	repo StayRepository
	log  *slog.Logger
}

// NewReminderService создает новый экземпляр ReminderService.
func NewReminderService(repo StayRepository, log *slog.Logger) *ReminderService {
	return &ReminderService{
		repo: repo,
		log:  log,
	}
}

// FindStaysDueTomorrow раз в сутки ищет поездки, начинающиеся завтра,
// и публикует напоминания в очередь.
func (s *ReminderService) FindStaysDueTomorrow(ctx context.Context, channel rabbitmq.Publisher) {
	s.runFindStaysDueTomorrow(ctx, channel)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runFindStaysDueTomorrow(ctx, channel)
		case <-ctx.Done():
			return
		}
	}
}

func (s *ReminderService) runFindStaysDueTomorrow(ctx context.Context, channel rabbitmq.Publisher) {
	s.log.Info("starting service to find stays starting tomorrow")
	stays, err := s.repo.FindStaysStartingTomorrow(ctx)
	if err != nil {
		s.log.Error("failed to find stays", sl.Err(err))
		return
	}
	if len(stays) == 0 {
		s.log.Info("no upcoming stays found")
		return
	}
	s.log.Info("found upcoming stays", "count", len(stays))
	for _, stay := range stays {
		err = rabbitmq.PublishMessage(channel, "reminders", "upcoming", stay)
		if err != nil {
			s.log.Error("failed to publish message", sl.Err(err))
		}
	}
}
