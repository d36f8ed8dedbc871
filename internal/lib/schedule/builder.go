package schedule

import (
	"errors"
	"fmt"
	"time"
)

// Ошибки проверки ручной поездки и построения расписания.
var (
	ErrEntryBeforeStart       = errors.New("entry date cannot be before visa start date")
	ErrExitBeforeEntry        = errors.New("exit date must be after entry date")
	ErrStayTooLong            = errors.New("trip is too long")
	ErrManualTripBeyondWindow = errors.New("manual trip ends after visa expiry")
)

// ValidateManualTrip проверяет ручную поездку относительно даты начала визы.
// Проверки идут по порядку: дата въезда, порядок дат, длительность.
func ValidateManualTrip(start time.Time, trip ManualTrip, p Policy) error {
	if trip.Entry.Before(start) {
		return ErrEntryBeforeStart
	}
	if trip.Exit.Before(trip.Entry) {
		return ErrExitBeforeEntry
	}
	if days := DaysInclusive(trip.Entry, trip.Exit); days > p.MaxStayDays {
		return fmt.Errorf("trip is %d days, max is %d: %w", days, p.MaxStayDays, ErrStayTooLong)
	}
	return nil
}

// Build строит жадное расписание пребываний внутри одного окна действия визы.
// Ручная поездка, если она передана, должна быть заранее проверена
// ValidateManualTrip; невалидная поездка передаётся как nil. Если выезд
// ручной поездки позже конца окна, возвращается ErrManualTripBeyondWindow
// и окно пропускается целиком. Пустое расписание ошибкой не является.
func Build(start time.Time, manual *ManualTrip, w Window, p Policy) (Schedule, error) {
	var res Schedule

	current := start
	if manual != nil {
		if manual.Exit.After(w.End) {
			return Schedule{}, fmt.Errorf("trip ends %s, visa expires %s: %w",
				manual.Exit.Format("2006-01-02"), w.End.Format("2006-01-02"), ErrManualTripBeyondWindow)
		}
		res.Stays = append(res.Stays, Stay{
			Kind:         KindManual,
			Entry:        manual.Entry,
			Exit:         manual.Exit,
			DurationDays: DaysInclusive(manual.Entry, manual.Exit),
		})
		current = manual.Exit.AddDate(0, 0, p.RecoveryGapDays)
	}

	for !current.After(w.End) {
		entry := current
		exit := entry.AddDate(0, 0, p.MaxStayDays-1)
		if exit.After(w.End) {
			exit = w.End
		}
		stayDays := DaysInclusive(entry, exit)
		if stayDays > 0 {
			res.Stays = append(res.Stays, Stay{
				Kind:         KindOptimized,
				Entry:        entry,
				Exit:         exit,
				DurationDays: stayDays,
			})
		}
		// Перерыв всегда полный, даже после усечённой поездки.
		current = exit.AddDate(0, 0, p.RecoveryGapDays)
	}

	res.TripCount = len(res.Stays)
	for _, s := range res.Stays {
		res.TotalDays += s.DurationDays
	}
	return res, nil
}
