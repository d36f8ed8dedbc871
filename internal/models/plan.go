// Package models содержит доменные структуры планировщика поездок,
// а также вспомогательные типы для работы с данными из внешних источников (например, JSON-запросы).
package models

import "time"

// TripPlan представляет собой сохранённый план поездок
// для одного окна действия визы.
type TripPlan struct {
	ID          int        // Идентификатор плана
	UserUID     string     // Уникальный идентификатор владельца
	Username    string     // Имя владельца плана
	Title       string     // Название плана, заданное пользователем
	VisaStart   time.Time  // Дата начала действия визы
	WindowLabel string     // Название варианта длительности визы
	WindowDays  int        // Длительность окна в днях
	TripCount   int        // Количество поездок в плане
	TotalDays   int        // Суммарное количество дней пребывания
	CreatedAt   time.Time  // Дата создания записи
	Stays       []PlanStay // Поездки плана по порядку
}

// PlanStay — одна поездка сохранённого плана.
type PlanStay struct {
	Position     int       // Порядковый номер поездки в плане
	Kind         string    // Происхождение поездки: ручная или рассчитанная
	Entry        time.Time // Дата въезда, включительно
	Exit         time.Time // Дата выезда, включительно
	DurationDays int       // Длительность в днях
}

// DummyPlanRequest используется для приёма параметров расчёта из JSON-запроса,
// прежде чем конвертировать их в доменные типы.
// Даты приходят в виде строк, чтобы их можно было валидировать и парсить вручную.
type DummyPlanRequest struct {
	StartDate     string `json:"start_date" validate:"required"` // Дата начала действия визы в формате 2006-01-02
	HasManualTrip bool   `json:"has_manual_trip"`                // Признак зафиксированной первой поездки
	ManualEntry   string `json:"manual_entry"`                   // Дата въезда первой поездки
	ManualExit    string `json:"manual_exit"`                    // Дата выезда первой поездки
}

// DummySavePlanRequest используется для приёма запроса на сохранение плана.
// Расписание пересчитывается на сервере, строки от клиента не принимаются.
type DummySavePlanRequest struct {
	Title         string `json:"title" validate:"required,max=100"`  // Название плана
	WindowLabel   string `json:"window_label" validate:"required"`   // Вариант длительности визы
	StartDate     string `json:"start_date" validate:"required"`     // Дата начала действия визы
	HasManualTrip bool   `json:"has_manual_trip"`                    // Признак зафиксированной первой поездки
	ManualEntry   string `json:"manual_entry"`                       // Дата въезда первой поездки
	ManualExit    string `json:"manual_exit"`                        // Дата выезда первой поездки
}

// StayRow — строка готового расписания для внешнего ответа.
// Значение Type и формат дат фиксированы для совместимости.
type StayRow struct {
	Type      string `json:"type"`       // "Manual (Fixed)" или "Optimized (Auto)"
	EntryDate string `json:"entry_date"` // Дата въезда в формате YYYY-MM-DD
	ExitDate  string `json:"exit_date"`  // Дата выезда в формате YYYY-MM-DD
	Duration  int    `json:"duration"`   // Длительность в днях
}

// WindowResult — результат расчёта одного окна действия визы.
type WindowResult struct {
	Label         string    `json:"label"`             // Название варианта
	TotalDays     int       `json:"total_days"`        // Длительность окна в днях
	VisaEnd       string    `json:"visa_end"`          // Последний день действия визы
	Applicable    bool      `json:"applicable"`        // false, если ручная поездка не помещается в окно
	Warning       string    `json:"warning,omitempty"` // Предупреждение для пользователя
	Rows          []StayRow `json:"rows"`              // Поездки по порядку
	TripCount     int       `json:"trip_count"`        // Количество поездок
	TotalDaysUsed int       `json:"total_days_used"`   // Суммарное количество дней пребывания
}

// PlanResult — результат расчёта по всем окнам за один запрос.
type PlanResult struct {
	VisaStart       string         `json:"visa_start"`                  // Дата начала действия визы
	HasManualTrip   bool           `json:"has_manual_trip"`             // Признак из запроса
	ManualTripValid bool           `json:"manual_trip_valid"`           // true, если ручная поездка есть и прошла проверку
	ManualTripError string         `json:"manual_trip_error,omitempty"` // Сообщение о нарушенном правиле
	Windows         []WindowResult `json:"windows"`                     // Результаты по окнам в фиксированном порядке
}

// WindowInfo — описание варианта длительности визы для внешнего ответа.
type WindowInfo struct {
	Label     string `json:"label"`      // Название варианта
	TotalDays int    `json:"total_days"` // Длительность в днях
}

type StayReminderInfo struct {
	Email       string
	Username    string
	PlanTitle   string
	WindowLabel string
	Entry       time.Time
	Exit        time.Time
}
