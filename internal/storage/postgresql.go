// Package storage реализует хранилище данных на основе PostgreSQL
// для управления сохранёнными планами поездок и пользователями.
// Предоставляет методы создания, чтения, удаления и выборки планов,
// а также работу с пользователями.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/schengen-planner/internal/models"
)

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с планами поездок и пользователями.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'trip_plans'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table trip_plans missing or query error: %w", err)
	}
	return nil
}

// ===== PLAN METHODS =====

// SavePlan сохраняет план вместе с поездками в одной транзакции и возвращает его ID.
func (s *Storage) SavePlan(ctx context.Context, plan models.TripPlan) (int, error) {
	const op = "storage.SavePlan"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `INSERT INTO trip_plans (user_uid, username, title, visa_start,
			      window_label, window_days, trip_count, total_days)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id`
	var newID int
	err = tx.QueryRowContext(ctx, query,
		plan.UserUID, plan.Username, plan.Title, plan.VisaStart,
		plan.WindowLabel, plan.WindowDays, plan.TripCount, plan.TotalDays).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	stayQuery := `INSERT INTO trip_plan_stays (plan_id, position, kind, entry_date, exit_date, duration_days)
				  VALUES ($1, $2, $3, $4, $5, $6)`
	for _, stay := range plan.Stays {
		if _, err = tx.ExecContext(ctx, stayQuery,
			newID, stay.Position, stay.Kind, stay.Entry, stay.Exit, stay.DurationDays); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadPlan возвращает план с поездками по его ID.
func (s *Storage) ReadPlan(ctx context.Context, id int) (*models.TripPlan, error) {
	const op = "storage.ReadPlan"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, username, title, visa_start, window_label,
				  window_days, trip_count, total_days, created_at
			  FROM trip_plans WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var plan models.TripPlan
	if err := row.Scan(&plan.ID, &plan.UserUID, &plan.Username, &plan.Title, &plan.VisaStart,
		&plan.WindowLabel, &plan.WindowDays, &plan.TripCount, &plan.TotalDays, &plan.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	stays, err := s.listStays(ctx, plan.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	plan.Stays = stays
	return &plan, nil
}

// RemovePlan удаляет план по ID и возвращает количество удалённых строк.
// Поездки удаляются каскадно.
func (s *Storage) RemovePlan(ctx context.Context, id int) (int, error) {
	const op = "storage.RemovePlan"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM trip_plans WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListPlans возвращает список планов пользователя с пагинацией.
func (s *Storage) ListPlans(ctx context.Context, username string, limit, offset int) ([]*models.TripPlan, error) {
	const op = "storage.ListPlans"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, username, title, visa_start, window_label,
				  window_days, trip_count, total_days, created_at
			  FROM trip_plans
			  WHERE username = $1
			  ORDER BY id
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, username, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result, err := s.scanPlans(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListAllPlans возвращает список всех планов с пагинацией.
func (s *Storage) ListAllPlans(ctx context.Context, limit, offset int) ([]*models.TripPlan, error) {
	const op = "storage.ListAllPlans"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, username, title, visa_start, window_label,
				  window_days, trip_count, total_days, created_at
			  FROM trip_plans
			  ORDER BY id
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result, err := s.scanPlans(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func (s *Storage) scanPlans(ctx context.Context, rows *sql.Rows) ([]*models.TripPlan, error) {
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.TripPlan
	for rows.Next() {
		var plan models.TripPlan
		if err := rows.Scan(&plan.ID, &plan.UserUID, &plan.Username, &plan.Title, &plan.VisaStart,
			&plan.WindowLabel, &plan.WindowDays, &plan.TripCount, &plan.TotalDays, &plan.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &plan)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, plan := range result {
		stays, err := s.listStays(ctx, plan.ID)
		if err != nil {
			return nil, err
		}
		plan.Stays = stays
	}
	return result, nil
}

func (s *Storage) listStays(ctx context.Context, planID int) ([]models.PlanStay, error) {
	query := `SELECT position, kind, entry_date, exit_date, duration_days
			  FROM trip_plan_stays
			  WHERE plan_id = $1
			  ORDER BY position`
	rows, err := s.DB.QueryContext(ctx, query, planID)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.PlanStay
	for rows.Next() {
		var stay models.PlanStay
		if err := rows.Scan(&stay.Position, &stay.Kind, &stay.Entry, &stay.Exit, &stay.DurationDays); err != nil {
			return nil, err
		}
		result = append(result, stay)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ===== USER METHODS =====

// RegisterUser сохраняет нового пользователя в базу данных и возвращает его UID.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO users (email, username, password_hash, role)
			  VALUES ($1, $2, $3, $4)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.Username, user.PasswordHash, user.Role).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, role, created_at
			  FROM users
			  WHERE username = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, username)

	if err := row.Scan(&u.UUID, &u.Email, &u.Username, &u.PasswordHash,
		&u.Role, &u.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, role, created_at
			  FROM users
			  WHERE uid = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, userUID)

	if err := row.Scan(&u.UUID, &u.Email, &u.Username, &u.PasswordHash,
		&u.Role, &u.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ===== REMINDER METHODS =====

// FindStaysStartingTomorrow находит поездки сохранённых планов, начинающиеся завтра.
func (s *Storage) FindStaysStartingTomorrow(ctx context.Context) ([]*models.StayReminderInfo, error) {
	const op = "storage.FindStaysStartingTomorrow"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT
		          u.email,
			      p.username,
			      p.title,
			      p.window_label,
			      st.entry_date,
			      st.exit_date
			  FROM trip_plan_stays st
		      JOIN trip_plans p ON st.plan_id = p.id
		      JOIN users u ON p.username = u.username
		      WHERE st.entry_date = CURRENT_DATE + INTERVAL '1 day';`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.StayReminderInfo
	for rows.Next() {
		var si models.StayReminderInfo
		if err = rows.Scan(&si.Email, &si.Username, &si.PlanTitle,
			&si.WindowLabel, &si.Entry, &si.Exit); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &si)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
