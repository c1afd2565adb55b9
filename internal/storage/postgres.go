package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SashaSaw/Habitat-sub001/internal"
)

type PostgresStorage struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

func NewPostgresStorage(dsn string, logger internal.Logger) (*PostgresStorage, error) {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("failed to connect to postgres: %v", err)
		return nil, err
	}
	s := &PostgresStorage{pool: pool, logger: logger}
	if err := s.ensureSchema(ctx); err != nil {
		logger.Errorf("failed to ensure schema: %v", err)
		return nil, err
	}
	return s, nil
}

func (p *PostgresStorage) ensureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS habits (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	tier TEXT NOT NULL,
	type TEXT NOT NULL,
	frequency_type TEXT NOT NULL,
	frequency_target INT NOT NULL DEFAULT 1,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	group_id TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	current_streak INT NOT NULL DEFAULT 0,
	best_streak INT NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS daily_logs (
	id TEXT PRIMARY KEY,
	habit_id TEXT NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
	day DATE NOT NULL,
	completed BOOLEAN NOT NULL,
	note TEXT NOT NULL DEFAULT '',
	photo_ref TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	UNIQUE (habit_id, day)
);
CREATE TABLE IF NOT EXISTS habit_groups (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	tier TEXT NOT NULL,
	require_count INT NOT NULL,
	habit_ids TEXT[] NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS day_records (
	day DATE PRIMARY KEY,
	is_good_day BOOLEAN NOT NULL,
	locked_at TIMESTAMPTZ
);`)
	return err
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

// --- HabitRepository ---

func (p *PostgresStorage) SaveHabit(ctx context.Context, habit *internal.Habit) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO habits (id, name, tier, type, frequency_type, frequency_target, is_active, group_id, created_at, current_streak, best_streak)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET name = $2, tier = $3, type = $4, frequency_type = $5, frequency_target = $6, is_active = $7, group_id = $8, current_streak = $10, best_streak = $11`,
		habit.ID, habit.Name, habit.Tier, habit.Type, habit.FrequencyType, habit.FrequencyTarget,
		habit.IsActive, habit.GroupID, habit.CreatedAt, habit.CurrentStreak, habit.BestStreak)
	if err != nil {
		p.logger.Errorf("failed to upsert habit: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) GetHabit(ctx context.Context, id string) (*internal.Habit, error) {
	row := p.pool.QueryRow(ctx, `SELECT id, name, tier, type, frequency_type, frequency_target, is_active, group_id, created_at, current_streak, best_streak FROM habits WHERE id = $1`, id)
	var h internal.Habit
	if err := row.Scan(&h.ID, &h.Name, &h.Tier, &h.Type, &h.FrequencyType, &h.FrequencyTarget, &h.IsActive, &h.GroupID, &h.CreatedAt, &h.CurrentStreak, &h.BestStreak); err != nil {
		p.logger.Errorf("habit not found: %v", err)
		return nil, err
	}
	logs, err := p.listLogs(ctx, id)
	if err != nil {
		return nil, err
	}
	h.Logs = logs
	return &h, nil
}

func (p *PostgresStorage) ListHabits(ctx context.Context) ([]internal.Habit, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, name, tier, type, frequency_type, frequency_target, is_active, group_id, created_at, current_streak, best_streak FROM habits ORDER BY created_at`)
	if err != nil {
		p.logger.Errorf("failed to query habits: %v", err)
		return nil, err
	}
	defer rows.Close()

	var habits []internal.Habit
	index := make(map[string]int)
	for rows.Next() {
		var h internal.Habit
		if err := rows.Scan(&h.ID, &h.Name, &h.Tier, &h.Type, &h.FrequencyType, &h.FrequencyTarget, &h.IsActive, &h.GroupID, &h.CreatedAt, &h.CurrentStreak, &h.BestStreak); err != nil {
			p.logger.Errorf("failed to scan habit: %v", err)
			return nil, err
		}
		index[h.ID] = len(habits)
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	logRows, err := p.pool.Query(ctx, `SELECT id, habit_id, day, completed, note, photo_ref, created_at FROM daily_logs ORDER BY day`)
	if err != nil {
		p.logger.Errorf("failed to query daily logs: %v", err)
		return nil, err
	}
	defer logRows.Close()
	for logRows.Next() {
		var l internal.DailyLog
		if err := logRows.Scan(&l.ID, &l.HabitID, &l.Date, &l.Completed, &l.Note, &l.PhotoRef, &l.CreatedAt); err != nil {
			p.logger.Errorf("failed to scan daily log: %v", err)
			return nil, err
		}
		l.Date = internal.NormalizeDay(l.Date)
		if i, ok := index[l.HabitID]; ok {
			habits[i].Logs = append(habits[i].Logs, l)
		}
	}
	return habits, logRows.Err()
}

func (p *PostgresStorage) DeleteHabit(ctx context.Context, id string) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM habits WHERE id = $1`, id)
	if err != nil {
		p.logger.Errorf("failed to delete habit: %v", err)
	}
	return err
}

func (p *PostgresStorage) SaveDailyLog(ctx context.Context, log *internal.DailyLog) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO daily_logs (id, habit_id, day, completed, note, photo_ref, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (habit_id, day) DO UPDATE SET completed = $4, note = $5, photo_ref = $6`,
		log.ID, log.HabitID, internal.NormalizeDay(log.Date), log.Completed, log.Note, log.PhotoRef, log.CreatedAt)
	if err != nil {
		p.logger.Errorf("failed to upsert daily log: %v", err)
	}
	return err
}

func (p *PostgresStorage) listLogs(ctx context.Context, habitID string) ([]internal.DailyLog, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, habit_id, day, completed, note, photo_ref, created_at FROM daily_logs WHERE habit_id = $1 ORDER BY day`, habitID)
	if err != nil {
		p.logger.Errorf("failed to query daily logs: %v", err)
		return nil, err
	}
	defer rows.Close()

	var logs []internal.DailyLog
	for rows.Next() {
		var l internal.DailyLog
		if err := rows.Scan(&l.ID, &l.HabitID, &l.Date, &l.Completed, &l.Note, &l.PhotoRef, &l.CreatedAt); err != nil {
			p.logger.Errorf("failed to scan daily log: %v", err)
			return nil, err
		}
		l.Date = internal.NormalizeDay(l.Date)
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// --- GroupRepository ---

func (p *PostgresStorage) SaveGroup(ctx context.Context, group *internal.HabitGroup) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO habit_groups (id, name, tier, require_count, habit_ids, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET name = $2, tier = $3, require_count = $4, habit_ids = $5`,
		group.ID, group.Name, group.Tier, group.RequireCount, group.HabitIDs, group.CreatedAt)
	if err != nil {
		p.logger.Errorf("failed to upsert group: %v", err)
	}
	return err
}

func (p *PostgresStorage) GetGroup(ctx context.Context, id string) (*internal.HabitGroup, error) {
	row := p.pool.QueryRow(ctx, `SELECT id, name, tier, require_count, habit_ids, created_at FROM habit_groups WHERE id = $1`, id)
	var g internal.HabitGroup
	if err := row.Scan(&g.ID, &g.Name, &g.Tier, &g.RequireCount, &g.HabitIDs, &g.CreatedAt); err != nil {
		p.logger.Errorf("group not found: %v", err)
		return nil, err
	}
	return &g, nil
}

func (p *PostgresStorage) ListGroups(ctx context.Context) ([]internal.HabitGroup, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, name, tier, require_count, habit_ids, created_at FROM habit_groups ORDER BY created_at`)
	if err != nil {
		p.logger.Errorf("failed to query groups: %v", err)
		return nil, err
	}
	defer rows.Close()

	var groups []internal.HabitGroup
	for rows.Next() {
		var g internal.HabitGroup
		if err := rows.Scan(&g.ID, &g.Name, &g.Tier, &g.RequireCount, &g.HabitIDs, &g.CreatedAt); err != nil {
			p.logger.Errorf("failed to scan group: %v", err)
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (p *PostgresStorage) DeleteGroup(ctx context.Context, id string) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM habit_groups WHERE id = $1`, id)
	if err != nil {
		p.logger.Errorf("failed to delete group: %v", err)
	}
	return err
}

// --- DayRecordRepository ---

func (p *PostgresStorage) GetDayRecord(ctx context.Context, day time.Time) (*internal.DayRecord, error) {
	rows, err := p.pool.Query(ctx, `SELECT day, is_good_day, locked_at FROM day_records WHERE day = $1`, internal.NormalizeDay(day))
	if err != nil {
		p.logger.Errorf("failed to query day record: %v", err)
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, rows.Err()
	}
	var rec internal.DayRecord
	if err := rows.Scan(&rec.Date, &rec.IsGoodDay, &rec.LockedAt); err != nil {
		p.logger.Errorf("failed to scan day record: %v", err)
		return nil, err
	}
	rec.Date = internal.NormalizeDay(rec.Date)
	return &rec, nil
}

func (p *PostgresStorage) SaveDayRecord(ctx context.Context, rec *internal.DayRecord) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO day_records (day, is_good_day, locked_at) VALUES ($1, $2, $3)
		ON CONFLICT (day) DO UPDATE SET is_good_day = $2, locked_at = $3`,
		internal.NormalizeDay(rec.Date), rec.IsGoodDay, rec.LockedAt)
	if err != nil {
		p.logger.Errorf("failed to upsert day record: %v", err)
	}
	return err
}

// --- Compile-time assertions ---
var _ HabitRepository = (*PostgresStorage)(nil)
var _ GroupRepository = (*PostgresStorage)(nil)
var _ DayRecordRepository = (*PostgresStorage)(nil)
