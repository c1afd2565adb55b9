package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/SashaSaw/Habitat-sub001/internal"
)

// SQLiteStorage is the embedded single-file backend. Days are stored as
// YYYY-MM-DD text, timestamps as RFC3339 text, member id lists as JSON.
type SQLiteStorage struct {
	db     *sql.DB
	logger internal.Logger
}

func NewSQLiteStorage(path string, logger internal.Logger) (*SQLiteStorage, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		logger.Errorf("failed to open sqlite database: %v", err)
		return nil, err
	}
	s := &SQLiteStorage{db: db, logger: logger}
	if err := s.ensureSchema(context.Background()); err != nil {
		logger.Errorf("failed to ensure schema: %v", err)
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStorage) ensureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS habits (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	tier TEXT NOT NULL,
	type TEXT NOT NULL,
	frequency_type TEXT NOT NULL,
	frequency_target INTEGER NOT NULL DEFAULT 1,
	is_active INTEGER NOT NULL DEFAULT 1,
	group_id TEXT,
	created_at TEXT NOT NULL,
	current_streak INTEGER NOT NULL DEFAULT 0,
	best_streak INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS daily_logs (
	id TEXT PRIMARY KEY,
	habit_id TEXT NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
	day TEXT NOT NULL,
	completed INTEGER NOT NULL,
	note TEXT NOT NULL DEFAULT '',
	photo_ref TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	UNIQUE (habit_id, day)
);
CREATE TABLE IF NOT EXISTS habit_groups (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	tier TEXT NOT NULL,
	require_count INTEGER NOT NULL,
	habit_ids TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS day_records (
	day TEXT PRIMARY KEY,
	is_good_day INTEGER NOT NULL,
	locked_at TEXT
);`)
	return err
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// --- HabitRepository ---

func (s *SQLiteStorage) SaveHabit(ctx context.Context, habit *internal.Habit) error {
	var groupID sql.NullString
	if habit.GroupID != nil {
		groupID = sql.NullString{String: *habit.GroupID, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO habits (id, name, tier, type, frequency_type, frequency_target, is_active, group_id, created_at, current_streak, best_streak)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name, tier = excluded.tier, type = excluded.type,
			frequency_type = excluded.frequency_type, frequency_target = excluded.frequency_target,
			is_active = excluded.is_active, group_id = excluded.group_id,
			current_streak = excluded.current_streak, best_streak = excluded.best_streak`,
		habit.ID, habit.Name, habit.Tier, habit.Type, habit.FrequencyType, habit.FrequencyTarget,
		habit.IsActive, groupID, habit.CreatedAt.Format(time.RFC3339), habit.CurrentStreak, habit.BestStreak)
	if err != nil {
		s.logger.Errorf("failed to upsert habit: %v", err)
	}
	return err
}

func (s *SQLiteStorage) scanHabit(row interface{ Scan(...interface{}) error }) (*internal.Habit, error) {
	var h internal.Habit
	var groupID sql.NullString
	var createdAt string
	if err := row.Scan(&h.ID, &h.Name, &h.Tier, &h.Type, &h.FrequencyType, &h.FrequencyTarget, &h.IsActive, &groupID, &createdAt, &h.CurrentStreak, &h.BestStreak); err != nil {
		return nil, err
	}
	if groupID.Valid {
		h.GroupID = &groupID.String
	}
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, err
	}
	h.CreatedAt = t
	return &h, nil
}

func (s *SQLiteStorage) GetHabit(ctx context.Context, id string) (*internal.Habit, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, tier, type, frequency_type, frequency_target, is_active, group_id, created_at, current_streak, best_streak FROM habits WHERE id = ?`, id)
	h, err := s.scanHabit(row)
	if err != nil {
		s.logger.Errorf("habit not found: %v", err)
		return nil, err
	}
	logs, err := s.listLogs(ctx, id)
	if err != nil {
		return nil, err
	}
	h.Logs = logs
	return h, nil
}

func (s *SQLiteStorage) ListHabits(ctx context.Context) ([]internal.Habit, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, tier, type, frequency_type, frequency_target, is_active, group_id, created_at, current_streak, best_streak FROM habits ORDER BY created_at`)
	if err != nil {
		s.logger.Errorf("failed to query habits: %v", err)
		return nil, err
	}
	defer rows.Close()

	var habits []internal.Habit
	index := make(map[string]int)
	for rows.Next() {
		h, err := s.scanHabit(rows)
		if err != nil {
			s.logger.Errorf("failed to scan habit: %v", err)
			return nil, err
		}
		index[h.ID] = len(habits)
		habits = append(habits, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	logRows, err := s.db.QueryContext(ctx, `SELECT id, habit_id, day, completed, note, photo_ref, created_at FROM daily_logs ORDER BY day`)
	if err != nil {
		s.logger.Errorf("failed to query daily logs: %v", err)
		return nil, err
	}
	defer logRows.Close()
	for logRows.Next() {
		l, err := scanLog(logRows)
		if err != nil {
			s.logger.Errorf("failed to scan daily log: %v", err)
			return nil, err
		}
		if i, ok := index[l.HabitID]; ok {
			habits[i].Logs = append(habits[i].Logs, *l)
		}
	}
	return habits, logRows.Err()
}

func (s *SQLiteStorage) DeleteHabit(ctx context.Context, id string) error {
	// No PRAGMA foreign_keys by default; cascade by hand.
	if _, err := s.db.ExecContext(ctx, `DELETE FROM daily_logs WHERE habit_id = ?`, id); err != nil {
		s.logger.Errorf("failed to delete daily logs: %v", err)
		return err
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM habits WHERE id = ?`, id)
	if err != nil {
		s.logger.Errorf("failed to delete habit: %v", err)
	}
	return err
}

func (s *SQLiteStorage) SaveDailyLog(ctx context.Context, log *internal.DailyLog) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO daily_logs (id, habit_id, day, completed, note, photo_ref, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (habit_id, day) DO UPDATE SET completed = excluded.completed, note = excluded.note, photo_ref = excluded.photo_ref`,
		log.ID, log.HabitID, internal.FormatDay(log.Date), log.Completed, log.Note, log.PhotoRef, log.CreatedAt.Format(time.RFC3339))
	if err != nil {
		s.logger.Errorf("failed to upsert daily log: %v", err)
	}
	return err
}

func scanLog(row interface{ Scan(...interface{}) error }) (*internal.DailyLog, error) {
	var l internal.DailyLog
	var day, createdAt string
	if err := row.Scan(&l.ID, &l.HabitID, &day, &l.Completed, &l.Note, &l.PhotoRef, &createdAt); err != nil {
		return nil, err
	}
	d, err := internal.ParseDay(day)
	if err != nil {
		return nil, err
	}
	l.Date = d
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, err
	}
	l.CreatedAt = t
	return &l, nil
}

func (s *SQLiteStorage) listLogs(ctx context.Context, habitID string) ([]internal.DailyLog, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, habit_id, day, completed, note, photo_ref, created_at FROM daily_logs WHERE habit_id = ? ORDER BY day`, habitID)
	if err != nil {
		s.logger.Errorf("failed to query daily logs: %v", err)
		return nil, err
	}
	defer rows.Close()

	var logs []internal.DailyLog
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			s.logger.Errorf("failed to scan daily log: %v", err)
			return nil, err
		}
		logs = append(logs, *l)
	}
	return logs, rows.Err()
}

// --- GroupRepository ---

func (s *SQLiteStorage) SaveGroup(ctx context.Context, group *internal.HabitGroup) error {
	ids, err := json.Marshal(group.HabitIDs)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO habit_groups (id, name, tier, require_count, habit_ids, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name, tier = excluded.tier, require_count = excluded.require_count, habit_ids = excluded.habit_ids`,
		group.ID, group.Name, group.Tier, group.RequireCount, string(ids), group.CreatedAt.Format(time.RFC3339))
	if err != nil {
		s.logger.Errorf("failed to upsert group: %v", err)
	}
	return err
}

func scanGroup(row interface{ Scan(...interface{}) error }) (*internal.HabitGroup, error) {
	var g internal.HabitGroup
	var ids, createdAt string
	if err := row.Scan(&g.ID, &g.Name, &g.Tier, &g.RequireCount, &ids, &createdAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(ids), &g.HabitIDs); err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, err
	}
	g.CreatedAt = t
	return &g, nil
}

func (s *SQLiteStorage) GetGroup(ctx context.Context, id string) (*internal.HabitGroup, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, tier, require_count, habit_ids, created_at FROM habit_groups WHERE id = ?`, id)
	g, err := scanGroup(row)
	if err != nil {
		s.logger.Errorf("group not found: %v", err)
		return nil, err
	}
	return g, nil
}

func (s *SQLiteStorage) ListGroups(ctx context.Context) ([]internal.HabitGroup, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, tier, require_count, habit_ids, created_at FROM habit_groups ORDER BY created_at`)
	if err != nil {
		s.logger.Errorf("failed to query groups: %v", err)
		return nil, err
	}
	defer rows.Close()

	var groups []internal.HabitGroup
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			s.logger.Errorf("failed to scan group: %v", err)
			return nil, err
		}
		groups = append(groups, *g)
	}
	return groups, rows.Err()
}

func (s *SQLiteStorage) DeleteGroup(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM habit_groups WHERE id = ?`, id)
	if err != nil {
		s.logger.Errorf("failed to delete group: %v", err)
	}
	return err
}

// --- DayRecordRepository ---

func (s *SQLiteStorage) GetDayRecord(ctx context.Context, day time.Time) (*internal.DayRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT day, is_good_day, locked_at FROM day_records WHERE day = ?`, internal.FormatDay(day))
	var rec internal.DayRecord
	var dayStr string
	var lockedAt sql.NullString
	if err := row.Scan(&dayStr, &rec.IsGoodDay, &lockedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		s.logger.Errorf("failed to scan day record: %v", err)
		return nil, err
	}
	d, err := internal.ParseDay(dayStr)
	if err != nil {
		return nil, err
	}
	rec.Date = d
	if lockedAt.Valid {
		t, err := time.Parse(time.RFC3339, lockedAt.String)
		if err != nil {
			return nil, err
		}
		rec.LockedAt = &t
	}
	return &rec, nil
}

func (s *SQLiteStorage) SaveDayRecord(ctx context.Context, rec *internal.DayRecord) error {
	var lockedAt sql.NullString
	if rec.LockedAt != nil {
		lockedAt = sql.NullString{String: rec.LockedAt.UTC().Format(time.RFC3339), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO day_records (day, is_good_day, locked_at) VALUES (?, ?, ?)
		ON CONFLICT (day) DO UPDATE SET is_good_day = excluded.is_good_day, locked_at = excluded.locked_at`,
		internal.FormatDay(rec.Date), rec.IsGoodDay, lockedAt)
	if err != nil {
		s.logger.Errorf("failed to upsert day record: %v", err)
	}
	return err
}

// --- Compile-time assertions ---
var _ HabitRepository = (*SQLiteStorage)(nil)
var _ GroupRepository = (*SQLiteStorage)(nil)
var _ DayRecordRepository = (*SQLiteStorage)(nil)
