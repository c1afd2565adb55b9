package storage

import "github.com/SashaSaw/Habitat-sub001/internal"

type Repositories struct {
	Habits HabitRepository
	Groups GroupRepository
	Days   DayRecordRepository
}

func NewFileRepositories(dataDir string, logger internal.Logger) (*Repositories, error) {
	s, err := NewFileStorage(dataDir, logger)
	if err != nil {
		return nil, err
	}
	return &Repositories{Habits: s, Groups: s, Days: s}, nil
}

func NewSQLiteRepositories(path string, logger internal.Logger) (*Repositories, error) {
	s, err := NewSQLiteStorage(path, logger)
	if err != nil {
		return nil, err
	}
	return &Repositories{Habits: s, Groups: s, Days: s}, nil
}

func NewPostgresRepositories(dsn string, logger internal.Logger) (*Repositories, error) {
	s, err := NewPostgresStorage(dsn, logger)
	if err != nil {
		return nil, err
	}
	return &Repositories{Habits: s, Groups: s, Days: s}, nil
}
