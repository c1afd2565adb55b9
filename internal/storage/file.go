package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/SashaSaw/Habitat-sub001/internal"
)

// FileStorage keeps the whole store in memory and persists it as JSON
// documents, one file per collection. Writes are debounced through a
// background worker and flushed synchronously on Close.
type FileStorage struct {
	habits map[string]*internal.Habit      // id -> habit (logs embedded)
	groups map[string]*internal.HabitGroup // id -> group
	days   map[string]*internal.DayRecord  // day key -> record

	mu           sync.RWMutex
	habitsFile   string
	groupsFile   string
	daysFile     string
	saveChan     chan struct{}
	shutdownChan chan struct{}
	saveDelay    time.Duration
	logger       internal.Logger
}

func NewFileStorage(dataDir string, logger internal.Logger) (*FileStorage, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}
	s := &FileStorage{
		habits:       make(map[string]*internal.Habit),
		groups:       make(map[string]*internal.HabitGroup),
		days:         make(map[string]*internal.DayRecord),
		habitsFile:   filepath.Join(dataDir, "habits.json"),
		groupsFile:   filepath.Join(dataDir, "groups.json"),
		daysFile:     filepath.Join(dataDir, "days.json"),
		saveChan:     make(chan struct{}, 1),
		shutdownChan: make(chan struct{}),
		saveDelay:    500 * time.Millisecond,
		logger:       logger,
	}

	if err := s.load(); err != nil {
		logger.Errorf("storage: failed to load data files: %v", err)
		return nil, err
	}

	go s.saveWorker()

	return s, nil
}

func readJSONFile(path string, out interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

func (s *FileStorage) load() error {
	var habits []*internal.Habit
	if err := readJSONFile(s.habitsFile, &habits); err != nil {
		return err
	}
	var groups []*internal.HabitGroup
	if err := readJSONFile(s.groupsFile, &groups); err != nil {
		return err
	}
	var days []*internal.DayRecord
	if err := readJSONFile(s.daysFile, &days); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range habits {
		sortLogs(h.Logs)
		s.habits[h.ID] = h
	}
	for _, g := range groups {
		s.groups[g.ID] = g
	}
	for _, d := range days {
		s.days[internal.FormatDay(d.Date)] = d
	}
	return nil
}

func atomicWriteFileJSON(filePath string, data interface{}) error {
	tempFile := filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, filePath)
}

func (s *FileStorage) save() error {
	s.mu.RLock()
	habits := make([]*internal.Habit, 0, len(s.habits))
	for _, h := range s.habits {
		habits = append(habits, h)
	}
	groups := make([]*internal.HabitGroup, 0, len(s.groups))
	for _, g := range s.groups {
		groups = append(groups, g)
	}
	days := make([]*internal.DayRecord, 0, len(s.days))
	for _, d := range s.days {
		days = append(days, d)
	}
	s.mu.RUnlock()

	if err := atomicWriteFileJSON(s.habitsFile, habits); err != nil {
		return err
	}
	if err := atomicWriteFileJSON(s.groupsFile, groups); err != nil {
		return err
	}
	return atomicWriteFileJSON(s.daysFile, days)
}

func (s *FileStorage) saveWorker() {
	timer := time.NewTimer(s.saveDelay)
	defer timer.Stop()

	for {
		select {
		case <-s.saveChan:
			timer.Reset(s.saveDelay)
		case <-timer.C:
			if err := s.save(); err != nil {
				s.logger.Errorf("storage: error saving data files: %v", err)
			}
		case <-s.shutdownChan:
			return
		}
	}
}

func (s *FileStorage) markDirty() {
	select {
	case s.saveChan <- struct{}{}:
	default:
	}
}

func (s *FileStorage) Close() error {
	close(s.shutdownChan)
	return s.save()
}

// --- HabitRepository ---

func (s *FileStorage) SaveHabit(ctx context.Context, habit *internal.Habit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := cloneHabit(habit)
	if existing, ok := s.habits[h.ID]; ok && habit.Logs == nil {
		// CRUD updates carry no logs; keep the ones already stored.
		h.Logs = existing.Logs
	}
	sortLogs(h.Logs)
	s.habits[h.ID] = h
	s.markDirty()
	return nil
}

func (s *FileStorage) GetHabit(ctx context.Context, id string) (*internal.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.habits[id]
	if !ok {
		return nil, errors.New("storage: habit not found")
	}
	return cloneHabit(h), nil
}

func (s *FileStorage) ListHabits(ctx context.Context) ([]internal.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	habits := make([]internal.Habit, 0, len(s.habits))
	for _, h := range s.habits {
		habits = append(habits, *cloneHabit(h))
	}
	sort.Slice(habits, func(i, j int) bool {
		return habits[i].CreatedAt.Before(habits[j].CreatedAt)
	})
	return habits, nil
}

func (s *FileStorage) DeleteHabit(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.habits[id]; !ok {
		return errors.New("storage: habit not found")
	}
	delete(s.habits, id)
	s.markDirty()
	return nil
}

func (s *FileStorage) SaveDailyLog(ctx context.Context, log *internal.DailyLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.habits[log.HabitID]
	if !ok {
		return errors.New("storage: habit not found")
	}
	l := *log
	l.Date = internal.NormalizeDay(l.Date)
	replaced := false
	for i := range h.Logs {
		if internal.SameDay(h.Logs[i].Date, l.Date) {
			l.ID = h.Logs[i].ID
			l.CreatedAt = h.Logs[i].CreatedAt
			h.Logs[i] = l
			replaced = true
			break
		}
	}
	if !replaced {
		h.Logs = append(h.Logs, l)
		sortLogs(h.Logs)
	}
	s.markDirty()
	return nil
}

// --- GroupRepository ---

func (s *FileStorage) SaveGroup(ctx context.Context, group *internal.HabitGroup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := *group
	g.HabitIDs = append([]string(nil), group.HabitIDs...)
	s.groups[g.ID] = &g
	s.markDirty()
	return nil
}

func (s *FileStorage) GetGroup(ctx context.Context, id string) (*internal.HabitGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.groups[id]
	if !ok {
		return nil, errors.New("storage: group not found")
	}
	cp := *g
	cp.HabitIDs = append([]string(nil), g.HabitIDs...)
	return &cp, nil
}

func (s *FileStorage) ListGroups(ctx context.Context) ([]internal.HabitGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	groups := make([]internal.HabitGroup, 0, len(s.groups))
	for _, g := range s.groups {
		cp := *g
		cp.HabitIDs = append([]string(nil), g.HabitIDs...)
		groups = append(groups, cp)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].CreatedAt.Before(groups[j].CreatedAt)
	})
	return groups, nil
}

func (s *FileStorage) DeleteGroup(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[id]; !ok {
		return errors.New("storage: group not found")
	}
	delete(s.groups, id)
	s.markDirty()
	return nil
}

// --- DayRecordRepository ---

func (s *FileStorage) GetDayRecord(ctx context.Context, day time.Time) (*internal.DayRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.days[internal.FormatDay(day)]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (s *FileStorage) SaveDayRecord(ctx context.Context, rec *internal.DayRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	cp.Date = internal.NormalizeDay(cp.Date)
	s.days[internal.FormatDay(cp.Date)] = &cp
	s.markDirty()
	return nil
}

func cloneHabit(h *internal.Habit) *internal.Habit {
	cp := *h
	cp.Logs = append([]internal.DailyLog(nil), h.Logs...)
	if h.GroupID != nil {
		gid := *h.GroupID
		cp.GroupID = &gid
	}
	return &cp
}

func sortLogs(logs []internal.DailyLog) {
	sort.Slice(logs, func(i, j int) bool {
		return logs[i].Date.Before(logs[j].Date)
	})
}

// --- Compile-time assertions ---
var _ HabitRepository = (*FileStorage)(nil)
var _ GroupRepository = (*FileStorage)(nil)
var _ DayRecordRepository = (*FileStorage)(nil)
