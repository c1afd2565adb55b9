package service

import (
	"context"
	"sync"
	"time"

	"github.com/SashaSaw/Habitat-sub001/internal"
	"github.com/SashaSaw/Habitat-sub001/internal/storage"
)

// GoodDay decides whether all must-do obligations were met for a date and
// persists that determination. The persisted record is a one-way lock: once a
// day is recorded good it stays good, so later edits to the habit set cannot
// retroactively revoke an earned day.
type GoodDay struct {
	habits storage.HabitRepository
	groups storage.GroupRepository
	days   storage.DayRecordRepository
	logger internal.Logger

	// Serializes the check-then-write in IsGoodDay so two concurrent
	// evaluations of the same fresh day cannot both stamp LockedAt.
	mu  sync.Mutex
	now func() time.Time
}

func NewGoodDay(habits storage.HabitRepository, groups storage.GroupRepository, days storage.DayRecordRepository, logger internal.Logger) *GoodDay {
	return &GoodDay{
		habits: habits,
		groups: groups,
		days:   days,
		logger: logger,
		now:    time.Now,
	}
}

// IsGoodDay reports whether the date qualifies as a good day. A locked record
// short-circuits without recomputation. Otherwise the day is evaluated live
// and, when it qualifies, locked; a negative result writes nothing, so the day
// keeps being re-evaluated until it first succeeds.
func (s *GoodDay) IsGoodDay(ctx context.Context, date time.Time) (bool, error) {
	day := internal.NormalizeDay(date)

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.days.GetDayRecord(ctx, day)
	if err != nil {
		return false, err
	}
	if rec != nil && rec.IsGoodDay {
		return true, nil
	}

	habits, err := s.habits.ListHabits(ctx)
	if err != nil {
		return false, err
	}
	groups, err := s.groups.ListGroups(ctx)
	if err != nil {
		return false, err
	}

	if !evaluateDay(day, habits, groups) {
		return false, nil
	}

	if rec == nil {
		rec = &internal.DayRecord{Date: day}
	}
	rec.IsGoodDay = true
	if rec.LockedAt == nil {
		now := s.now()
		rec.LockedAt = &now
	}
	if err := s.days.SaveDayRecord(ctx, rec); err != nil {
		return false, err
	}
	s.logger.Infof("day %s locked as good", internal.FormatDay(day))
	return true, nil
}

// Streak counts consecutive good days walking backward from the given day.
func (s *GoodDay) Streak(ctx context.Context, asOf time.Time) (int, error) {
	count := 0
	for day := internal.NormalizeDay(asOf); ; day = day.AddDate(0, 0, -1) {
		good, err := s.IsGoodDay(ctx, day)
		if err != nil {
			return 0, err
		}
		if !good {
			return count, nil
		}
		count++
	}
}

// evaluateDay is the live computation: every standalone must-do habit must
// satisfy the day and every must-do group must be satisfied. A date with no
// obligations at all is NOT a good day; zero configured must-dos should not
// produce a streak of free wins.
func evaluateDay(day time.Time, habits []internal.Habit, groups []internal.HabitGroup) bool {
	grouped := make(map[string]bool)
	for i := range groups {
		for _, hid := range groups[i].HabitIDs {
			grouped[hid] = true
		}
	}

	obligations := 0
	for i := range habits {
		h := &habits[i]
		if !standaloneObligation(h, grouped, day) {
			continue
		}
		obligations++
		if !SatisfiesOn(h, day) {
			return false
		}
	}
	for i := range groups {
		g := &groups[i]
		if g.Tier != internal.TierMustDo {
			continue
		}
		// A group with no applicable members on this day is no obligation;
		// it neither blocks nor grants the day.
		if len(ResolveMembers(g, habits, day)) == 0 {
			continue
		}
		obligations++
		if !IsSatisfied(g, habits, day) {
			return false
		}
	}
	return obligations > 0
}

// standaloneObligation filters to the habits that individually gate a good
// day: active must-do recurring habits that are not claimed by any group and
// already existed on the day. Dates before creation are "not yet applicable",
// not incomplete.
func standaloneObligation(h *internal.Habit, grouped map[string]bool, day time.Time) bool {
	if h.Tier != internal.TierMustDo || !h.IsActive {
		return false
	}
	if h.FrequencyType == internal.FrequencyOnce {
		return false
	}
	if h.GroupID != nil || grouped[h.ID] {
		return false
	}
	return !internal.NormalizeDay(h.CreatedAt).After(day)
}
