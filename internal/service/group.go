package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/SashaSaw/Habitat-sub001/internal"
	"github.com/SashaSaw/Habitat-sub001/internal/storage"
)

type GroupRequest struct {
	Name         string   `json:"name" validate:"required"`
	Tier         string   `json:"tier" validate:"required,oneof=must_do nice_to_do"`
	RequireCount int      `json:"require_count" validate:"required,gte=1"`
	HabitIDs     []string `json:"habit_ids" validate:"required,min=1,unique,dive,required"`
}

func ValidateGroupRequest(req *GroupRequest) error {
	if err := validate.Struct(req); err != nil {
		return err
	}
	if req.RequireCount > len(req.HabitIDs) {
		return errors.New("require_count cannot exceed the number of member habits")
	}
	return nil
}

// CreateGroup creates the group and stamps each member habit's group
// reference. A habit already claimed by another group is rejected; one group
// per habit is enforced here at the write layer, not by the evaluator.
func CreateGroup(ctx context.Context, groupRepo storage.GroupRepository, habitRepo storage.HabitRepository, req *GroupRequest) (*internal.HabitGroup, error) {
	group := &internal.HabitGroup{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Tier:         internal.Tier(req.Tier),
		RequireCount: req.RequireCount,
		HabitIDs:     append([]string(nil), req.HabitIDs...),
		CreatedAt:    time.Now(),
	}
	if err := claimMembers(ctx, habitRepo, group.ID, req.HabitIDs); err != nil {
		return nil, err
	}
	if err := groupRepo.SaveGroup(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// UpdateGroup replaces the group's name, tier, threshold and member set,
// releasing habits that left the group and claiming the new ones.
func UpdateGroup(ctx context.Context, groupRepo storage.GroupRepository, habitRepo storage.HabitRepository, id string, req *GroupRequest) (*internal.HabitGroup, error) {
	group, err := groupRepo.GetGroup(ctx, id)
	if err != nil {
		return nil, err
	}
	keep := make(map[string]bool, len(req.HabitIDs))
	for _, hid := range req.HabitIDs {
		keep[hid] = true
	}
	for _, hid := range group.HabitIDs {
		if !keep[hid] {
			if err := releaseMember(ctx, habitRepo, hid); err != nil {
				return nil, err
			}
		}
	}
	if err := claimMembers(ctx, habitRepo, group.ID, req.HabitIDs); err != nil {
		return nil, err
	}
	group.Name = req.Name
	group.Tier = internal.Tier(req.Tier)
	group.RequireCount = req.RequireCount
	group.HabitIDs = append([]string(nil), req.HabitIDs...)
	if err := groupRepo.SaveGroup(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// DeleteGroup removes the group and clears the members' group references.
func DeleteGroup(ctx context.Context, groupRepo storage.GroupRepository, habitRepo storage.HabitRepository, id string) error {
	group, err := groupRepo.GetGroup(ctx, id)
	if err != nil {
		return err
	}
	for _, hid := range group.HabitIDs {
		if err := releaseMember(ctx, habitRepo, hid); err != nil {
			return err
		}
	}
	return groupRepo.DeleteGroup(ctx, id)
}

func claimMembers(ctx context.Context, habitRepo storage.HabitRepository, groupID string, habitIDs []string) error {
	for _, hid := range habitIDs {
		h, err := habitRepo.GetHabit(ctx, hid)
		if err != nil {
			return err
		}
		if h.GroupID != nil && *h.GroupID != groupID {
			return errors.New("habit " + hid + " already belongs to another group")
		}
		gid := groupID
		h.GroupID = &gid
		if err := habitRepo.SaveHabit(ctx, h); err != nil {
			return err
		}
	}
	return nil
}

func releaseMember(ctx context.Context, habitRepo storage.HabitRepository, habitID string) error {
	h, err := habitRepo.GetHabit(ctx, habitID)
	if err != nil {
		// Stale member references are expected after habit deletion.
		return nil
	}
	h.GroupID = nil
	return habitRepo.SaveHabit(ctx, h)
}

// ResolveMembers maps the group's member ids onto the habit collection for a
// given day. Missing ids are silently skipped (stale references arise from
// ordinary deletion ordering), as are archived habits, one-off habits, habits
// created after the day in question, and duplicated ids.
func ResolveMembers(g *internal.HabitGroup, allHabits []internal.Habit, date time.Time) []*internal.Habit {
	day := internal.NormalizeDay(date)
	byID := make(map[string]*internal.Habit, len(allHabits))
	for i := range allHabits {
		byID[allHabits[i].ID] = &allHabits[i]
	}
	seen := make(map[string]bool, len(g.HabitIDs))
	var members []*internal.Habit
	for _, hid := range g.HabitIDs {
		if seen[hid] {
			continue
		}
		seen[hid] = true
		h, ok := byID[hid]
		if !ok || !h.IsActive || h.FrequencyType == internal.FrequencyOnce {
			continue
		}
		if internal.NormalizeDay(h.CreatedAt).After(day) {
			continue
		}
		members = append(members, h)
	}
	return members
}

// CompletedCount returns how many of the group's members satisfy the day,
// for progress display ("2 of 3 done").
func CompletedCount(g *internal.HabitGroup, allHabits []internal.Habit, date time.Time) int {
	n := 0
	for _, m := range ResolveMembers(g, allHabits, date) {
		if SatisfiesOn(m, date) {
			n++
		}
	}
	return n
}

// IsSatisfied reports whether at least requireCount members satisfy the day.
// The threshold is clamped to [1, len(members)] so bad persisted data degrades
// instead of crashing the query layer.
func IsSatisfied(g *internal.HabitGroup, allHabits []internal.Habit, date time.Time) bool {
	members := ResolveMembers(g, allHabits, date)
	if len(members) == 0 {
		return true
	}
	need := g.RequireCount
	if need < 1 {
		need = 1
	}
	if need > len(members) {
		need = len(members)
	}
	return CompletedCount(g, allHabits, date) >= need
}
