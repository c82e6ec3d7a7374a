package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/team"
)

type TeamRepository struct {
	store *Store
}

func NewTeamRepository(store *Store) *TeamRepository {
	return &TeamRepository{store: store}
}

func (r *TeamRepository) List(_ context.Context) ([]team.Team, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]team.Team, 0, len(r.store.teams))
	for _, item := range r.store.teams {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *TeamRepository) GetByID(_ context.Context, id int64) (team.Team, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.teams[id]
	return item, ok, nil
}

func (r *TeamRepository) UpsertByOwner(_ context.Context, item team.Team) (team.Team, error) {
	owner := strings.TrimSpace(item.Owner)
	if owner == "" {
		return team.Team{}, fmt.Errorf("team owner is required")
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := r.store.now().UTC()
	for id, existing := range r.store.teams {
		if existing.Owner != owner {
			continue
		}
		existing.Name = item.Name
		existing.ManualAdjustment = item.ManualAdjustment
		existing.UpdatedAt = now
		r.store.teams[id] = existing
		return existing, nil
	}

	r.store.nextTeamID++
	item.ID = r.store.nextTeamID
	item.Owner = owner
	item.CreatedAt = now
	item.UpdatedAt = now
	r.store.teams[item.ID] = item
	return item, nil
}

func (r *TeamRepository) SetManualAdjustment(_ context.Context, id int64, points float64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	item, ok := r.store.teams[id]
	if !ok {
		return fmt.Errorf("team id=%d not found", id)
	}
	item.ManualAdjustment = points
	item.UpdatedAt = r.store.now().UTC()
	r.store.teams[id] = item
	return nil
}
