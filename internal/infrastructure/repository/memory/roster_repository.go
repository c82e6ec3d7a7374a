package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/roster"
)

type RosterRepository struct {
	store *Store
}

func NewRosterRepository(store *Store) *RosterRepository {
	return &RosterRepository{store: store}
}

func (r *RosterRepository) ListByTeam(_ context.Context, teamID int64) ([]roster.Entry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]roster.Entry, 0)
	for key, entry := range r.store.roster {
		if key.teamID == teamID {
			out = append(out, entry)
		}
	}
	sortEntries(out)
	return out, nil
}

func (r *RosterRepository) ListAll(_ context.Context) ([]roster.Entry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]roster.Entry, 0, len(r.store.roster))
	for _, entry := range r.store.roster {
		out = append(out, entry)
	}
	sortEntries(out)
	return out, nil
}

func (r *RosterRepository) Get(_ context.Context, teamID int64, playerID string) (roster.Entry, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	entry, ok := r.store.roster[rosterKey{teamID: teamID, playerID: playerID}]
	return entry, ok, nil
}

func (r *RosterRepository) Save(_ context.Context, entries ...roster.Entry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, entry := range entries {
		r.store.roster[rosterKey{teamID: entry.TeamID, playerID: entry.PlayerID}] = entry
	}
	return nil
}

func (r *RosterRepository) Delete(_ context.Context, teamID int64, playerID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.roster, rosterKey{teamID: teamID, playerID: playerID})
	return nil
}

func sortEntries(entries []roster.Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TeamID != entries[j].TeamID {
			return entries[i].TeamID < entries[j].TeamID
		}
		return entries[i].PlayerID < entries[j].PlayerID
	})
}
