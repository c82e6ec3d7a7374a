package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/scoring"
)

type ScoringRepository struct {
	store *Store
}

func NewScoringRepository(store *Store) *ScoringRepository {
	return &ScoringRepository{store: store}
}

// SaveMatchResult writes the whole result under the store lock. Players
// already registered keep their stored role and name.
func (r *ScoringRepository) SaveMatchResult(_ context.Context, result scoring.MatchResult) error {
	if result.Match.ID == "" {
		return fmt.Errorf("match id is required")
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.matches[result.Match.ID] = result.Match
	for _, item := range result.Players {
		if _, ok := r.store.players[item.ID]; !ok {
			r.store.players[item.ID] = item
		}
	}
	for _, row := range result.PlayerPoints {
		r.store.playerPoints[playerPointsKey{matchID: row.MatchID, playerID: row.PlayerID}] = row
	}
	for _, row := range result.TeamPoints {
		r.store.teamPoints[teamPointsKey{teamID: row.TeamID, matchID: row.MatchID}] = row
	}
	return nil
}

func (r *ScoringRepository) ListPlayerPointsByMatch(_ context.Context, matchID string) ([]scoring.PlayerMatchPoints, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]scoring.PlayerMatchPoints, 0)
	for key, row := range r.store.playerPoints {
		if key.matchID == matchID {
			out = append(out, row)
		}
	}
	sortPlayerPoints(out)
	return out, nil
}

func (r *ScoringRepository) ListPlayerPoints(_ context.Context) ([]scoring.PlayerMatchPoints, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]scoring.PlayerMatchPoints, 0, len(r.store.playerPoints))
	for _, row := range r.store.playerPoints {
		out = append(out, row)
	}
	sortPlayerPoints(out)
	return out, nil
}

func sortPlayerPoints(rows []scoring.PlayerMatchPoints) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].MatchID != rows[j].MatchID {
			return rows[i].MatchID < rows[j].MatchID
		}
		return rows[i].PlayerID < rows[j].PlayerID
	})
}
