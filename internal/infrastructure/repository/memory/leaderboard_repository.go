package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/leaderboard"
)

type LeaderboardRepository struct {
	store *Store
}

func NewLeaderboardRepository(store *Store) *LeaderboardRepository {
	return &LeaderboardRepository{store: store}
}

// ListTeamMatchPoints fills MatchStartTime from the stored match.
func (r *LeaderboardRepository) ListTeamMatchPoints(_ context.Context) ([]leaderboard.TeamMatchPoints, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]leaderboard.TeamMatchPoints, 0, len(r.store.teamPoints))
	for _, row := range r.store.teamPoints {
		if item, ok := r.store.matches[row.MatchID]; ok {
			row.MatchStartTime = item.StartTime
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MatchID != out[j].MatchID {
			return out[i].MatchID < out[j].MatchID
		}
		return out[i].TeamID < out[j].TeamID
	})
	return out, nil
}

func (r *LeaderboardRepository) Replace(_ context.Context, entries []leaderboard.Entry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	board := make(map[int64]leaderboard.Entry, len(entries))
	for _, entry := range entries {
		board[entry.TeamID] = entry
	}
	r.store.board = board
	return nil
}

func (r *LeaderboardRepository) List(_ context.Context) ([]leaderboard.Entry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]leaderboard.Entry, 0, len(r.store.board))
	for _, entry := range r.store.board {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalPoints != out[j].TotalPoints {
			return out[i].TotalPoints > out[j].TotalPoints
		}
		return out[i].TeamID < out[j].TeamID
	})
	return out, nil
}
