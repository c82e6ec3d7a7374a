package roster

import "context"

type Repository interface {
	ListByTeam(ctx context.Context, teamID int64) ([]Entry, error)
	ListAll(ctx context.Context) ([]Entry, error)
	Get(ctx context.Context, teamID int64, playerID string) (Entry, bool, error)
	// Save upserts every entry by (team, player) in one atomic write.
	Save(ctx context.Context, entries ...Entry) error
	Delete(ctx context.Context, teamID int64, playerID string) error
}
