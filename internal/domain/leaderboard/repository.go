package leaderboard

import "context"

type Repository interface {
	ListTeamMatchPoints(ctx context.Context) ([]TeamMatchPoints, error)
	// Replace upserts every entry by team id in one atomic write.
	Replace(ctx context.Context, entries []Entry) error
	List(ctx context.Context) ([]Entry, error)
}
