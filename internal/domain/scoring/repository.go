package scoring

import "context"

type Repository interface {
	SaveMatchResult(ctx context.Context, result MatchResult) error
	ListPlayerPointsByMatch(ctx context.Context, matchID string) ([]PlayerMatchPoints, error)
	ListPlayerPoints(ctx context.Context) ([]PlayerMatchPoints, error)
}
