package team

import "context"

type Repository interface {
	List(ctx context.Context) ([]Team, error)
	GetByID(ctx context.Context, id int64) (Team, bool, error)
	// UpsertByOwner creates or renames the owner's team and returns it with its id.
	UpsertByOwner(ctx context.Context, item Team) (Team, error)
	SetManualAdjustment(ctx context.Context, id int64, points float64) error
}
