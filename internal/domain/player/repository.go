package player

import "context"

type Repository interface {
	List(ctx context.Context) ([]Player, error)
	ListByIDs(ctx context.Context, ids []string) ([]Player, error)
	Upsert(ctx context.Context, players ...Player) error
}
