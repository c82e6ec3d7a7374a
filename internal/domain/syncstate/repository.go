package syncstate

import "context"

type Repository interface {
	Get(ctx context.Context) (Watermark, error)
	Save(ctx context.Context, watermark Watermark) error
}
