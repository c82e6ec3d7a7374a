package memory

import (
	"context"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/syncstate"
)

type SyncStateRepository struct {
	store *Store
}

func NewSyncStateRepository(store *Store) *SyncStateRepository {
	return &SyncStateRepository{store: store}
}

func (r *SyncStateRepository) Get(_ context.Context) (syncstate.Watermark, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.store.watermark, nil
}

func (r *SyncStateRepository) Save(_ context.Context, watermark syncstate.Watermark) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.watermark = watermark
	return nil
}
