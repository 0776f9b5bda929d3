package recommend

import "context"

type NoopPublisher struct{}

func (NoopPublisher) EmbeddingsSynced(ctx context.Context, res SyncResult) error {
	return nil
}
