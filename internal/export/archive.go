package export

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/salon-manager/internal/infra/storage"
)

// Archiver keeps generated files in object storage and hands out short-lived
// download links.
type Archiver struct {
	store storage.ObjectStore
	ttl   time.Duration
}

func NewArchiver(store storage.ObjectStore, ttl time.Duration) *Archiver {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Archiver{store: store, ttl: ttl}
}

// Archive uploads data and returns the object key and a presigned URL.
func (a *Archiver) Archive(
	ctx context.Context,
	salonID uint,
	filename string,
	contentType string,
	data []byte,
) (string, string, error) {

	key := fmt.Sprintf("exports/%d/%s/%s-%s",
		salonID,
		time.Now().UTC().Format("2006/01"),
		uuid.NewString(),
		filename,
	)

	if _, err := a.store.Put(ctx, key, contentType, data); err != nil {
		return "", "", err
	}

	url, err := a.store.PresignGet(ctx, key, a.ttl)
	if err != nil {
		return "", "", err
	}
	return key, url, nil
}
