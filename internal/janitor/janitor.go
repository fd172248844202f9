// Package janitor removes orphaned objects from the media bucket. Upload
// failures and in-place replacements can leave objects behind that no
// registry row references anymore; an hourly sweep deletes them once they
// are old enough to rule out an upload still in flight.
package janitor

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"spacecms/internal/storage"
	"spacecms/internal/store"
)

// graceAge is how old an unreferenced object must be before the sweep
// deletes it. Young orphans may belong to an upload whose database row
// has not committed yet.
const graceAge = 24 * time.Hour

// thumbSuffix matches the derived thumbnail objects written next to
// uploaded images.
const thumbSuffix = "_thumb.jpg"

// Janitor runs the periodic bucket sweep.
type Janitor struct {
	media   *store.MediaStore
	storage *storage.Client
	cron    *cron.Cron
}

// New creates a Janitor. storageClient may be nil when object storage is
// not configured; Start then becomes a no-op.
func New(media *store.MediaStore, storageClient *storage.Client) *Janitor {
	return &Janitor{
		media:   media,
		storage: storageClient,
		cron:    cron.New(),
	}
}

// Start schedules the hourly sweep.
func (j *Janitor) Start() error {
	if j.storage == nil {
		slog.Info("janitor disabled, object storage not configured")
		return nil
	}

	_, err := j.cron.AddFunc("@hourly", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		removed, err := j.Sweep(ctx)
		if err != nil {
			slog.Error("janitor sweep failed", "error", err)
			return
		}
		if removed > 0 {
			slog.Info("janitor sweep complete", "removed", removed)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	slog.Info("janitor started", "schedule", "hourly")
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (j *Janitor) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
}

// Sweep deletes bucket objects that no media row references and that are
// older than the grace period. Soft-deleted rows still pin their objects;
// only rows removed outright release them. Returns the number of objects
// deleted.
func (j *Janitor) Sweep(ctx context.Context) (int, error) {
	referenced, err := j.media.AllKeys()
	if err != nil {
		return 0, err
	}
	pinned := pinnedKeys(referenced)

	objects, err := j.storage.List(ctx, "")
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-graceAge)
	removed := 0
	for _, obj := range objects {
		if pinned[obj.Key] {
			continue
		}
		if obj.LastModified.After(cutoff) {
			continue
		}
		if err := j.storage.Delete(ctx, obj.Key); err != nil {
			slog.Warn("janitor delete failed", "key", obj.Key, "error", err)
			continue
		}
		slog.Info("janitor removed orphan", "key", obj.Key)
		removed++
	}
	return removed, nil
}

// pinnedKeys expands the referenced object keys with their derived
// thumbnail keys, so a live image keeps its thumbnail too.
func pinnedKeys(referenced map[string]bool) map[string]bool {
	pinned := make(map[string]bool, len(referenced)*2)
	for key := range referenced {
		pinned[key] = true
		pinned[thumbKey(key)] = true
	}
	return pinned
}

// thumbKey mirrors the thumbnail naming used at upload time: the object
// key with its extension replaced by the thumb suffix.
func thumbKey(key string) string {
	if i := strings.LastIndex(key, "."); i > strings.LastIndex(key, "/") {
		return key[:i] + thumbSuffix
	}
	return key + thumbSuffix
}
