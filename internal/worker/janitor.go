// Package worker runs background maintenance jobs.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mmynk/receiptsplit/internal/storage/images"
)

// parser accepts standard 5-field expressions and descriptors like "@hourly".
var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ImageStore is the part of images.Store the janitor needs.
type ImageStore interface {
	List() ([]images.Info, error)
	Delete(name string) error
}

// BillIndex answers whether a saved bill still points at an image.
type BillIndex interface {
	ImageInUse(ctx context.Context, name string) (bool, error)
}

// Janitor deletes uploaded images that no saved bill references once they
// are older than the retention period. Fresh uploads are kept so a receipt
// scanned moments ago survives until its bill is saved.
type Janitor struct {
	images    ImageStore
	bills     BillIndex
	retention time.Duration
	now       func() time.Time
}

// NewJanitor creates a janitor.
func NewJanitor(imgs ImageStore, bills BillIndex, retention time.Duration) *Janitor {
	return &Janitor{images: imgs, bills: bills, retention: retention, now: time.Now}
}

// ValidateSchedule reports whether spec is a usable cron expression.
func ValidateSchedule(spec string) error {
	if _, err := parser.Parse(spec); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", spec, err)
	}
	return nil
}

// Sweep runs one cleanup pass and returns how many images were deleted.
func (j *Janitor) Sweep(ctx context.Context) (int, error) {
	list, err := j.images.List()
	if err != nil {
		return 0, err
	}

	cutoff := j.now().Add(-j.retention)
	deleted := 0
	for _, img := range list {
		if err := ctx.Err(); err != nil {
			return deleted, err
		}
		if img.ModTime.After(cutoff) {
			continue
		}

		inUse, err := j.bills.ImageInUse(ctx, img.Name)
		if err != nil {
			return deleted, err
		}
		if inUse {
			continue
		}

		if err := j.images.Delete(img.Name); err != nil {
			slog.Warn("Janitor failed to delete image", "name", img.Name, "error", err)
			continue
		}
		deleted++
	}
	return deleted, nil
}

// Run sweeps on the given cron schedule until ctx is cancelled, then waits
// for an in-flight sweep to finish.
func (j *Janitor) Run(ctx context.Context, spec string) error {
	c := cron.New(
		cron.WithParser(parser),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	_, err := c.AddFunc(spec, func() {
		start := time.Now()
		n, err := j.Sweep(ctx)
		if err != nil {
			slog.Error("Image sweep failed", "error", err)
			return
		}
		slog.Info("Image sweep done", "deleted", n, "duration_ms", time.Since(start).Milliseconds())
	})
	if err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", spec, err)
	}

	slog.Info("Image janitor scheduled", "schedule", spec, "retention", j.retention)
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}
