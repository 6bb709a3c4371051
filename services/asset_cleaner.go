package services

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"product-catalog/libs"
)

// assetCleaner removes stored assets no product refers to any more.
// Failures are logged; product operations do not fail because of them.
type assetCleaner struct {
	resolver *libs.ImageResolver
	stores   libs.AssetStores
	limit    int
	log      *zap.Logger
}

// Cleanup deletes every owned reference in refs once, concurrently, and
// returns the combined error of the deletions that failed.
func (c *assetCleaner) Cleanup(ctx context.Context, refs []string) error {
	type job struct {
		ref   string
		store libs.AssetStore
	}

	seen := make(map[string]struct{}, len(refs))
	jobs := make([]job, 0, len(refs))
	var errs error

	for _, ref := range refs {
		if ref == "" {
			continue
		}
		if _, dup := seen[ref]; dup {
			continue
		}
		seen[ref] = struct{}{}

		kind := c.resolver.Classify(ref)
		if !kind.Owned() {
			continue
		}
		store := c.stores.For(kind, ref)
		if store == nil {
			c.log.Warn("No store owns image reference, skipping",
				zap.String("ref", ref), zap.Stringer("kind", kind))
			continue
		}
		jobs = append(jobs, job{ref: ref, store: store})
	}
	if len(jobs) == 0 {
		return nil
	}

	results := make([]error, len(jobs))
	var g errgroup.Group
	if c.limit > 0 {
		g.SetLimit(c.limit)
	}
	for i, j := range jobs {
		g.Go(func() error {
			results[i] = j.store.Delete(ctx, j.ref)
			return nil
		})
	}
	_ = g.Wait()

	for i, err := range results {
		switch {
		case err == nil:
		case errors.Is(err, libs.ErrAssetNotFound):
			c.log.Debug("Image already gone", zap.String("ref", jobs[i].ref))
		default:
			errs = multierr.Append(errs, errors.Wrap(err, jobs[i].ref))
		}
	}

	if errs != nil {
		c.log.Warn("Image cleanup incomplete",
			zap.Int("failed", len(multierr.Errors(errs))),
			zap.Int("total", len(jobs)),
			zap.Error(errs),
		)
	}
	return errs
}

// orphaned returns the owned references of before that after no longer holds.
func orphaned(resolver *libs.ImageResolver, before, after []string) []string {
	keep := make(map[string]struct{}, len(after))
	for _, ref := range after {
		keep[ref] = struct{}{}
	}

	var out []string
	for _, ref := range before {
		if _, ok := keep[ref]; ok {
			continue
		}
		if resolver.Classify(ref).Owned() {
			out = append(out, ref)
		}
	}
	return out
}
