package ingest

import (
	"context"

	"golang.org/x/sync/errgroup"

	"humanizer/internal/logging"
)

// LoadAll loads paths concurrently with at most limit files in flight. Documents
// come back in input order. The first failure cancels the remaining loads.
func LoadAll(ctx context.Context, paths []string, limit int) ([]*Document, error) {
	if limit < 1 {
		limit = 1
	}
	docs := make([]*Document, len(paths))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)
	for i, path := range paths {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			doc, err := Load(path)
			if err != nil {
				logging.IngestWarn("failed to load %s: %v", path, err)
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	logging.IngestDebug("loaded %d documents (limit %d)", len(docs), limit)
	return docs, nil
}
