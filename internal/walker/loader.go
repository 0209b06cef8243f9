package walker

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"arcdiff/internal/model"
	"arcdiff/internal/progress"
)

// LoadFunc turns one file into archives. It owns any handle it opens on the
// file and must close it before returning.
type LoadFunc func(ctx context.Context, file FileInfo) ([]model.Archive, error)

// Loaded is one successfully loaded file.
type Loaded struct {
	File     FileInfo
	Digest   string
	Archives []model.Archive
}

type LoadResult struct {
	// Loaded is sorted by path.
	Loaded []Loaded
	Errors []error
}

// LoadFiles runs load over files with at most numWorkers in flight. Per-file
// failures are collected in Errors; only cancellation of ctx fails the call.
func LoadFiles(ctx context.Context, files []FileInfo, numWorkers int, load LoadFunc, progressBar *progress.Bar) (*LoadResult, error) {
	if numWorkers <= 0 {
		numWorkers = 1
	}

	result := &LoadResult{
		Loaded: make([]Loaded, 0, len(files)),
		Errors: make([]error, 0),
	}
	if len(files) == 0 {
		return result, nil
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(numWorkers)

	for _, file := range files {
		file := file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if progressBar != nil {
				progressBar.Start(file.Path)
				defer progressBar.Done(file.Path)
			}

			loaded, err := loadOne(ctx, file, load)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("%s: %w", file.Path, err))
				return nil
			}
			result.Loaded = append(result.Loaded, loaded)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(result.Loaded, func(i, j int) bool {
		return result.Loaded[i].File.Path < result.Loaded[j].File.Path
	})
	return result, nil
}

func loadOne(ctx context.Context, file FileInfo, load LoadFunc) (Loaded, error) {
	archives, err := load(ctx, file)
	if err != nil {
		return Loaded{}, err
	}
	digest, err := file.Digest()
	if err != nil {
		return Loaded{}, err
	}
	return Loaded{File: file, Digest: digest, Archives: archives}, nil
}
