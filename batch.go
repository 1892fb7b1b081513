package swigext

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

// BuildAll builds several sources concurrently.
//
// Each source is built in <root>/<module>, or in its own temporary directory
// when root is empty, so the artifact sets never overlap. Two sources with
// the same module name are rejected before anything runs.
//
// # Concurrency
//
// At most config.Parallel builds run at once (0 = no limit).
//
// # Error Handling
//
// If config.StopOnFailure is true:
//   - The first failure cancels the builds still running or waiting
//   - The first error is returned
//
// If config.StopOnFailure is false:
//   - Every source is built regardless of failures
//   - All errors are returned together as a *multierror.Error
//
// The results slice always has one entry per source, in input order, even
// when an error is returned.
func (b *Builder) BuildAll(ctx context.Context, sources []SourceUnit, root string) ([]*BuildResult, error) {
	if len(sources) == 0 {
		return nil, nil
	}

	dirs, err := batchDirectories(sources, root)
	if err != nil {
		return nil, err
	}

	results := make([]*BuildResult, len(sources))

	var (
		g    *errgroup.Group
		gctx = ctx
	)
	if b.config.StopOnFailure {
		g, gctx = errgroup.WithContext(ctx)
	} else {
		g = &errgroup.Group{}
	}
	if b.config.Parallel > 0 {
		g.SetLimit(b.config.Parallel)
	}

	var (
		mu     sync.Mutex
		merged *multierror.Error
	)

	for i, source := range sources {
		i, source := i, source
		g.Go(func() error {
			result, err := b.Compile(gctx, source, dirs[i])
			results[i] = result
			if err == nil {
				return nil
			}

			err = fmt.Errorf("%s: %w", source.Path, err)
			if b.config.StopOnFailure {
				return err
			}
			mu.Lock()
			merged = multierror.Append(merged, err)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, merged.ErrorOrNil()
}

func batchDirectories(sources []SourceUnit, root string) ([]string, error) {
	dirs := make([]string, len(sources))
	seen := map[string]string{}

	for i, source := range sources {
		module := source.ModuleName()
		if other, ok := seen[module]; ok {
			return nil, &ConfigurationError{
				Key:     "sources",
				Message: fmt.Sprintf("%s and %s both build module %q", other, source.Path, module),
			}
		}
		seen[module] = source.Path

		if root != "" {
			dirs[i] = filepath.Join(root, module)
		}
	}
	return dirs, nil
}
