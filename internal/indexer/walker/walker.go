// Package walker discovers the files to scan under a set of roots. It skips
// hidden entries and honors .gitignore/.ignore files, reports unreadable
// paths without stopping, and yields each regular file at most once even
// when roots overlap.
package walker

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/termhist/pkg/logger"
)

// Options controls which entries are skipped.
type Options struct {
	Hidden   bool
	NoIgnore bool
}

// VisitFunc receives each discovered file. Returning an error stops the walk.
type VisitFunc func(path string) error

// ErrorFunc receives each path the walker could not visit.
type ErrorFunc func(path string, err error)

type Walker struct {
	opts   Options
	seen   map[string]struct{}
	logger *slog.Logger
}

func New(opts Options) *Walker {
	return &Walker{
		opts:   opts,
		seen:   make(map[string]struct{}),
		logger: logger.WithComponent("walker"),
	}
}

// Walk visits every root in order. Traversal errors go to onErr and are
// skipped; only a visit error or context cancellation ends the walk early.
func (w *Walker) Walk(ctx context.Context, roots []string, visit VisitFunc, onErr ErrorFunc) error {
	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.walkRoot(ctx, filepath.Clean(root), visit, onErr); err != nil {
			return err
		}
	}
	return nil
}

func (w *Walker) walkRoot(ctx context.Context, root string, visit VisitFunc, onErr ErrorFunc) error {
	info, err := os.Stat(root)
	if err != nil {
		onErr(root, err)
		return nil
	}
	if !info.IsDir() {
		if info.Mode().IsRegular() {
			return w.yield(root, visit)
		}
		onErr(root, fmt.Errorf("not a regular file or directory"))
		return nil
	}

	rules := make(map[string]*ruleSet)
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			onErr(path, err)
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		if path == root {
			rules[filepath.Clean(path)] = w.load(path, nil, onErr)
			return nil
		}

		if !w.opts.Hidden && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		parent := rules[filepath.Dir(path)]
		if parent != nil && parent.ignored(path, d.IsDir()) {
			w.logger.Debug("ignored by rule", "path", path)
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			rules[filepath.Clean(path)] = w.load(path, parent, onErr)
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return w.yield(path, visit)
	})
}

func (w *Walker) load(dir string, parent *ruleSet, onErr ErrorFunc) *ruleSet {
	if w.opts.NoIgnore {
		return nil
	}
	rs, err := loadRules(dir, parent)
	if err != nil {
		onErr(dir, fmt.Errorf("reading ignore rules: %w", err))
	}
	return rs
}

func (w *Walker) yield(path string, visit VisitFunc) error {
	key := path
	if abs, err := filepath.Abs(path); err == nil {
		key = abs
	}
	if _, dup := w.seen[key]; dup {
		return nil
	}
	w.seen[key] = struct{}{}
	return visit(path)
}
