package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"postview/internal/blog"
)

// SeedFile is the dataset, relative to DataDir, imported into an empty SQLite
// source. cmd/generator writes it.
const SeedFile = "posts.json"

// OpenSource turns PostsSource into a blog.Source. Relative paths are
// resolved against DataDir. An empty PostsSource selects the sample dataset.
// A SQLite source with an empty posts table is seeded first.
// The returned close func is never nil.
func OpenSource(cfg *Config) (blog.Source, func() error, error) {
	noop := func() error { return nil }
	if cfg.PostsSource == "" {
		return blog.SampleSource(), noop, nil
	}

	path := cfg.PostsSource
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.DataDir, path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		src, err := blog.NewSQLiteSource(path)
		if err != nil {
			return nil, noop, err
		}
		if err := seedEmpty(src, filepath.Join(cfg.DataDir, SeedFile)); err != nil {
			src.Close()
			return nil, noop, err
		}
		return src, src.Close, nil
	default:
		src, err := blog.NewFileSource(path)
		if err != nil {
			return nil, noop, err
		}
		return src, noop, nil
	}
}

// seedEmpty fills an empty table from seedPath, or from the sample dataset
// when that file does not exist.
func seedEmpty(src *blog.SQLiteSource, seedPath string) error {
	existing, err := src.List()
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	var seed blog.Source = blog.SampleSource()
	file, err := blog.NewFileSource(seedPath)
	switch {
	case err == nil:
		seed = file
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("seed from %s: %w", filepath.Base(seedPath), err)
	}

	posts, err := seed.List()
	if err != nil {
		return err
	}
	return src.Seed(posts)
}
