package blog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"
)

const zstdExt = ".zst"

// FileSource reads the dataset from a JSON or YAML file, optionally
// zstd-compressed (posts.json.zst). The file is validated against
// DatasetSchema when loaded.
type FileSource struct {
	path  string
	mu    sync.RWMutex
	posts []Post
}

func NewFileSource(path string) (*FileSource, error) {
	s := &FileSource{path: path}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileSource) List() ([]Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.posts), nil
}

func (s *FileSource) Get(id int) (Post, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.posts {
		if p.ID == id {
			return p, true, nil
		}
	}
	return Post{}, false, nil
}

// Reload re-reads the file. On error the previous dataset is kept.
func (s *FileSource) Reload() error {
	posts, err := readDataset(s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.posts = posts
	s.mu.Unlock()
	return nil
}

func readDataset(path string) ([]Post, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	name := path
	if strings.HasSuffix(name, zstdExt) {
		name = strings.TrimSuffix(name, zstdExt)
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		if data, err = dec.DecodeAll(data, nil); err != nil {
			return nil, fmt.Errorf("%s: zstd: %w", filepath.Base(path), err)
		}
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return []Post{}, nil
	}

	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".json":
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%s: %w: %v", filepath.Base(path), ErrInvalidDataset, err)
		}
		if data, err = json.Marshal(doc); err != nil {
			return nil, fmt.Errorf("%s: %w: %v", filepath.Base(path), ErrInvalidDataset, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	if err := validateDataset(data); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	var posts []Post
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", filepath.Base(path), ErrInvalidDataset, err)
	}
	if err := checkUniqueIDs(posts); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if posts == nil {
		posts = []Post{}
	}
	return posts, nil
}

// WriteDatasetFile writes posts in the format implied by path's extension.
func WriteDatasetFile(path string, posts []Post) error {
	name := strings.TrimSuffix(path, zstdExt)
	if posts == nil {
		posts = []Post{}
	}

	var (
		data []byte
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".json":
		data, err = json.MarshalIndent(posts, "", "  ")
		data = append(data, '\n')
	case ".yaml", ".yml":
		data, err = yaml.Marshal(posts)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return err
	}

	if name != path {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return err
		}
		data = enc.EncodeAll(data, nil)
		if err := enc.Close(); err != nil {
			return err
		}
	}
	return atomicWriteFile(path, data, 0o644)
}
