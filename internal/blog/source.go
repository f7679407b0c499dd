package blog

import (
	"errors"
	"fmt"
	"slices"
)

var ErrInvalidDataset = errors.New("invalid posts dataset")
var ErrUnsupportedFormat = errors.New("unsupported posts dataset format")

// Source is the reference dataset behind GetPost and GetPosts.
type Source interface {
	List() ([]Post, error)
	Get(id int) (Post, bool, error)
}

var samplePosts = []Post{
	{ID: 1, Title: "Welcome to React with RxJS"},
	{ID: 2, Title: "More fun stuff..."},
}

// MemorySource serves a fixed, in-memory list of posts.
type MemorySource struct {
	posts []Post
}

func NewMemorySource(posts []Post) *MemorySource {
	return &MemorySource{posts: slices.Clone(posts)}
}

// SampleSource returns the built-in two post dataset.
func SampleSource() *MemorySource {
	return NewMemorySource(samplePosts)
}

func (m *MemorySource) List() ([]Post, error) {
	return slices.Clone(m.posts), nil
}

func (m *MemorySource) Get(id int) (Post, bool, error) {
	for _, p := range m.posts {
		if p.ID == id {
			return p, true, nil
		}
	}
	return Post{}, false, nil
}

func checkUniqueIDs(posts []Post) error {
	seen := make(map[int]bool, len(posts))
	for _, p := range posts {
		if seen[p.ID] {
			return fmt.Errorf("%w: duplicate id %d", ErrInvalidDataset, p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}
