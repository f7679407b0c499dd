package blog

import "slices"

type Post struct {
	ID    int    `json:"id" yaml:"id" jsonschema:"minimum=1"`
	Title string `json:"title" yaml:"title" jsonschema:"minLength=1"`
}

// State is the value held by a Service. Published values are never mutated in
// place; observers must treat Posts as read-only.
type State struct {
	Count int    `json:"count"`
	Posts []Post `json:"posts"`
}

// NotLoaded is the Count sentinel before the first full load.
const NotLoaded = -1

func initialState() State {
	return State{Count: NotLoaded, Posts: []Post{}}
}

// Find returns the post with the given id, if it is in the state.
func (s State) Find(id int) (Post, bool) {
	for _, p := range s.Posts {
		if p.ID == id {
			return p, true
		}
	}
	return Post{}, false
}

// Loaded reports whether a full load has completed.
func (s State) Loaded() bool {
	return s.Count != NotLoaded
}

// Partial overwrites one field of a State.
type Partial func(*State)

func Count(n int) Partial {
	return func(s *State) { s.Count = n }
}

// Posts replaces the post list with a copy of posts.
func Posts(posts []Post) Partial {
	cp := slices.Clone(posts)
	if cp == nil {
		cp = []Post{}
	}
	return func(s *State) { s.Posts = cp }
}

func (s State) merge(partials []Partial) State {
	next := s
	for _, p := range partials {
		if p != nil {
			p(&next)
		}
	}
	return next
}
