package blog

import (
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// GetPost returns the post with the given id. A post already in state is
// returned without delay. Otherwise the post is fetched from the source after
// the simulated latency and appended to state. An id the source does not know
// returns ok == false and leaves state unchanged.
func (s *Service) GetPost(id int) (Post, bool, error) {
	if p, ok := s.GetState().Find(id); ok {
		return p, true, nil
	}

	s.sleep(s.latency)

	post, ok, err := s.source.Get(id)
	if err != nil {
		return Post{}, false, fmt.Errorf("get post %d: %w", id, err)
	}
	if !ok {
		s.log.Debug("post not in source", zap.Int("id", id))
		return Post{}, false, nil
	}

	// Re-read under the broadcast lock so concurrent fetches don't drop each
	// other's appends or append the same id twice.
	s.Update(func(cur State) []Partial {
		if existing, ok := cur.Find(id); ok {
			post = existing
			return nil
		}
		posts := append(slices.Clip(cur.Posts), post)
		return []Partial{Posts(posts)}
	})
	return post, true, nil
}

// GetPosts replaces state with the full source dataset after the simulated
// latency.
func (s *Service) GetPosts() ([]Post, error) {
	s.sleep(s.latency)

	posts, err := s.source.List()
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	s.SetState(Count(len(posts)), Posts(posts))
	s.log.Debug("posts loaded", zap.Int("count", len(posts)))
	return posts, nil
}
