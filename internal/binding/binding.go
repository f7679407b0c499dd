// Package binding connects a rendering context to a blog.Service.
//
// A Binding mirrors the service state while it is active and runs one full
// load per activation. The load result is only logged; the mirror is updated
// by the service broadcast like any other change.
package binding

import (
	"sync"

	"go.uber.org/zap"

	"postview/internal/blog"
)

// View is what a binding hands to its renderer.
type View struct {
	Count   int
	Posts   []blog.Post
	Service *blog.Service
}

type Binding struct {
	svc      *blog.Service
	log      *zap.Logger
	onChange func(blog.State)

	mu    sync.RWMutex
	state blog.State

	unsubscribe blog.Unsubscribe
	release     sync.Once
	loaded      chan struct{}
}

type Option func(*Binding)

func WithLogger(l *zap.Logger) Option {
	return func(b *Binding) { b.log = l }
}

// OnChange is called with every mirrored value, starting with the replay at
// activation. It runs under the service's broadcast lock.
func OnChange(fn func(blog.State)) Option {
	return func(b *Binding) { b.onChange = fn }
}

// Activate mirrors svc, subscribes to it and starts loading all posts.
func Activate(svc *blog.Service, opts ...Option) *Binding {
	b := &Binding{
		svc:    svc,
		log:    zap.NewNop(),
		state:  svc.GetState(),
		loaded: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}

	b.unsubscribe = svc.Subscribe(b.mirror)
	go b.load()
	return b
}

func (b *Binding) mirror(st blog.State) {
	b.mu.Lock()
	b.state = st
	b.mu.Unlock()

	if b.onChange != nil {
		b.onChange(st)
	}
}

func (b *Binding) load() {
	defer close(b.loaded)

	posts, err := b.svc.GetPosts()
	if err != nil {
		b.log.Error("load posts", zap.Error(err))
		return
	}
	b.log.Info("posts loaded", zap.Any("posts", posts))
}

func (b *Binding) View() View {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return View{
		Count:   b.state.Count,
		Posts:   b.state.Posts,
		Service: b.svc,
	}
}

// Loaded is closed once the activation load has finished, whatever its
// outcome.
func (b *Binding) Loaded() <-chan struct{} {
	return b.loaded
}

// Deactivate releases the subscription. Only the first call has an effect.
func (b *Binding) Deactivate() {
	b.release.Do(b.unsubscribe)
}
