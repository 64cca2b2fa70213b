package ostar

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Registry errors
var (
	ErrSessionExists = errors.New("SessionExists")
	ErrNoSession     = errors.New("NoSession")
)

// Registry holds named, independently constructed sessions.
// Registry methods are safe for concurrent use; sessions are not.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	order    []string
	opts     []Option
}

// NewRegistry creates registry. Options are applied to every session
// before options given to Create.
func NewRegistry(opts ...Option) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		opts:     opts,
	}
}

// Create creates new session with name
func (r *Registry) Create(name string, opts ...Option) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.sessions[name]; dup {
		return nil, fmt.Errorf("session '%s': %w", name, ErrSessionExists)
	}

	all := make([]Option, 0, len(r.opts)+len(opts)+1)
	all = append(all, r.opts...)
	all = append(all, opts...)
	all = append(all, WithName(name))

	s, err := New(all...)
	if err != nil {
		return nil, err
	}

	r.sessions[name] = s
	r.order = append(r.order, name)
	return s, nil
}

// Get returns session by name
func (r *Registry) Get(name string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[name]
	if !ok {
		return nil, fmt.Errorf("session '%s': %w", name, ErrNoSession)
	}
	return s, nil
}

// Names returns session names in creation order
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.order...)
}

// Len returns number of sessions
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.sessions)
}

// Remove closes session and removes it from registry
func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	s, ok := r.sessions[name]
	if ok {
		delete(r.sessions, name)
		r.removeIndex(name)
	}
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("session '%s': %w", name, ErrNoSession)
	}
	return s.Close()
}

func (r *Registry) removeIndex(name string) {
	for idx, n := range r.order {
		if n == name {
			r.order = append(r.order[:idx], r.order[idx+1:]...)
			return
		}
	}
}

// Close closes and removes all sessions
func (r *Registry) Close() error {
	r.mu.Lock()
	sessions := r.snapshot()
	r.sessions = make(map[string]*Session)
	r.order = nil
	r.mu.Unlock()

	var errs []error
	for _, s := range sessions {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("session '%s': %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) snapshot() []*Session {
	sessions := make([]*Session, 0, len(r.order))
	for _, name := range r.order {
		sessions = append(sessions, r.sessions[name])
	}
	return sessions
}

// Each calls fn for every session concurrently, one goroutine per session.
// It returns first error; ctx passed to fn is cancelled on first error.
func (r *Registry) Each(ctx context.Context, fn func(ctx context.Context, s *Session) error) error {
	r.mu.Lock()
	sessions := r.snapshot()
	r.mu.Unlock()

	g, ctx := errgroup.WithContext(ctx)
	for _, s := range sessions {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(ctx, s)
		})
	}
	return g.Wait()
}

// Load creates every session declared in manifest. On failure sessions
// created by this call are removed.
func (r *Registry) Load(m *Manifest) error {
	var created []string
	for _, c := range m.Sessions {
		if _, err := r.Create(c.Name, c.Options()...); err != nil {
			for _, name := range created {
				_ = r.Remove(name)
			}
			return err
		}
		created = append(created, c.Name)
	}
	return nil
}
