package session

import (
	"context"
	"sync"

	"storefront/internal/logger"

	"go.uber.org/zap"
)

// Holder owns the current session and tells subscribers about every change.
type Holder struct {
	mu      sync.RWMutex
	current Session
	store   Store

	subMu  sync.Mutex
	subs   map[int]func(Session)
	nextID int
}

func NewHolder(store Store) *Holder {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Holder{current: Guest(), store: store, subs: map[int]func(Session){}}
}

// Restore loads a persisted session, if any.
func (h *Holder) Restore(ctx context.Context) (Session, error) {
	s, ok, err := h.store.Load(ctx)
	if err != nil {
		logger.FromCtx(ctx).Warn("session: restore failed", zap.Error(err))
		return h.Current(), err
	}
	if !ok {
		return h.Current(), nil
	}

	h.mu.Lock()
	h.current = s
	h.mu.Unlock()

	h.publish(s)
	return s, nil
}

func (h *Holder) Current() Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Authorization makes the holder usable as client credentials.
func (h *Holder) Authorization() string {
	return h.Current().Authorization()
}

func (h *Holder) Set(ctx context.Context, s Session) error {
	if err := h.store.Save(ctx, s); err != nil {
		return err
	}

	h.mu.Lock()
	h.current = s
	h.mu.Unlock()

	logger.FromCtx(ctx).Info("session set", zap.String("role", s.RoleName()))
	h.publish(s)
	return nil
}

// Clear drops back to a guest session. The in-memory state is cleared even
// when the store fails.
func (h *Holder) Clear(ctx context.Context) error {
	err := h.store.Clear(ctx)

	guest := Guest()
	h.mu.Lock()
	h.current = guest
	h.mu.Unlock()

	h.publish(guest)
	return err
}

// Subscribe registers fn for change notifications and returns a function that
// removes it.
func (h *Holder) Subscribe(fn func(Session)) func() {
	h.subMu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = fn
	h.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.subMu.Lock()
			delete(h.subs, id)
			h.subMu.Unlock()
		})
	}
}

func (h *Holder) publish(s Session) {
	h.subMu.Lock()
	fns := make([]func(Session), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.subMu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}
