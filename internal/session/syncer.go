package session

import (
	"context"
	"log"
	"sync"
)

// Syncer picks up session changes made by other processes. It runs as a
// worker.Task on an interval and, for stores that announce writes, as a watcher.
type Syncer struct {
	manager  *Manager
	onChange func(loggedIn bool)

	mu sync.Mutex
}

// NewSyncer returns a Syncer; onChange is called after every observed change.
func NewSyncer(manager *Manager, onChange func(loggedIn bool)) *Syncer {
	return &Syncer{manager: manager, onChange: onChange}
}

// Run performs one resync.
func (s *Syncer) Run(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed, err := s.manager.Resync(ctx)
	if err != nil {
		return err
	}
	if changed && s.onChange != nil {
		s.onChange(s.manager.IsLoggedIn())
	}
	return nil
}

// Watch resyncs on every change notification until ctx is done. It returns
// immediately when the store cannot announce changes.
func (s *Syncer) Watch(ctx context.Context) error {
	notifier, ok := s.manager.Store().(ChangeNotifier)
	if !ok {
		return nil
	}

	changes, err := notifier.Changes(ctx)
	if err != nil {
		return err
	}

	for range changes {
		if err := s.Run(ctx); err != nil {
			log.Printf("session sync: resync failed: %v", err)
		}
	}
	return ctx.Err()
}
