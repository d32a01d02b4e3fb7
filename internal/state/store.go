package state

import (
	"sync"
)

// Listener receives the snapshot produced by a dispatch and its version.
// Listeners run outside the store's lock, so concurrent dispatches may
// deliver snapshots out of order; a listener that keeps state should ignore a
// version lower than the last one it saw.
type Listener func(version uint64, s State)

// Store owns the current State. Dispatch is safe for concurrent use; network
// calls must happen outside of it.
type Store struct {
	mu        sync.Mutex
	state     State
	version   uint64
	listeners map[int]Listener
	nextID    int
}

func NewStore(initial State) *Store {
	return &Store{
		state:     initial,
		listeners: make(map[int]Listener),
	}
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Version counts accepted dispatches.
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Dispatch reduces a into the current state. Rejected actions leave the
// state unchanged and notify no one.
func (s *Store) Dispatch(a Action) (State, error) {
	s.mu.Lock()
	next, err := Reduce(s.state, a)
	if err != nil {
		current := s.state
		s.mu.Unlock()
		return current, err
	}
	s.state = next
	s.version++
	version := s.version
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(version, next)
	}
	return next, nil
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = l

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}
