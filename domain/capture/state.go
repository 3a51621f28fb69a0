package capture

import "sync"

// Listener observes published state changes. It runs on the goroutine that
// produced the change and must not block.
type Listener func(prev, next State)

// Published holds the session's observable state. Each field has a single
// producer; readers take consistent snapshots.
type Published struct {
	mu        sync.Mutex
	state     State
	listeners map[int]Listener
	nextID    int
}

func newPublished(initial State) *Published {
	return &Published{state: initial, listeners: map[int]Listener{}}
}

// Snapshot returns a copy of the current state.
func (p *Published) Snapshot() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Subscribe registers l and returns a function that removes it.
func (p *Published) Subscribe(l Listener) (unsubscribe func()) {
	if l == nil {
		return func() {}
	}
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = l
	p.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.listeners, id)
			p.mu.Unlock()
		})
	}
}

// update applies fn under the lock and notifies listeners outside it.
func (p *Published) update(fn func(s *State)) {
	p.mu.Lock()
	prev := p.state
	fn(&p.state)
	next := p.state
	ls := make([]Listener, 0, len(p.listeners))
	for _, l := range p.listeners {
		ls = append(ls, l)
	}
	p.mu.Unlock()
	for _, l := range ls {
		l(prev, next)
	}
}
