package runner

import "sync"

// broadcaster fans Events out to subscribers added via On. Not a generic
// pub-sub library: the teacher's stack carries nothing that fits this
// shape, and a mutex-guarded map of channels is the idiomatic minimum
// (justified in DESIGN.md).
type broadcaster struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: make(map[int]chan Event)}
}

// subscribe registers fn to be called (on a goroutine owned by this
// subscription) for every future event, and returns an unsubscribe func.
func (b *broadcaster) subscribe(fn func(Event)) func() {
	ch := make(chan Event, 32)
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = ch
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range ch {
			fn(ev)
		}
	}()

	return func() {
		b.mu.Lock()
		if c, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(c)
		}
		b.mu.Unlock()
		<-done
	}
}

func (b *broadcaster) emit(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			// Slow subscriber: drop rather than block the runner's
			// owner goroutine (spec.md's events are best-effort, not a
			// backpressure channel).
		}
	}
}

// closeAll tears down every subscriber channel; called once the Runner
// reaches Finished so subscriber goroutines exit.
func (b *broadcaster) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
