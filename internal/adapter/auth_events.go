package adapter

import (
	"sync"

	"github.com/marzhmallo/baranex-community-connect-sub002/models"
)

// eventBroadcaster fans session events out to subscribers. Each subscriber
// owns an unbounded queue drained by its own goroutine, so publishing never
// blocks and a handler never runs re-entrantly inside a publisher.
type eventBroadcaster struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]*subscriber
}

func newEventBroadcaster() *eventBroadcaster {
	return &eventBroadcaster{subs: make(map[uint64]*subscriber)}
}

// subscribe registers handler and queues initial as its first event.
func (b *eventBroadcaster) subscribe(handler func(models.AuthEvent), initial models.AuthEvent) func() {
	s := &subscriber{
		handler: handler,
		signal:  make(chan struct{}, 1),
		done:    make(chan struct{}),
	}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = s
	s.push(initial)
	b.mu.Unlock()

	go s.run()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
		s.stop()
	}
}

func (b *eventBroadcaster) publish(event models.AuthEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, s := range b.subs {
		s.push(event)
	}
}

// closeAll unregisters every subscriber.
func (b *eventBroadcaster) closeAll() {
	b.mu.Lock()
	subs := b.subs
	b.subs = make(map[uint64]*subscriber)
	b.mu.Unlock()

	for _, s := range subs {
		s.stop()
	}
}

type subscriber struct {
	handler func(models.AuthEvent)

	mu    sync.Mutex
	queue []models.AuthEvent

	signal chan struct{}
	done   chan struct{}
	once   sync.Once
}

func (s *subscriber) stop() {
	s.once.Do(func() { close(s.done) })
}

func (s *subscriber) push(event models.AuthEvent) {
	s.mu.Lock()
	s.queue = append(s.queue, event)
	s.mu.Unlock()

	select {
	case s.signal <- struct{}{}:
	default:
	}
}

func (s *subscriber) pop() (models.AuthEvent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.queue) == 0 {
		return models.AuthEvent{}, false
	}
	event := s.queue[0]
	s.queue[0] = models.AuthEvent{}
	s.queue = s.queue[1:]
	return event, true
}

func (s *subscriber) run() {
	for {
		select {
		case <-s.done:
			return
		case <-s.signal:
		}

		for {
			event, ok := s.pop()
			if !ok {
				break
			}

			select {
			case <-s.done:
				return
			default:
			}
			s.handler(event)
		}
	}
}
