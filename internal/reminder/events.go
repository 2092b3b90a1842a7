package reminder

import "sync"

// subscribers fans ListChanged events out to buffered channels.
// Publishing never blocks: a subscriber whose buffer is full misses the event.
type subscribers struct {
	mu     sync.Mutex
	next   int
	chans  map[int]chan ListChanged
	closed bool
}

func (s *subscribers) subscribe(buffer int) (<-chan ListChanged, func()) {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan ListChanged, buffer)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	if s.chans == nil {
		s.chans = make(map[int]chan ListChanged)
	}
	id := s.next
	s.next++
	s.chans[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.chans[id]; ok {
				delete(s.chans, id)
				close(c)
			}
		})
	}
}

// publish returns how many subscribers received the event.
func (s *subscribers) publish(evt ListChanged) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	delivered := 0
	for _, ch := range s.chans {
		// each subscriber gets its own copy
		e := ListChanged{Cause: evt.Cause, Records: cloneRecords(evt.Records)}
		select {
		case ch <- e:
			delivered++
		default:
		}
	}
	return delivered
}

func (s *subscribers) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for id, ch := range s.chans {
		close(ch)
		delete(s.chans, id)
	}
}
