package kvstore

import "sync"

// hub fans out written entries to subscribers. Each subscriber holds at most
// one pending entry; a newer entry replaces an undelivered older one.
type hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]chan Entry
}

func newHub() *hub {
	return &hub{subs: make(map[string]map[int]chan Entry)}
}

func topic(namespace, key string) string {
	return namespace + "/" + key
}

func (h *hub) subscribe(namespace, key string) (<-chan Entry, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	t := topic(namespace, key)
	if h.subs[t] == nil {
		h.subs[t] = make(map[int]chan Entry)
	}
	id := h.nextID
	h.nextID++
	ch := make(chan Entry, 1)
	h.subs[t][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[t], id)
			if len(h.subs[t]) == 0 {
				delete(h.subs, t)
			}
			close(ch)
		})
	}
	return ch, cancel
}

func (h *hub) publish(namespace, key string, e Entry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs[topic(namespace, key)] {
		select {
		case <-ch:
		default:
		}
		ch <- e
	}
}
