package service

import (
	"sync"

	"site-lock-system/internal/model"
)

const subscriptionBuffer = 16

// Feed fans activity entries out to live watchers, keyed by license key
// id. It replaces the original dashboard's realtime channel subscription
// with an explicit watch handle: acquire with Watch, release with
// Unsubscribe on every exit path.
type Feed struct {
	mu   sync.Mutex
	subs map[string]map[*Subscription]struct{}
}

func NewFeed() *Feed {
	return &Feed{subs: make(map[string]map[*Subscription]struct{})}
}

// Subscription is a live view of one key's activity entries.
type Subscription struct {
	feed  *Feed
	keyID string
	ch    chan model.ActivityLog
	once  sync.Once
}

// Watch registers a subscription for entries appended against keyID.
func (f *Feed) Watch(keyID string) *Subscription {
	sub := &Subscription{
		feed:  f,
		keyID: keyID,
		ch:    make(chan model.ActivityLog, subscriptionBuffer),
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subs[keyID] == nil {
		f.subs[keyID] = make(map[*Subscription]struct{})
	}
	f.subs[keyID][sub] = struct{}{}
	return sub
}

// C delivers appended entries until Unsubscribe closes it.
func (s *Subscription) C() <-chan model.ActivityLog {
	return s.ch
}

// Unsubscribe detaches the subscription and closes its channel. Safe to
// call more than once.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		f := s.feed
		f.mu.Lock()
		if set, ok := f.subs[s.keyID]; ok {
			delete(set, s)
			if len(set) == 0 {
				delete(f.subs, s.keyID)
			}
		}
		f.mu.Unlock()
		close(s.ch)
	})
}

// Publish delivers an entry to every watcher of its key. Delivery never
// blocks; a watcher that has fallen behind misses the entry.
func (f *Feed) Publish(entry model.ActivityLog) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for sub := range f.subs[entry.KeyID] {
		select {
		case sub.ch <- entry:
		default:
		}
	}
}
