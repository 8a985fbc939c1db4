// Package notifier broadcasts data change events to live SSE connections.
package notifier

import "sync"

// Topics.
const (
	TopicAccounts  = "accounts"
	TopicProspects = "prospects"
)

// Event tells listeners which data changed. Listeners re-read the data themselves.
type Event struct {
	Topic string
	// Key narrows the topic, e.g. the account name of a prospects update.
	Key string
}

// Notifier fans events out to subscribed listeners.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[chan Event]struct{}
}

// New creates a Notifier.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[chan Event]struct{}),
	}
}

// Subscribe returns a channel receiving events.
// The caller must call Unsubscribe when done.
func (n *Notifier) Subscribe() chan Event {
	ch := make(chan Event, 4)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener and closes its channel.
func (n *Notifier) Unsubscribe(ch chan Event) {
	n.mu.Lock()
	delete(n.listeners, ch)
	n.mu.Unlock()
	close(ch)
}

// Broadcast sends ev to every listener.
// A listener whose buffer is full misses the event; it catches up on the next one.
func (n *Notifier) Broadcast(ev Event) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.listeners {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Listeners returns the number of subscribed listeners.
func (n *Notifier) Listeners() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}

// CacheHook adapts the notifier to the gateway update hook: a refreshed cache key
// becomes an event on the matching topic.
func (n *Notifier) CacheHook() func(key []string) {
	return func(key []string) {
		if len(key) == 0 {
			return
		}
		switch key[0] {
		case "accounts":
			n.Broadcast(Event{Topic: TopicAccounts})
		case "account", "account-prospects":
			ev := Event{Topic: TopicProspects}
			if len(key) > 1 {
				ev.Key = key[1]
			}
			n.Broadcast(ev)
		}
	}
}
