package network

import (
	"fmt"
	"math/rand"
	"sync"
)

const (
	// SubscriberIDMaxRetries represents the maximum number of retries when generating a unique ID
	SubscriberIDMaxRetries = 1024
	// SubscriberBufferSize is the number of pending updates a subscriber can fall behind by
	SubscriberBufferSize = 4
)

// Subscriber is a connected live leaderboard client
type Subscriber struct {
	ID      uint32
	updates chan []byte
}

// Updates returns a one-way channel of encoded leaderboard payloads
func (s *Subscriber) Updates() <-chan []byte {
	return s.updates
}

// SubscriberManager manages the live leaderboard subscribers
type SubscriberManager struct {
	subscribers     map[uint32]*Subscriber
	subscribersLock sync.RWMutex
}

// NewSubscriberManager creates a new SubscriberManager
func NewSubscriberManager() *SubscriberManager {
	return &SubscriberManager{
		subscribers: make(map[uint32]*Subscriber),
	}
}

// Subscribe registers a new subscriber and returns it
func (sm *SubscriberManager) Subscribe() (*Subscriber, error) {
	sm.subscribersLock.Lock()
	defer sm.subscribersLock.Unlock()

	id, err := sm.generateUniqueID(SubscriberIDMaxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to generate a unique ID: %v", err)
	}
	subscriber := &Subscriber{
		ID:      id,
		updates: make(chan []byte, SubscriberBufferSize),
	}
	sm.subscribers[id] = subscriber

	return subscriber, nil
}

// Unsubscribe removes a subscriber and closes its update channel
func (sm *SubscriberManager) Unsubscribe(id uint32) {
	sm.subscribersLock.Lock()
	defer sm.subscribersLock.Unlock()

	subscriber, ok := sm.subscribers[id]
	if !ok {
		return
	}
	close(subscriber.updates)
	delete(sm.subscribers, id)
}

// Broadcast queues the payload for every subscriber.
// Subscribers whose buffer is full miss the update and returns how many did.
func (sm *SubscriberManager) Broadcast(payload []byte) int {
	sm.subscribersLock.RLock()
	defer sm.subscribersLock.RUnlock()

	dropped := 0
	for _, subscriber := range sm.subscribers {
		select {
		case subscriber.updates <- payload:
		default:
			dropped++
		}
	}
	return dropped
}

// Count returns the number of subscribers
func (sm *SubscriberManager) Count() int {
	sm.subscribersLock.RLock()
	defer sm.subscribersLock.RUnlock()
	return len(sm.subscribers)
}

// generateUniqueID generates a unique subscriber ID with a maximum number of retries
// it reads from the subscribers, so it needs to be locked before calling
func (sm *SubscriberManager) generateUniqueID(maxRetries int) (uint32, error) {
	for attempt := 0; attempt < maxRetries; attempt++ {
		id := rand.Uint32()
		if id == 0 {
			continue
		}
		if _, ok := sm.subscribers[id]; !ok {
			return id, nil
		}
	}

	return 0, fmt.Errorf("failed to generate a unique ID after %d attempts", maxRetries)
}
