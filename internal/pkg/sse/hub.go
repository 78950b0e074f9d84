package sse

import (
	"sync"

	"github.com/asistencia-qr/attendance-backend-go/internal/domain/attendance"
)

const (
	EventScan = "scan"

	// AllCompanies subscribes to every company's events.
	AllCompanies int64 = 0

	bufferSize = 16
)

// Event represents an SSE event to be sent to subscribers
type Event struct {
	CompanyID int64
	Event     string
	Data      interface{}
}

// Hub manages SSE subscribers and event broadcasting, keyed by company
type Hub struct {
	mu          sync.RWMutex
	subscribers map[int64]map[chan Event]struct{}
}

// NewHub creates a new SSE Hub instance
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[int64]map[chan Event]struct{}),
	}
}

// Subscribe registers a new subscriber for a company and returns the event channel and cleanup function
func (h *Hub) Subscribe(companyID int64) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, bufferSize)

	if h.subscribers[companyID] == nil {
		h.subscribers[companyID] = make(map[chan Event]struct{})
	}
	h.subscribers[companyID][ch] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers[companyID], ch)
			close(ch)
			if len(h.subscribers[companyID]) == 0 {
				delete(h.subscribers, companyID)
			}
		})
	}

	return ch, cleanup
}

// Publish sends an event to the company's subscribers and to AllCompanies subscribers
func (h *Hub) Publish(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	h.deliver(event.CompanyID, event)
	if event.CompanyID != AllCompanies {
		h.deliver(AllCompanies, event)
	}
}

func (h *Hub) deliver(key int64, event Event) {
	for ch := range h.subscribers[key] {
		select {
		case ch <- event:
		default:
			// Skip if channel is full (non-blocking to prevent deadlock)
		}
	}
}

// PublishScan implements attendance.ScanPublisher.
func (h *Hub) PublishScan(companyID int64, result attendance.ScanResult) {
	h.Publish(Event{CompanyID: companyID, Event: EventScan, Data: result})
}

// SubscriberCount returns the number of active subscribers for a company
func (h *Hub) SubscriberCount(companyID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subscribers[companyID])
}

// TotalSubscribers returns the total number of active subscribers across all companies
func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, subs := range h.subscribers {
		total += len(subs)
	}
	return total
}
