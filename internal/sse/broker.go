// Package sse implements a Server-Sent Events broker that pushes contact
// changes to connected list views.
package sse

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/starford/contacthub/internal/contactservice"
)

const (
	clientBuffer = 64
	heartbeat    = 25 * time.Second
	retryMillis  = 3000
)

// Broker fans committed contact changes out to SSE clients.
//
// Every change is sent at once as contact.<kind> with the contact id. The
// first change after a quiet period also opens a batch window; when it
// closes, one contacts.changed event lists every id touched inside it, so a
// list view refetches at most once per window and never misses a change.
type Broker struct {
	window time.Duration

	ops     chan func(*clientSet)
	changes chan change
	quit    chan struct{}
	done    chan struct{}
	stop    sync.Once
}

type change struct {
	kind contactservice.EventKind
	id   int
}

// clientSet is owned by the loop goroutine.
type clientSet struct {
	clients map[chan []byte]struct{}
	pending map[int]struct{}
}

func (s *clientSet) send(msg []byte) {
	for ch := range s.clients {
		select {
		case ch <- msg:
		default:
			// Slow client misses this event; the next contacts.changed resyncs it.
		}
	}
}

// NewBroker creates a broker. window is the contacts.changed batch window.
func NewBroker(window time.Duration) *Broker {
	if window <= 0 {
		window = 2 * time.Second
	}
	b := &Broker{
		window:  window,
		ops:     make(chan func(*clientSet)),
		changes: make(chan change, 256),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go b.loop()
	return b
}

func (b *Broker) loop() {
	defer close(b.done)

	set := &clientSet{
		clients: make(map[chan []byte]struct{}),
		pending: make(map[int]struct{}),
	}
	var (
		batch   *time.Timer
		batchCh <-chan time.Time
	)

	for {
		select {
		case <-b.quit:
			if batch != nil {
				batch.Stop()
			}
			for ch := range set.clients {
				close(ch)
			}
			return

		case op := <-b.ops:
			op(set)

		case c := <-b.changes:
			set.send(frame("contact."+string(c.kind), map[string]int{"id": c.id}))
			set.pending[c.id] = struct{}{}
			if batch == nil {
				batch = time.NewTimer(b.window)
				batchCh = batch.C
			}

		case <-batchCh:
			ids := slices.Sorted(maps.Keys(set.pending))
			clear(set.pending)
			set.send(frame("contacts.changed", map[string][]int{"ids": ids}))
			batch, batchCh = nil, nil
		}
	}
}

func frame(event string, data any) []byte {
	payload, _ := json.Marshal(data)
	return fmt.Appendf(nil, "event: %s\ndata: %s\n\n", event, payload)
}

// do runs op on the loop goroutine and waits for it to finish. It reports
// false once the broker is closed.
func (b *Broker) do(op func(*clientSet)) bool {
	ran := make(chan struct{})
	select {
	case b.ops <- func(s *clientSet) { op(s); close(ran) }:
		<-ran
		return true
	case <-b.done:
		return false
	}
}

// Close stops the loop and closes every client channel. It is idempotent.
func (b *Broker) Close() {
	b.stop.Do(func() { close(b.quit) })
	<-b.done
}

// Subscribe registers a client. The returned channel is closed when the
// client unsubscribes or the broker closes.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, clientBuffer)
	if !b.do(func(s *clientSet) { s.clients[ch] = struct{}{} }) {
		close(ch)
	}
	return ch
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	b.do(func(s *clientSet) {
		if _, ok := s.clients[ch]; ok {
			delete(s.clients, ch)
			close(ch)
		}
	})
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	n := 0
	b.do(func(s *clientSet) { n = len(s.clients) })
	return n
}

var _ contactservice.Hook = (*Broker)(nil)

// OnCommit implements contactservice.Hook. Unknown kinds are ignored.
func (b *Broker) OnCommit(_ context.Context, ev contactservice.Event) {
	switch ev.Kind {
	case contactservice.EventCreated, contactservice.EventUpdated, contactservice.EventDeleted:
	default:
		return
	}
	select {
	case b.changes <- change{kind: ev.Kind, id: ev.Contact.ID}:
	case <-b.done:
	}
}

// ServeHTTP streams events to one client (GET /api/events). A comment line
// is sent every heartbeat so idle proxies keep the stream open.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "retry: %d\n\n", retryMillis)
	flusher.Flush()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	ping := time.NewTicker(heartbeat)
	defer ping.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ping.C:
			_, _ = w.Write([]byte(": ping\n\n"))
			flusher.Flush()
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}
