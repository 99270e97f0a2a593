package broadcast

import (
	"encoding/json"
	"log"
	"strings"
	"sync"

	"storefloor/internal/events"
)

// Message is one server-sent event: Event names it, Msg is the data line.
type Message struct {
	Event string
	Msg   string
}

type Broadcaster struct {
	Mu      sync.Mutex
	Clients map[chan Message]bool
	done    chan struct{}
}

// NewBroadcaster forwards every event published on bus to all subscribers
// until the bus is closed.
func NewBroadcaster(bus *events.Bus) *Broadcaster {
	b := &Broadcaster{
		Clients: make(map[chan Message]bool),
		done:    make(chan struct{}),
	}
	go func() {
		defer close(b.done)
		for ev := range bus.Recorded {
			data, err := json.Marshal(ev)
			if err != nil {
				log.Printf("[Broadcast] Marshal error: %v\n", err)
				continue
			}
			b.Broadcast(EventName(ev.Kind), string(data))
		}
	}()
	return b
}

// EventName turns a kind into an SSE event name, "Zone Walk In" -> "zoneWalkIn".
func EventName(k events.Kind) string {
	words := strings.Fields(string(k))
	for i, w := range words {
		if i == 0 {
			words[i] = strings.ToLower(w)
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, "")
}

func (b *Broadcaster) Subscribe() chan Message {
	ch := make(chan Message, 10)
	b.Mu.Lock()
	b.Clients[ch] = true
	b.Mu.Unlock()
	return ch
}

func (b *Broadcaster) Unsubscribe(ch chan Message) {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	if b.Clients[ch] {
		delete(b.Clients, ch)
		close(ch)
	}
}

func (b *Broadcaster) Broadcast(event string, message string) {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	for ch := range b.Clients {
		select {
		case ch <- Message{Event: event, Msg: message}:
		default:
			// skip clients with full data channels
		}
	}
}

// Done is closed once the bus has been drained after Close.
func (b *Broadcaster) Done() <-chan struct{} {
	return b.done
}

// CloseAll unsubscribes every client, ending their streams.
func (b *Broadcaster) CloseAll() {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	for ch := range b.Clients {
		delete(b.Clients, ch)
		close(ch)
	}
}
