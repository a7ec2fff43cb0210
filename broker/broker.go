package broker

import (
	"context"
	"sync"
	"time"

	"code.helixprotocol.io/helix/events"
	"code.helixprotocol.io/helix/logging"
)

// Subscriber interface allows pushing values to subscribers, can be set to
// a Skip state (temporarily not receiving any events), or closed. Otherwise events are pushed
//go:generate go run github.com/golang/mock/mockgen -destination mocks/subscriber_mock.go -package mocks code.helixprotocol.io/helix/broker Subscriber
type Subscriber interface {
	Push(val ...events.Event)
	Skip() <-chan struct{}
	Closed() <-chan struct{}
	C() chan<- []events.Event
	Types() []events.Type
	SetID(id int)
	ID() int
	Ack() bool
}

type subscription struct {
	Subscriber
	required bool
}

// Broker - the base broker type, routes events to subscribers by event type
// and, when configured, streams every accepted event over a socket for
// off-process indexing.
type Broker struct {
	ctx context.Context
	log *logging.Logger

	mu    sync.Mutex
	tSubs map[events.Type]map[int]*subscription
	// these fields ensure a unique ID for all subscribers, regardless of what event types they subscribe to
	subs map[int]subscription
	keys []int

	sender *SocketSender
}

// New creates a new base broker.
func New(ctx context.Context, log *logging.Logger, config Config) (*Broker, error) {
	log = log.Named(namedLogger)
	log.SetLevel(config.Level.Get())

	sender, err := NewSocketSender(log, &config.Socket)
	if err != nil {
		return nil, err
	}

	b := &Broker{
		ctx:    ctx,
		log:    log,
		tSubs:  map[events.Type]map[int]*subscription{},
		subs:   map[int]subscription{},
		keys:   []int{},
		sender: sender,
	}
	return b, nil
}

// Send sends an event to all subscribers.
func (b *Broker) Send(event events.Event) {
	b.SendBatch([]events.Event{event})
}

// SendBatch sends a slice of events to all subscribers.
func (b *Broker) SendBatch(evts []events.Event) {
	if len(evts) == 0 {
		return
	}
	b.stream(evts)
	b.mu.Lock()
	subs := b.getSubsByType(evts[0].Type())
	b.mu.Unlock()
	for _, sub := range subs {
		select {
		case <-b.ctx.Done():
			return
		case <-sub.Skip():
			continue
		case <-sub.Closed():
			b.Unsubscribe(sub.ID())
		default:
			if sub.Ack() {
				b.sendChannel(sub, evts)
			} else {
				sub.Push(evts...)
			}
		}
	}
}

func (b *Broker) sendChannel(sub Subscriber, evts []events.Event) {
	// wait for a max of 1 second
	timeout := time.NewTimer(time.Second)
	defer timeout.Stop()
	select {
	case <-b.ctx.Done():
		return
	case <-sub.Closed():
		b.Unsubscribe(sub.ID())
	case sub.C() <- evts:
		return
	case <-timeout.C:
		b.log.Warn("subscriber too slow, event batch dropped",
			logging.Int("subscriber-id", sub.ID()),
		)
	}
}

func (b *Broker) stream(evts []events.Event) {
	if b.sender == nil || !b.sender.Enabled() {
		return
	}
	for _, e := range evts {
		if err := b.sender.SendEvent(e); err != nil {
			b.log.Error("failed to stream event",
				logging.String("event-type", e.Type().String()),
				logging.Error(err),
			)
		}
	}
}

// Subscribe registers a new subscriber, returning the key.
func (b *Broker) Subscribe(s Subscriber) int {
	b.mu.Lock()
	k := b.subscribe(s)
	s.SetID(k)
	b.mu.Unlock()
	return k
}

// SubscribeBatch registers a set of subscribers in a single lock acquisition.
func (b *Broker) SubscribeBatch(subs ...Subscriber) {
	b.mu.Lock()
	for _, s := range subs {
		k := b.subscribe(s)
		s.SetID(k)
	}
	b.mu.Unlock()
}

func (b *Broker) subscribe(s Subscriber) int {
	k := b.getKey()
	sub := subscription{
		Subscriber: s,
		required:   s.Ack(),
	}
	b.subs[k] = sub
	types := sub.Types()
	for _, t := range types {
		if _, ok := b.tSubs[t]; !ok {
			b.tSubs[t] = map[int]*subscription{}
		}
		b.tSubs[t][k] = &sub
	}
	return k
}

// Unsubscribe removes subscriber from broker.
// this does not change the state of the subscriber.
func (b *Broker) Unsubscribe(k int) {
	b.mu.Lock()
	b.unsubscribe(k)
	b.mu.Unlock()
}

func (b *Broker) unsubscribe(k int) {
	sub, ok := b.subs[k]
	if !ok {
		return
	}
	for _, t := range sub.Types() {
		delete(b.tSubs[t], k)
	}
	delete(b.subs, k)
	b.keys = append(b.keys, k)
}

func (b *Broker) getKey() int {
	if len(b.keys) > 0 {
		k := b.keys[0]
		b.keys = b.keys[1:]
		return k
	}
	return len(b.subs) + 1
}

func (b *Broker) getSubsByType(t events.Type) []*subscription {
	subs := make([]*subscription, 0, len(b.tSubs[t])+len(b.tSubs[events.All]))
	for _, s := range b.tSubs[t] {
		subs = append(subs, s)
	}
	for _, s := range b.tSubs[events.All] {
		subs = append(subs, s)
	}
	return subs
}

// Close shuts down the socket sender, if one was configured.
func (b *Broker) Close() error {
	if b.sender == nil {
		return nil
	}
	return b.sender.Close()
}
