package runtime

import "github.com/relaxui/relax/internal/errors"

// Subscription identifies a registration on a Dispatcher.
type Subscription struct {
	event string
	id    uint64
}

type subscriber struct {
	id uint64
	fn func(payload any)
}

// Dispatcher delivers named events to subscribers in registration order.
type Dispatcher struct {
	subs  map[string][]subscriber
	after []subscriber
	next  uint64
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{subs: make(map[string][]subscriber)}
}

// Subscribe registers fn for event.
func (d *Dispatcher) Subscribe(event string, fn func(payload any)) Subscription {
	d.next++
	d.subs[event] = append(d.subs[event], subscriber{id: d.next, fn: fn})
	return Subscription{event: event, id: d.next}
}

// AfterEvery registers fn to run after every dispatch, handled or not.
func (d *Dispatcher) AfterEvery(fn func()) Subscription {
	d.next++
	d.after = append(d.after, subscriber{id: d.next, fn: func(any) { fn() }})
	return Subscription{id: d.next}
}

// Unsubscribe removes a registration. It reports whether one was removed.
func (d *Dispatcher) Unsubscribe(s Subscription) bool {
	if s.id == 0 {
		return false
	}
	if s.event == "" {
		var ok bool
		d.after, ok = without(d.after, s.id)
		if ok {
			return true
		}
	}
	list, ok := without(d.subs[s.event], s.id)
	if !ok {
		return false
	}
	if len(list) == 0 {
		delete(d.subs, s.event)
	} else {
		d.subs[s.event] = list
	}
	return true
}

// Has reports whether event has subscribers.
func (d *Dispatcher) Has(event string) bool {
	return len(d.subs[event]) > 0
}

// Dispatch calls every subscriber of event with payload, then the
// AfterEvery hooks. It returns ErrUnhandledEvent when event has no
// subscribers.
func (d *Dispatcher) Dispatch(event string, payload any) error {
	var err error
	if subs := d.subs[event]; len(subs) > 0 {
		for _, s := range append([]subscriber(nil), subs...) {
			s.fn(payload)
		}
	} else {
		err = errors.New(errors.CodeUnhandledEvent).WithDetailf("event %q", event)
	}
	for _, s := range append([]subscriber(nil), d.after...) {
		s.fn(nil)
	}
	return err
}

func without(list []subscriber, id uint64) ([]subscriber, bool) {
	for i, s := range list {
		if s.id == id {
			out := make([]subscriber, 0, len(list)-1)
			out = append(out, list[:i]...)
			return append(out, list[i+1:]...), true
		}
	}
	return list, false
}
