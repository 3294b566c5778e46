// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import (
	"context"
	"fmt"
	"reflect"
)

// Handler receives an emitted event's payload. Returning an error
// stops the dispatch of later handlers for that emission.
type Handler func(ctx context.Context, data any) error

type subscription struct {
	id int
	fn Handler
}

// On subscribes a handler to an event and returns its unsubscribe
// closure. Handlers run in subscription order.
func (k *Kernel) On(event string, h Handler) func() {
	k.nextSubID++
	id := k.nextSubID
	k.subs[event] = append(k.subs[event], subscription{id: id, fn: h})
	return func() {
		list := k.subs[event]
		for i, s := range list {
			if s.id == id {
				k.subs[event] = append(list[:i], list[i+1:]...)
				return
			}
		}
	}
}

// Off removes handlers for an event: with no handler argument it
// removes all of them, with one it removes exactly the first
// subscription of that handler.
func (k *Kernel) Off(event string, handlers ...Handler) {
	if len(handlers) == 0 {
		delete(k.subs, event)
		return
	}
	target := reflect.ValueOf(handlers[0]).Pointer()
	list := k.subs[event]
	for i, s := range list {
		if reflect.ValueOf(s.fn).Pointer() == target {
			k.subs[event] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// Emit dispatches data to every handler subscribed to the event,
// sequentially and in subscription order. The first handler error
// stops the dispatch and is returned.
func (k *Kernel) Emit(ctx context.Context, event string, data any) error {
	handlers := make([]subscription, len(k.subs[event]))
	copy(handlers, k.subs[event])
	k.log.Debug().Str("event", event).Int("handlers", len(handlers)).Msg("emit")
	for _, s := range handlers {
		if err := s.fn(ctx, data); err != nil {
			return fmt.Errorf("event %q: %w", event, err)
		}
	}
	return nil
}
