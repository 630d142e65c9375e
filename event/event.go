// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package event

import (
	"context"
	"errors"
	"sync"
)

var (
	_ Subscription[struct{}]        = (*SubscriptionFunc[struct{}])(nil)
	_ SubscriptionFactory[struct{}] = (*SubscriptionFuncFactory[struct{}])(nil)
)

// SubscriptionFactory returns an instance of a concrete Subscription
type SubscriptionFactory[T any] interface {
	New() (Subscription[T], error)
}

// Subscription defines how to consume events
type Subscription[T any] interface {
	// Accept returns fatal errors
	Accept(ctx context.Context, t T) error
	// Close returns fatal errors
	Close() error
}

type SubscriptionFuncFactory[T any] struct {
	AcceptF func(ctx context.Context, t T) error
}

func (s SubscriptionFuncFactory[T]) New() (Subscription[T], error) {
	return SubscriptionFunc[T](s), nil
}

type SubscriptionFunc[T any] struct {
	AcceptF func(ctx context.Context, t T) error
}

func (s SubscriptionFunc[T]) Accept(ctx context.Context, t T) error {
	return s.AcceptF(ctx, t)
}

func (SubscriptionFunc[_]) Close() error {
	return nil
}

func NotifyAll[T any](ctx context.Context, e T, subs ...Subscription[T]) error {
	var errs []error
	for _, sub := range subs {
		if err := sub.Accept(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Feed fans events out to a changing set of subscriptions. Subscriptions
// are notified in the order they were added.
type Feed[T any] struct {
	lock   sync.RWMutex
	nextID uint64
	subs   map[uint64]Subscription[T]
	order  []uint64
}

func NewFeed[T any]() *Feed[T] {
	return &Feed[T]{subs: make(map[uint64]Subscription[T])}
}

// Subscribe adds [sub] and returns a function that removes and closes it.
func (f *Feed[T]) Subscribe(sub Subscription[T]) func() error {
	f.lock.Lock()
	defer f.lock.Unlock()

	id := f.nextID
	f.nextID++
	f.subs[id] = sub
	f.order = append(f.order, id)

	var once sync.Once
	return func() error {
		var err error
		once.Do(func() {
			err = f.remove(id)
		})
		return err
	}
}

func (f *Feed[T]) remove(id uint64) error {
	f.lock.Lock()
	sub, ok := f.subs[id]
	if ok {
		delete(f.subs, id)
		for i, o := range f.order {
			if o == id {
				f.order = append(f.order[:i], f.order[i+1:]...)
				break
			}
		}
	}
	f.lock.Unlock()

	if !ok {
		return nil
	}
	return sub.Close()
}

// Send notifies every subscription of [e] and joins their errors.
func (f *Feed[T]) Send(ctx context.Context, e T) error {
	f.lock.RLock()
	subs := make([]Subscription[T], 0, len(f.order))
	for _, id := range f.order {
		subs = append(subs, f.subs[id])
	}
	f.lock.RUnlock()

	return NotifyAll(ctx, e, subs...)
}

func (f *Feed[T]) Len() int {
	f.lock.RLock()
	defer f.lock.RUnlock()

	return len(f.subs)
}

// Close removes and closes every subscription.
func (f *Feed[T]) Close() error {
	f.lock.Lock()
	subs := make([]Subscription[T], 0, len(f.order))
	for _, id := range f.order {
		subs = append(subs, f.subs[id])
	}
	f.subs = make(map[uint64]Subscription[T])
	f.order = nil
	f.lock.Unlock()

	var errs []error
	for _, sub := range subs {
		if err := sub.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
