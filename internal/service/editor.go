package service

import (
	"context"
	"sync"
)

// OptimisticEditor shows a tentative value while a commit is in flight and
// falls back to the last confirmed value when the commit fails.
type OptimisticEditor[T any] struct {
	mu        sync.Mutex
	shown     T
	confirmed T
}

func NewOptimisticEditor[T any](initial T) *OptimisticEditor[T] {
	return &OptimisticEditor[T]{shown: initial, confirmed: initial}
}

func (e *OptimisticEditor[T]) Shown() T {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.shown
}

func (e *OptimisticEditor[T]) Confirmed() T {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.confirmed
}

// Apply displays tentative, runs commit and keeps its result. On error the
// shown value reverts and the confirmed value is returned with the error.
func (e *OptimisticEditor[T]) Apply(ctx context.Context, tentative T, commit func(context.Context, T) (T, error)) (T, error) {
	e.mu.Lock()
	e.shown = tentative
	e.mu.Unlock()

	result, err := commit(ctx, tentative)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.shown = e.confirmed
		return e.confirmed, err
	}
	e.shown = result
	e.confirmed = result
	return result, nil
}

// Reset overwrites both values, used when a fresh copy is loaded.
func (e *OptimisticEditor[T]) Reset(v T) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.shown = v
	e.confirmed = v
}
