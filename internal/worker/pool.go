// Package worker runs corpus jobs concurrently and throttles outbound calls.
package worker

import (
	"context"
	"sync"
)

// Pool runs fn over a list of inputs on a fixed number of goroutines
type Pool[In, Out any] struct {
	workers int
	fn      func(ctx context.Context, in In) Out
}

// NewPool creates a pool; non-positive worker counts become 1
func NewPool[In, Out any](workers int, fn func(ctx context.Context, in In) Out) *Pool[In, Out] {
	if workers <= 0 {
		workers = 1
	}
	return &Pool[In, Out]{workers: workers, fn: fn}
}

type indexed[T any] struct {
	i   int
	val T
}

// Run feeds every input to fn and returns the outputs in input order. Once
// ctx is cancelled, no new inputs are started; their outputs are left as the
// zero value and reported in skipped.
func (p *Pool[In, Out]) Run(ctx context.Context, inputs []In) (outputs []Out, skipped []int) {
	outputs = make([]Out, len(inputs))
	if len(inputs) == 0 {
		return outputs, nil
	}

	jobs := make(chan indexed[In], p.workers*2)
	results := make(chan indexed[Out], p.workers*2)

	var wg sync.WaitGroup
	for w := 0; w < min(p.workers, len(inputs)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				results <- indexed[Out]{i: job.i, val: p.fn(ctx, job.val)}
			}
		}()
	}

	started := make([]bool, len(inputs))
	go func() {
		defer close(jobs)
		for i, in := range inputs {
			select {
			case <-ctx.Done():
				return
			case jobs <- indexed[In]{i: i, val: in}:
				started[i] = true
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for r := range results {
		outputs[r.i] = r.val
	}

	for i, ok := range started {
		if !ok {
			skipped = append(skipped, i)
		}
	}
	return outputs, skipped
}
