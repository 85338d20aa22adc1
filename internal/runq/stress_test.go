// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !race

// atomix operations look like plain memory accesses to the race detector,
// so concurrent ring tests run without it.

package runq

import (
	"sync"
	"testing"

	"code.hybscloud.com/iox"
)

// TestConcurrentPushPop moves every item exactly once across several
// producers and consumers.
func TestConcurrentPushPop(t *testing.T) {
	const (
		producers = 4
		consumers = 4
		perProd   = 10000
	)
	q := New[int](64)

	var wg sync.WaitGroup
	for p := range producers {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			backoff := iox.Backoff{}
			for i := range perProd {
				for q.Push(id*perProd+i) != nil {
					backoff.Wait()
				}
				backoff.Reset()
			}
		}(p)
	}

	seen := make([][]int, consumers)
	var total sync.WaitGroup
	remaining := make(chan struct{}, producers*perProd)
	for range producers * perProd {
		remaining <- struct{}{}
	}
	for c := range consumers {
		total.Add(1)
		go func(id int) {
			defer total.Done()
			backoff := iox.Backoff{}
			for range remaining {
				for {
					v, err := q.Pop()
					if err == nil {
						seen[id] = append(seen[id], v)
						break
					}
					backoff.Wait()
				}
				backoff.Reset()
			}
		}(c)
	}

	wg.Wait()
	close(remaining)
	total.Wait()

	counts := make([]int, producers*perProd)
	for _, vs := range seen {
		for _, v := range vs {
			counts[v]++
		}
	}
	for v, n := range counts {
		if n != 1 {
			t.Fatalf("item %d popped %d times", v, n)
		}
	}
}
