// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package runq

import (
	"errors"
	"testing"

	"code.hybscloud.com/iox"
)

func TestRoundToPow2(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 2}, {1, 2}, {2, 2}, {3, 4}, {4, 4}, {5, 8}, {1000, 1024}, {1024, 1024},
	}
	for _, tt := range tests {
		if got := roundToPow2(tt.in); got != tt.want {
			t.Errorf("roundToPow2(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestNewPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("New(1) did not panic")
		}
	}()
	New[int](1)
}

// TestFIFO fills and drains the ring twice to cover wraparound.
func TestFIFO(t *testing.T) {
	q := New[int](3)
	if q.Cap() != 4 {
		t.Fatalf("Cap: got %d, want 4", q.Cap())
	}

	for round := range 2 {
		for i := range 4 {
			if err := q.Push(round*10 + i); err != nil {
				t.Fatalf("round %d: Push(%d): %v", round, i, err)
			}
		}
		if err := q.Push(99); !errors.Is(err, iox.ErrWouldBlock) {
			t.Fatalf("round %d: Push on full ring: got %v, want ErrWouldBlock", round, err)
		}
		if q.Len() != 4 {
			t.Fatalf("round %d: Len: got %d, want 4", round, q.Len())
		}
		for i := range 4 {
			v, err := q.Pop()
			if err != nil {
				t.Fatalf("round %d: Pop: %v", round, err)
			}
			if v != round*10+i {
				t.Fatalf("round %d: Pop: got %d, want %d", round, v, round*10+i)
			}
		}
		if _, err := q.Pop(); !iox.IsWouldBlock(err) {
			t.Fatalf("round %d: Pop on empty ring: got %v, want ErrWouldBlock", round, err)
		}
		if q.Len() != 0 {
			t.Fatalf("round %d: Len after drain: got %d, want 0", round, q.Len())
		}
	}
}

// TestPopClearsSlot drops the reference held by a popped slot.
func TestPopClearsSlot(t *testing.T) {
	q := New[*int](2)
	v := 1
	if err := q.Push(&v); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if _, err := q.Pop(); err != nil {
		t.Fatalf("Pop: %v", err)
	}
	if q.slots[0].item != nil {
		t.Fatalf("slot still references popped item")
	}
}
