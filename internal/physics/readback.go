package physics

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/san-kum/wavesim/internal/cascade"
	"github.com/san-kum/wavesim/internal/monitoring"
)

// ErrClosed is returned by Request after Close.
var ErrClosed = errors.New("physics: readback closed")

// TransferFunc moves a staged texture to host memory. It runs on its own
// goroutine and may take arbitrarily long.
type TransferFunc func(ctx context.Context, staging []float32) ([]float32, error)

// CopyTransfer is the default transfer: the staging buffer is already host
// memory, so it is handed over as is.
func CopyTransfer(_ context.Context, staging []float32) ([]float32, error) {
	return staging, nil
}

// Stats counts readback outcomes.
type Stats struct {
	Requested uint64 `json:"requested"`
	Completed uint64 `json:"completed"`
	Failed    uint64 `json:"failed"`
	Discarded uint64 `json:"discarded"`
}

// Readback publishes completed transfers as snapshots. A completion only
// replaces the current snapshot if its request is newer, so out-of-order
// transfers never roll the snapshot back.
type Readback struct {
	transfer TransferFunc

	seq     atomic.Uint64
	current atomic.Pointer[Snapshot]

	completed atomic.Uint64
	failed    atomic.Uint64
	discarded atomic.Uint64

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewReadback creates a readback. A nil transfer selects CopyTransfer.
func NewReadback(transfer TransferFunc) *Readback {
	if transfer == nil {
		transfer = CopyTransfer
	}
	return &Readback{transfer: transfer}
}

// Request stages a copy of displacement and starts an asynchronous transfer.
// It returns the request sequence number without waiting for completion.
func (r *Readback) Request(lengthScale float64, size int, displacement []float32) (uint64, error) {
	if len(displacement) != size*size*cascade.Channels {
		return 0, fmt.Errorf("physics: displacement has %d values, want %d", len(displacement), size*size*cascade.Channels)
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return 0, ErrClosed
	}
	r.wg.Add(1)
	r.mu.Unlock()

	seq := r.seq.Add(1)
	staging := make([]float32, len(displacement))
	copy(staging, displacement)

	go func() {
		defer r.wg.Done()
		data, err := r.transfer(context.Background(), staging)
		if err == nil && len(data) != len(staging) {
			err = fmt.Errorf("transfer returned %d values, want %d", len(data), len(staging))
		}
		if err != nil {
			r.failed.Add(1)
			monitoring.Logf("physics: readback %d failed: %v", seq, err)
			return
		}
		r.Publish(&Snapshot{Seq: seq, Size: size, LengthScale: lengthScale, Texels: data})
	}()

	return seq, nil
}

// Publish installs s if it is newer than the current snapshot and reports
// whether it did.
func (r *Readback) Publish(s *Snapshot) bool {
	for {
		cur := r.current.Load()
		if cur != nil && cur.Seq >= s.Seq {
			r.discarded.Add(1)
			return false
		}
		if r.current.CompareAndSwap(cur, s) {
			r.completed.Add(1)
			return true
		}
	}
}

// Latest returns the newest published snapshot, or nil.
func (r *Readback) Latest() *Snapshot {
	return r.current.Load()
}

// Wait blocks until every in-flight transfer has finished.
func (r *Readback) Wait() {
	r.wg.Wait()
}

// Close rejects further requests and drains in-flight transfers.
func (r *Readback) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.wg.Wait()
}

func (r *Readback) Stats() Stats {
	return Stats{
		Requested: r.seq.Load(),
		Completed: r.completed.Load(),
		Failed:    r.failed.Load(),
		Discarded: r.discarded.Load(),
	}
}
