package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/delaneyj/lookout/vector"
	"github.com/gammazero/workerpool"
	"github.com/hashicorp/go-multierror"
)

type soakConfig struct {
	ops      int
	replicas int
	backlog  int
	seed     int64
}

type replicaResult struct {
	id          int
	diffs       int
	resets      int
	fingerprint uint64
	length      int
}

type soakResult struct {
	ops         int
	duration    time.Duration
	fingerprint uint64
	length      int
	replicas    []replicaResult
}

func fingerprint(items []int) uint64 {
	d := xxhash.New()
	var buf [8]byte
	for _, v := range items {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		d.Write(buf[:])
	}
	return d.Sum64()
}

// soak drives cfg.ops random mutations against a vector while cfg.replicas
// subscribers rebuild it from diffs, then checks every replica against the
// owner.
func soak(ctx context.Context, cfg soakConfig) (*soakResult, error) {
	v := vector.New[int](vector.WithBacklog(cfg.backlog))
	r := rand.New(rand.NewSource(cfg.seed))

	// start from a non-empty vector so snapshots matter
	for i := 0; i < 16; i++ {
		v.PushBack(r.Int())
	}

	pool := workerpool.New(cfg.replicas)
	var (
		mu      sync.Mutex
		results []replicaResult
		errs    *multierror.Error
	)
	for id := 0; id < cfg.replicas; id++ {
		snapshot, sub := v.Subscribe()
		pool.Submit(func() {
			res, err := replicate(ctx, id, snapshot, sub)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = multierror.Append(errs, err)
				return
			}
			results = append(results, res)
		})
	}

	start := time.Now()
	for i := 0; i < cfg.ops; i++ {
		mutate(r, v)
	}
	duration := time.Since(start)

	v.Close()
	pool.StopWait()

	owner := v.Values()
	res := &soakResult{
		ops:         cfg.ops,
		duration:    duration,
		fingerprint: fingerprint(owner),
		length:      len(owner),
		replicas:    results,
	}
	for _, rep := range results {
		if rep.fingerprint != res.fingerprint || rep.length != res.length {
			errs = multierror.Append(errs, fmt.Errorf(
				"replica %d diverged: len %d fingerprint %x, owner len %d fingerprint %x",
				rep.id, rep.length, rep.fingerprint, res.length, res.fingerprint,
			))
		}
	}
	if err := ctx.Err(); err != nil {
		errs = multierror.Append(errs, err)
	}
	return res, errs.ErrorOrNil()
}

func replicate(ctx context.Context, id int, replica []int, sub *vector.Subscriber[int]) (replicaResult, error) {
	res := replicaResult{id: id}
	for d := range sub.All(ctx) {
		var err error
		replica, err = d.Apply(replica)
		if err != nil {
			sub.Close()
			return res, fmt.Errorf("replica %d: applying diff %d (%s): %w", id, res.diffs, d.Op, err)
		}
		res.diffs++
		if d.Op == vector.OpReset {
			res.resets++
		}
	}
	res.fingerprint = fingerprint(replica)
	res.length = len(replica)
	return res, nil
}

// mutate performs one random mutation, biased towards growth so the
// vector does not hover around empty.
func mutate(r *rand.Rand, v *vector.Vector[int]) {
	n := v.Len()
	switch r.Intn(12) {
	case 0, 1, 2:
		v.PushBack(r.Int())
	case 3:
		v.PushFront(r.Int())
	case 4:
		v.PopBack()
	case 5:
		v.PopFront()
	case 6:
		_ = v.Insert(r.Intn(n+1), r.Int())
	case 7:
		if n > 0 {
			_, _ = v.Set(r.Intn(n), r.Int())
		}
	case 8:
		if n > 0 {
			_, _ = v.Remove(r.Intn(n))
		}
	case 9:
		v.Append(r.Int(), r.Int(), r.Int())
	case 10:
		if n > 0 {
			v.Truncate(n - r.Intn(n/4+1))
		}
	case 11:
		if r.Intn(64) == 0 {
			v.Clear()
		}
	}
}
