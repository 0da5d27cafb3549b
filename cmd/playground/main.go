package main

import (
	"context"
	"log"
	"time"

	"github.com/delaneyj/lookout/observable"
	"github.com/delaneyj/lookout/vector"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	scalar(ctx)
	letters(ctx)
	closing(ctx)
}

func scalar(ctx context.Context) {
	obs := observable.New(7)
	sub := obs.Subscribe()

	log.Printf("obs.Get() = %d", obs.Get())
	log.Printf("sub.Get() = %d", sub.Get())

	obs.Set(13)

	log.Printf("obs.Get() = %d", obs.Get())
	log.Printf("sub.Get() = %d", sub.Get())

	v, ok := sub.Next(ctx)
	log.Printf("sub.Next() = %d, %v", v, ok)
}

func letters(ctx context.Context) {
	v := vector.WithCapacity[rune](32)
	_, sub := v.Subscribe()

	for c := 'a'; c <= 'q'; c++ {
		v.PushBack(c)
	}

	for i := 0; i < v.Len(); i++ {
		d, ok := sub.Next(ctx)
		if !ok {
			log.Fatalf("diff stream ended early: %v", ctx.Err())
		}
		log.Printf("diff %2d: %s{%c}", i, d.Op, d.Value)
	}

	if _, err := v.Remove(100); err != nil {
		log.Printf("remove: %v", err)
	}
}

func closing(ctx context.Context) {
	obs := observable.New("open")
	a, b := obs.Subscribe(), obs.Subscribe()

	done := make(chan string, 2)
	for name, sub := range map[string]*observable.Subscriber[string]{"a": a, "b": b} {
		go func() {
			_, ok := sub.Next(ctx)
			if ok {
				log.Fatalf("subscriber %s got a value after close", name)
			}
			done <- name
		}()
	}

	obs.Close()
	for i := 0; i < 2; i++ {
		log.Printf("subscriber %s: stream ended", <-done)
	}
}
