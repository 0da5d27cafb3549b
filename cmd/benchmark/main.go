package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"sync"
	"time"

	"github.com/delaneyj/lookout/cmd/benchmark/templates"
	"github.com/delaneyj/lookout/observable"
	"github.com/delaneyj/lookout/vector"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"
)

const (
	maxSubsKey = "max-subs"
	itersKey   = "iters"
	formatKey  = "format"
	profileKey = "profile"
)

func main() {
	cmd := &cli.Command{
		Name:  "benchmark",
		Usage: "Measure write latency of observables with many subscribers",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  maxSubsKey,
				Usage: "Largest subscriber count to run (0, 1, 10, ... up to this)",
				Value: 1_000,
			},
			&cli.UintFlag{
				Name:  itersKey,
				Usage: "Writes timed per run",
				Value: 1_000,
			},
			&cli.StringFlag{
				Name:  formatKey,
				Usage: "Output format: table or markdown",
				Value: "table",
			},
			&cli.StringFlag{
				Name:  profileKey,
				Usage: "Write a CPU profile to this path",
			},
		},
		Action: benchmark,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func benchmark(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String(formatKey)
	if format != "table" && format != "markdown" {
		return fmt.Errorf("unknown format %q", format)
	}

	if path := cmd.String(profileKey); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return err
		}
		defer pprof.StopCPUProfile()
	}

	iters := int(cmd.Uint(itersKey))
	maxSubs := int(cmd.Uint(maxSubsKey))
	if iters < 1 {
		return fmt.Errorf("%s must be positive", itersKey)
	}

	start := time.Now()
	log.Printf("benchmark started, %d writes per run", iters)
	defer func() {
		log.Printf("benchmark finished in %v", time.Since(start))
	}()

	var rows []templates.Row
	for _, subs := range subscriberCounts(maxSubs) {
		rows = append(rows,
			run(ctx, "observable set", subs, iters, benchmarkLatest),
			run(ctx, "observable set buffered", subs, iters, benchmarkBuffered),
			run(ctx, "vector push_back", subs, iters, benchmarkVector),
		)
	}

	if format == "markdown" {
		templates.WriteReport(os.Stdout, "lookout write latency", iters, rows)
		return nil
	}

	tbl := table.NewWriter()
	tbl.SetTitle("lookout write latency")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "subs", "avg", "min", "p75", "p99", "max"})
	for _, r := range rows {
		tbl.AppendRow(table.Row{r.Name, r.Subscribers, r.Avg, r.Min, r.P75, r.P99, r.Max})
	}
	tbl.Render()
	return nil
}

func subscriberCounts(limit int) []int {
	counts := []int{0}
	for n := 1; n <= limit; n *= 10 {
		counts = append(counts, n)
	}
	return counts
}

// writeFn performs iters timed writes against an observable with subs
// draining subscribers.
type writeFn func(ctx context.Context, tach *tachymeter.Tachymeter, subs, iters int)

func run(ctx context.Context, name string, subs, iters int, fn writeFn) templates.Row {
	tach := tachymeter.New(&tachymeter.Config{Size: iters})
	fn(ctx, tach, subs, iters)

	calc := tach.Calc()
	return templates.Row{
		Name:        name,
		Subscribers: subs,
		Avg:         calc.Time.Avg,
		Min:         calc.Time.Min,
		P75:         calc.Time.P75,
		P99:         calc.Time.P99,
		Max:         calc.Time.Max,
	}
}

func benchmarkLatest(ctx context.Context, tach *tachymeter.Tachymeter, subs, iters int) {
	obs := observable.New(0)
	var wg sync.WaitGroup
	for i := 0; i < subs; i++ {
		sub := obs.Subscribe()
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range sub.All(ctx) {
			}
		}()
	}

	for i := 0; i < iters; i++ {
		start := time.Now()
		obs.Set(i)
		tach.AddTime(time.Since(start))
	}
	obs.Close()
	wg.Wait()
}

func benchmarkBuffered(ctx context.Context, tach *tachymeter.Tachymeter, subs, iters int) {
	obs := observable.New(0)
	var wg sync.WaitGroup
	for i := 0; i < subs; i++ {
		sub := obs.SubscribeBuffered()
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range sub.All(ctx) {
			}
		}()
	}

	for i := 0; i < iters; i++ {
		start := time.Now()
		obs.Set(i)
		tach.AddTime(time.Since(start))
	}
	obs.Close()
	wg.Wait()
}

func benchmarkVector(ctx context.Context, tach *tachymeter.Tachymeter, subs, iters int) {
	v := vector.WithCapacity[int](iters)
	var wg sync.WaitGroup
	for i := 0; i < subs; i++ {
		_, sub := v.Subscribe()
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range sub.All(ctx) {
			}
		}()
	}

	for i := 0; i < iters; i++ {
		start := time.Now()
		v.PushBack(i)
		tach.AddTime(time.Since(start))
	}
	v.Close()
	wg.Wait()
}
