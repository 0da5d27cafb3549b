package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/delaneyj/lookout/vector"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
)

const (
	opsKey      = "ops"
	replicasKey = "replicas"
	backlogKey  = "backlog"
	seedKey     = "seed"
	timeoutKey  = "timeout"
)

func main() {
	cmd := &cli.Command{
		Name:  "soak",
		Usage: "Hammer a vector with random mutations and verify replicas rebuilt from its diffs",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  opsKey,
				Usage: "Number of mutations",
				Value: 1_000_000,
			},
			&cli.UintFlag{
				Name:  replicasKey,
				Usage: "Number of concurrent replicas",
				Value: 8,
			},
			&cli.UintFlag{
				Name:  backlogKey,
				Usage: "Per-subscriber backlog before a reset is sent",
				Value: vector.DefaultBacklog,
			},
			&cli.UintFlag{
				Name:  seedKey,
				Usage: "Random seed",
				Value: 1,
			},
			&cli.DurationFlag{
				Name:  timeoutKey,
				Usage: "Give up after this long",
				Value: 5 * time.Minute,
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg := soakConfig{
		ops:      int(cmd.Uint(opsKey)),
		replicas: int(cmd.Uint(replicasKey)),
		backlog:  int(cmd.Uint(backlogKey)),
		seed:     int64(cmd.Uint(seedKey)),
	}
	if cfg.replicas < 1 {
		return fmt.Errorf("%s must be positive", replicasKey)
	}

	ctx, cancel := context.WithTimeout(ctx, cmd.Duration(timeoutKey))
	defer cancel()

	log.Printf("Soaking %s mutations across %d replicas, please wait...", humanize.Comma(int64(cfg.ops)), cfg.replicas)
	res, err := soak(ctx, cfg)
	if res != nil {
		render(res)
	}
	if err != nil {
		return err
	}
	log.Printf("All %d replicas match the owner", len(res.replicas))
	return nil
}

func render(res *soakResult) {
	rate := float64(res.ops) / res.duration.Seconds()
	log.Printf(
		"%s mutations in %v (%s), final length %s",
		humanize.Comma(int64(res.ops)), res.duration, humanize.SIWithDigits(rate, 2, "ops/s"), humanize.Comma(int64(res.length)),
	)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"replica", "diffs", "resets", "length", "fingerprint", "match"})
	for _, rep := range res.replicas {
		table.Append([]string{
			strconv.Itoa(rep.id),
			humanize.Comma(int64(rep.diffs)),
			humanize.Comma(int64(rep.resets)),
			humanize.Comma(int64(rep.length)),
			fmt.Sprintf("%016x", rep.fingerprint),
			strconv.FormatBool(rep.fingerprint == res.fingerprint && rep.length == res.length),
		})
	}
	table.Render()
}
