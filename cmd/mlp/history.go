package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/corvvs/mlp/internal/runlog"
)

func runHistory(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	db := fs.String("db", "runs.db", "SQLite database written by mlp train -history")
	run := fs.Int64("run", 0, "Print the epochs of this run instead of the run list")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := runlog.OpenSQLite(ctx, *db)
	if err != nil {
		return err
	}
	defer store.Close()

	if *run > 0 {
		epochs, err := store.Epochs(ctx, *run)
		if err != nil {
			return err
		}
		fmt.Printf("%6s %10s %10s %8s %8s %8s\n", "epoch", "trainLoss", "valLoss", "trainAcc", "valAcc", "valF1")
		for _, e := range epochs {
			fmt.Printf("%6d %10.6f %10.6f %8.4f %8.4f %8.4f\n",
				e.Epoch, e.Train.Loss, e.Val.Loss, e.Train.Accuracy, e.Val.Accuracy, e.Val.F1Score)
		}
		return nil
	}

	runs, err := store.Runs(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%4s %-20s %6s %5s %-12s %s\n", "ID", "Started", "Best", "Batch", "Stop", "Optimizer")
	for _, r := range runs {
		stop := r.StopReason
		if r.FinishedAt.IsZero() {
			stop = "running"
		}
		fmt.Printf("%4d %-20s %6d %5d %-12s %s\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), r.BestEpoch, r.BatchSize, stop, r.Optimizer)
	}
	return nil
}
