// Package main provides the mlp command: prepare a raw CSV file, train a
// binary classifier on it, evaluate a saved model and inspect the run history.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/corvvs/mlp/internal/serialization"
)

const usage = `Usage: mlp <command> [flags]

Commands:
  preproc    Convert a raw id,M/B,features CSV file into a labelled CSV file
  train      Train a model on a labelled CSV file
  predict    Evaluate a saved model on a labelled CSV file
  split      Split a CSV file into training and validation files
  history    List recorded training runs
  version    Show version

Run "mlp <command> -h" for the flags of a command.
`

func main() {
	log.SetFlags(0)
	log.SetPrefix("mlp: ")

	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "preproc":
		err = runPreproc(args)
	case "train":
		err = runTrain(ctx, args)
	case "predict":
		err = runPredict(args)
	case "split":
		err = runSplit(args)
	case "history":
		err = runHistory(ctx, args)
	case "version":
		fmt.Printf("mlp %s (model format %d)\n", serialization.LibraryVersion, serialization.FormatVersion)
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}

// newLogger returns the text logger handed to the trainer.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
