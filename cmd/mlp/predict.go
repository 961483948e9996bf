package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/corvvs/mlp/internal/dataset"
	"github.com/corvvs/mlp/internal/parallel"
	"github.com/corvvs/mlp/internal/predict"
	"github.com/corvvs/mlp/internal/serialization"
)

func runPredict(args []string) error {
	fs := flag.NewFlagSet("predict", flag.ContinueOnError)
	modelPath := fs.String("model", "model.json", "Model written by mlp train")
	data := fs.String("data", "", "Labelled CSV file (label in column 0)")
	all := fs.Bool("all", false, "Print every row, not only the misclassified ones")
	describe := fs.Bool("describe", false, "Print the model before the predictions")
	workers := fs.Int("workers", 0, "Worker goroutines (0 = one per CPU, 1 = sequential)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *data == "" {
		return errors.New("-data is required")
	}

	model, err := serialization.ReadModel(*modelPath)
	if err != nil {
		return err
	}
	set, err := dataset.ReadFile(*data)
	if err != nil {
		return err
	}
	fmt.Printf("Loaded model %s and %d rows from %s\n\n", *modelPath, set.Len(), *data)
	if *describe {
		if err := model.Describe(os.Stdout); err != nil {
			return err
		}
		fmt.Println()
	}

	cfg := parallel.DefaultConfig()
	if *workers > 0 {
		cfg.Enabled = *workers > 1
		cfg.NumWorkers = *workers
	}
	rep, err := predict.Run(model, set, predict.WithParallel(cfg))
	if err != nil {
		return err
	}
	return rep.Print(os.Stdout, *all)
}
