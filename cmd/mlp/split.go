package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/corvvs/mlp/internal/dataset"
	"github.com/corvvs/mlp/internal/nn"
	"github.com/corvvs/mlp/internal/random"
)

func runSplit(args []string) error {
	def := nn.DefaultConfig()
	fs := flag.NewFlagSet("split", flag.ContinueOnError)
	data := fs.String("data", "", "Labelled CSV file to split")
	trainOut := fs.String("train", "data_train.csv", "Where to write the training rows")
	valOut := fs.String("val", "data_val.csv", "Where to write the validation rows")
	ratio := fs.Float64("ratio", def.SplitRatio, "Share of rows written to -train")
	seed := fs.Int64("seed", def.Seed, "Random seed for shuffling")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *data == "" {
		return errors.New("-data is required")
	}

	set, err := dataset.ReadFile(*data)
	if err != nil {
		return err
	}
	trainSet, valSet, err := dataset.Split(set, *ratio, random.New(*seed))
	if err != nil {
		return err
	}
	if err := dataset.WriteFile(*trainOut, trainSet); err != nil {
		return err
	}
	if err := dataset.WriteFile(*valOut, valSet); err != nil {
		return err
	}
	fmt.Printf("%d rows written to %s, %d rows written to %s\n", trainSet.Len(), *trainOut, valSet.Len(), *valOut)
	return nil
}
