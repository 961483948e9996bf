package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/corvvs/mlp/internal/dataset"
)

func runPreproc(args []string) error {
	fs := flag.NewFlagSet("preproc", flag.ContinueOnError)
	data := fs.String("data", "", "Raw CSV file (id, M/B diagnosis, features)")
	out := fs.String("out", "data.csv", "Where to write the labelled CSV")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *data == "" {
		return errors.New("-data is required")
	}

	n, err := dataset.PreprocessFile(*data, *out)
	if err != nil {
		return err
	}
	fmt.Printf("%d rows written to %s\n", n, *out)
	return nil
}
