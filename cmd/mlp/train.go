package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/corvvs/mlp/internal/dataset"
	"github.com/corvvs/mlp/internal/nn"
	"github.com/corvvs/mlp/internal/random"
	"github.com/corvvs/mlp/internal/runlog"
	"github.com/corvvs/mlp/internal/serialization"
	"github.com/corvvs/mlp/internal/train"
)

type trainFlags struct {
	data     string
	valData  string
	out      string
	history  string
	progress bool
	verbose  bool

	hidden     string
	activation string
	initMethod string
	loss       string
	reg        string
	opt        string
	esMetric   string
	esPatience int

	epochs int
	batch  int
	seed   int64
	split  float64
}

func parseTrainFlags(args []string) (*trainFlags, error) {
	def := nn.DefaultConfig()
	f := &trainFlags{}
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	fs.StringVar(&f.data, "data", "", "Labelled CSV file (label in column 0)")
	fs.StringVar(&f.valData, "val", "", "Validation CSV file (default: split -data with -split)")
	fs.StringVar(&f.out, "out", "model.json", "Where to write the trained model")
	fs.StringVar(&f.history, "history", "", "SQLite database recording the run (empty = off)")
	fs.BoolVar(&f.progress, "progress", false, "Print one line of metrics per epoch")
	fs.BoolVar(&f.verbose, "v", false, "Log every epoch")

	fs.StringVar(&f.hidden, "hidden", "24,24", "Hidden layer sizes")
	fs.StringVar(&f.activation, "act", "relu", "Hidden activation: linear|sigmoid|tanh|relu|leakyrelu[,alpha]")
	fs.StringVar(&f.initMethod, "init", "he,uniform", "Initialization: uniform|he[,dist]|xavier[,dist]")
	fs.StringVar(&f.loss, "loss", "cce", "Loss: cce[,eps]|weightedbce[,pos[,neg[,eps]]]")
	fs.StringVar(&f.reg, "reg", "", "Regularization: l2,lambda (empty = off)")
	fs.StringVar(&f.opt, "opt", "sgd,0.01", "Optimizer: sgd|msgd|adagrad|rmsprop|adam|adamw with parameters")
	fs.StringVar(&f.esMetric, "es-metric", "", "Early stopping metric: loss|accuracy|precision|recall|f1score")
	fs.IntVar(&f.esPatience, "es-patience", 0, "Early stopping patience in epochs (0 = off)")

	fs.IntVar(&f.epochs, "epochs", def.MaxEpochs, "Maximum number of epochs")
	fs.IntVar(&f.batch, "batch", def.BatchSize, "Batch size (0 = full batch)")
	fs.Int64Var(&f.seed, "seed", def.Seed, "Random seed")
	fs.Float64Var(&f.split, "split", def.SplitRatio, "Share of -data used for training")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if f.data == "" {
		return nil, errors.New("-data is required")
	}
	return f, nil
}

// config turns the descriptor flags into a model configuration.
func (f *trainFlags) config(factors []*nn.ScaleFactor) (nn.Config, error) {
	cfg := nn.DefaultConfig()
	cfg.ScaleFactors = factors
	cfg.Seed = f.seed
	cfg.SplitRatio = f.split
	cfg.MaxEpochs = f.epochs
	cfg.BatchSize = f.batch

	var err error
	if cfg.HiddenSizes, err = nn.ParseHiddenSizes(f.hidden); err != nil {
		return cfg, fmt.Errorf("-hidden: %w", err)
	}
	if cfg.Activation, err = nn.ParseActivation(f.activation); err != nil {
		return cfg, fmt.Errorf("-act: %w", err)
	}
	if cfg.Initialization, err = nn.ParseInitialization(f.initMethod); err != nil {
		return cfg, fmt.Errorf("-init: %w", err)
	}
	if cfg.LossFunction, err = nn.ParseLossFunction(f.loss); err != nil {
		return cfg, fmt.Errorf("-loss: %w", err)
	}
	if cfg.Regularization, err = nn.ParseRegularization(f.reg); err != nil {
		return cfg, fmt.Errorf("-reg: %w", err)
	}
	if cfg.Optimization, err = nn.ParseOptimization(f.opt); err != nil {
		return cfg, fmt.Errorf("-opt: %w", err)
	}
	if cfg.EarlyStopping, err = nn.ParseEarlyStopping(f.esMetric, f.esPatience); err != nil {
		return cfg, fmt.Errorf("-es-metric/-es-patience: %w", err)
	}
	return cfg, nil
}

func runTrain(ctx context.Context, args []string) error {
	f, err := parseTrainFlags(args)
	if err != nil {
		return err
	}

	raw, err := dataset.ReadFile(f.data)
	if err != nil {
		return err
	}
	fmt.Printf("Loaded %s: %d rows, %d features\n", f.data, raw.Len(), raw.NumFeatures())

	scaled, factors, err := dataset.Standardize(raw)
	if err != nil {
		return err
	}

	cfg, err := f.config(factors)
	if err != nil {
		return err
	}
	rng := random.New(cfg.Seed)
	model, err := nn.NewModel(cfg, rng)
	if err != nil {
		return err
	}

	trainSet, valSet, err := trainingSets(f, scaled, factors, rng)
	if err != nil {
		return err
	}
	fmt.Printf("Training on %d rows, validating on %d rows\n\n", trainSet.Len(), valSet.Len())
	if err := model.Describe(os.Stdout); err != nil {
		return err
	}
	fmt.Println()

	opts := []train.Option{train.WithLogger(newLogger(f.verbose)), train.WithRand(rng)}
	if f.progress {
		opts = append(opts, train.WithSink(runlog.NewProgressWriter(os.Stdout)))
	}
	var store *runlog.SQLiteStore
	if f.history != "" {
		if store, err = runlog.OpenSQLite(ctx, f.history); err != nil {
			return err
		}
		defer store.Close()
		if _, err := store.BeginRun(ctx, model); err != nil {
			return err
		}
		opts = append(opts, train.WithSink(store))
	}

	res, err := train.New(model, opts...).Run(ctx, trainSet, valSet)
	canceled := errors.Is(err, context.Canceled) && res != nil
	if err != nil && !canceled {
		return err
	}

	stopReason := "max epochs"
	switch {
	case canceled:
		stopReason = "interrupted"
		fmt.Printf("\nInterrupted after %d epochs, saving the best model so far\n", res.Epochs)
	case res.Stop != nil:
		stopReason = string(res.Stop.Kind)
		fmt.Printf("\nEarly stopping: %s\n", res.Stop)
	}

	if res.Model.BestEpoch == 0 {
		return errors.New("no epoch finished, nothing to save")
	}
	if err := serialization.WriteModel(f.out, res.Model, map[string]string{"data": f.data}); err != nil {
		return err
	}
	if store != nil {
		// The run context may already be canceled.
		if err := store.FinishRun(context.WithoutCancel(ctx), res.Model.BestEpoch, stopReason, f.out); err != nil {
			return err
		}
	}

	best := res.Model.ValMetrics[res.Model.BestEpoch-1]
	fmt.Printf("Best epoch %d of %d: val loss %.6f, accuracy %.4f, F1 %.4f\n",
		res.Model.BestEpoch, res.Epochs, best.Loss, best.Accuracy, best.F1Score)
	fmt.Printf("Model written to %s\n", f.out)
	return nil
}

// trainingSets returns the training and validation rows, both standardized
// with factors. Without -val the standardized data is split with rng.
func trainingSets(f *trainFlags, scaled dataset.Set, factors []*nn.ScaleFactor, rng *random.Rand) (dataset.Set, dataset.Set, error) {
	if f.valData == "" {
		return dataset.Split(scaled, f.split, rng)
	}
	rawVal, err := dataset.ReadFile(f.valData)
	if err != nil {
		return dataset.Set{}, dataset.Set{}, err
	}
	val, err := dataset.Apply(rawVal, factors)
	if err != nil {
		return dataset.Set{}, dataset.Set{}, fmt.Errorf("%s: %w", f.valData, err)
	}
	return scaled, val, nil
}
