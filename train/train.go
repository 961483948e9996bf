// Copyright 2025 The mlp Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package train runs the training loop of an mlp model.
//
// A Trainer shuffles the training rows every epoch, runs mini-batch
// forward, backward and optimizer steps, scores the validation rows and
// keeps the best model according to the early-stopping settings of the
// model. Progress can be observed through EpochSink implementations such as
// the ones in package runlog.
package train

import (
	"github.com/corvvs/mlp/internal/dataset"
	"github.com/corvvs/mlp/internal/nn"
	"github.com/corvvs/mlp/internal/train"
)

// Set is a labelled data set: one row of features per label.
type Set = dataset.Set

// Trainer trains one model.
type Trainer = train.Trainer

// Option configures a Trainer.
type Option = train.Option

// Result is the outcome of Trainer.Run.
type Result = train.Result

// EpochSink receives the metrics of every finished epoch.
type EpochSink = train.EpochSink

// StopReason explains why a run ended before MaxEpochs.
type StopReason = train.StopReason

// Monitor is the early-stopping state machine.
type Monitor = train.Monitor

// Snapshot is the best model seen so far.
type Snapshot = train.Snapshot

// New returns a Trainer for model.
//
// Example:
//
//	res, err := train.New(model, train.WithLogger(logger)).Run(ctx, trainSet, valSet)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	best := res.Model
func New(model *nn.Model, opts ...Option) *Trainer {
	return train.New(model, opts...)
}

// WithLogger sets the logger used for per-epoch records.
var WithLogger = train.WithLogger

// WithRand sets the random source used for shuffling.
var WithRand = train.WithRand

// WithSink adds a receiver of per-epoch metrics.
var WithSink = train.WithSink

// NewMonitor returns an early-stopping monitor. A nil es never stops.
var NewMonitor = train.NewMonitor

// NewSnapshot returns an empty snapshot.
var NewSnapshot = train.NewSnapshot
