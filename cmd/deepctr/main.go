// Package main provides the deepctr CLI.
//
// Usage:
//
//	deepctr version
//	deepctr describe -config model.yaml
//	deepctr predict  -config model.yaml [-rows 8] [-seed 1]
//	deepctr train    -config model.yaml [-rows 512] [-batch 64] [-steps 100] [-lr 0.01] [-optimizer adam]
//
// predict and train run on seeded synthetic rows generated for the
// document's feature columns.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/born-ml/deepctr/internal/autodiff"
	"github.com/born-ml/deepctr/internal/backend/cpu"
	"github.com/born-ml/deepctr/internal/config"
	"github.com/born-ml/deepctr/internal/dataset"
	"github.com/born-ml/deepctr/internal/models"
	"github.com/born-ml/deepctr/internal/nn"
	"github.com/born-ml/deepctr/internal/optim"
)

const version = "v0.1.0-dev"

type backend = *autodiff.AutodiffBackend[*cpu.CPUBackend]

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "deepctr: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		usage(stdout)
		return nil
	}

	switch args[0] {
	case "version":
		fmt.Fprintf(stdout, "deepctr %s\n", version)
		return nil
	case "describe", "predict", "train":
		return runModelCommand(args[0], args[1:], stdout, stderr)
	case "help", "-h", "--help":
		usage(stdout)
		return nil
	default:
		usage(stderr)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "deepctr - CTR prediction models")
	fmt.Fprintf(w, "Version: %s\n\n", version)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  version    Show version")
	fmt.Fprintln(w, "  describe   Print the layout and parameter count of a model")
	fmt.Fprintln(w, "  predict    Score synthetic rows with a freshly initialized model")
	fmt.Fprintln(w, "  train      Train a model on synthetic rows and log the loss")
}

type options struct {
	configPath string
	rows       int
	batch      int
	steps      int
	lr         float64
	optimizer  string
	seed       int64
	logLevel   string
}

func parseFlags(command string, args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "path to the YAML model document (required)")
	fs.IntVar(&opts.rows, "rows", 0, "number of synthetic rows (default 8 for predict, 512 for train)")
	fs.IntVar(&opts.batch, "batch", 64, "mini-batch size for train")
	fs.IntVar(&opts.steps, "steps", 100, "optimization steps for train")
	fs.Float64Var(&opts.lr, "lr", 0.01, "learning rate for train")
	fs.StringVar(&opts.optimizer, "optimizer", "adam", "optimizer for train: adam, adagrad or sgd")
	fs.Int64Var(&opts.seed, "seed", 1, "seed of the synthetic data")
	fs.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.configPath == "" {
		return nil, errors.New("-config is required")
	}
	if opts.rows == 0 {
		opts.rows = 8
		if command == "train" {
			opts.rows = 512
		}
	}
	return opts, nil
}

func newLogger(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log level: %w", err)
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}).
		Level(lvl).
		With().Timestamp().Logger(), nil
}

func runModelCommand(command string, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(command, args, stderr)
	if err != nil {
		return err
	}
	logger, err := newLogger(stderr, opts.logLevel)
	if err != nil {
		return err
	}

	doc, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	model, err := config.DefaultRegistry[backend]().Build(doc, autodiff.New(cpu.New()))
	if err != nil {
		return err
	}
	logger = logger.With().Str("model", model.Name()).Logger()
	logger.Debug().Str("config", opts.configPath).Msg("model built")

	switch command {
	case "describe":
		return describe(model, stdout)
	case "predict":
		return predict(model, opts, stdout, logger)
	default:
		return train(model, opts, logger)
	}
}

func describe(model models.Model[backend], w io.Writer) error {
	params := model.Parameters()
	fmt.Fprintf(w, "model:      %s\n", model.Name())
	fmt.Fprintf(w, "task:       %s\n", model.Task())
	fmt.Fprintf(w, "features:   %d\n", len(model.FeatureColumns()))
	fmt.Fprintf(w, "tensors:    %d\n", len(params))
	fmt.Fprintf(w, "parameters: %d\n", nn.CountParameters(params))
	for _, p := range params {
		fmt.Fprintf(w, "  %-24s %v\n", p.Name(), p.Tensor().Shape())
	}
	return nil
}

func predict(model models.Model[backend], opts *options, w io.Writer, logger zerolog.Logger) error {
	data, err := dataset.ForColumns(model.FeatureColumns(), opts.rows, opts.seed)
	if err != nil {
		return err
	}
	start := time.Now()
	scores := models.Predict(model, data.Batch)
	logger.Info().Int("rows", len(scores)).Dur("elapsed", time.Since(start)).Msg("scored")

	for i, s := range scores {
		fmt.Fprintf(w, "%d\t%.6f\n", i, s)
	}
	return nil
}

func newOptimizer(name string, model models.Model[backend], lr float32) (optim.Optimizer, error) {
	params := model.Parameters()
	switch name {
	case "adam":
		return optim.NewAdam(params, optim.AdamConfig{LR: lr}), nil
	case "adagrad":
		return optim.NewAdagrad(params, optim.AdagradConfig{LR: lr}), nil
	case "sgd":
		return optim.NewSGD(params, optim.SGDConfig{LR: lr}), nil
	default:
		return nil, fmt.Errorf("unknown optimizer %q", name)
	}
}

func train(model models.Model[backend], opts *options, logger zerolog.Logger) error {
	if opts.batch <= 0 || opts.steps <= 0 {
		return fmt.Errorf("batch and steps must be positive, got %d and %d", opts.batch, opts.steps)
	}
	opt, err := newOptimizer(opts.optimizer, model, float32(opts.lr))
	if err != nil {
		return err
	}
	data, err := dataset.ForColumns(model.FeatureColumns(), opts.rows, opts.seed)
	if err != nil {
		return err
	}

	logger.Info().
		Int("rows", opts.rows).
		Int("batch", opts.batch).
		Int("steps", opts.steps).
		Str("optimizer", opts.optimizer).
		Int("parameters", nn.CountParameters(model.Parameters())).
		Msg("training")

	start := time.Now()
	model.SetTraining(true)
	offset := 0
	for step := 1; step <= opts.steps; step++ {
		end := min(offset+opts.batch, opts.rows)
		part := data.Slice(offset, end)
		offset = end % opts.rows

		loss, err := models.Step(model, opt, part.Batch, part.Labels)
		if err != nil {
			return fmt.Errorf("step %d: %w", step, err)
		}
		ev := logger.Debug()
		if step == 1 || step%10 == 0 || step == opts.steps {
			ev = logger.Info()
		}
		ev.Int("step", step).Float32("loss", loss).Msg("step")
	}

	scores := models.Predict(model, data.Batch)
	logger.Info().
		Dur("elapsed", time.Since(start)).
		Float64("accuracy", accuracy(scores, data.Labels)).
		Msg("done")
	return nil
}

// accuracy thresholds scores at 0.5.
func accuracy(scores, labels []float32) float64 {
	correct := 0
	for i, s := range scores {
		if (s >= 0.5) == (labels[i] == 1) {
			correct++
		}
	}
	return float64(correct) / float64(len(scores))
}
