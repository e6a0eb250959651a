package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dmerty/ds-help-utils/pkg/config"
	"github.com/dmerty/ds-help-utils/pkg/core"
	"github.com/dmerty/ds-help-utils/pkg/data"
	"github.com/dmerty/ds-help-utils/pkg/dataprep"
	"github.com/dmerty/ds-help-utils/pkg/logging"
	"github.com/dmerty/ds-help-utils/pkg/pipeline"
	"github.com/dmerty/ds-help-utils/pkg/stats"
)

//
// ---------------------- CLI FLAGS DOCUMENTATION ----------------------
//
// --in        : Input CSV with a header row. Default = stdin
// --out       : Output CSV with the surviving columns. Default = stdout
// --threshold : Drop a feature when |corr| with an earlier kept one exceeds this. Default = 0.9
// --method    : Correlation method: "pearson", "kendall" or "spearman"
// --scale     : Standardize the surviving columns after selection
// --config    : YAML config file (falls back to $DSHELP_CONFIG)
// --log-level : trace, debug, info, warn or error
//
// Precedence: flags, then DSHELP_* env, then the config file, then defaults.
//
// Example:
//   go run ./cmd/corrsel --in features.csv --out selected.csv --threshold 0.85 --method spearman
//
// ---------------------------------------------------------------------
//

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "corrsel:", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("corrsel", flag.ContinueOnError)
	fs.SetOutput(stderr)
	in := fs.String("in", "", "input CSV (default stdin)")
	out := fs.String("out", "", "output CSV (default stdout)")
	cfgPath := fs.String("config", "", "YAML config file")
	threshold := fs.Float64("threshold", dataprep.DefaultThreshold, "absolute correlation threshold")
	method := fs.String("method", string(stats.MethodPearson), "pearson, kendall or spearman")
	scale := fs.Bool("scale", false, "standardize the selected columns")
	logLevel := fs.String("log-level", "", "log level")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "threshold":
			cfg.Corr.Threshold = *threshold
		case "method":
			cfg.Corr.Method = *method
		case "scale":
			cfg.Corr.Scale = *scale
		case "log-level":
			cfg.Log.Level = *logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logging.NewWithWriter(cfg.Log, stderr)
	if err != nil {
		return err
	}
	m, err := stats.ParseMethod(cfg.Corr.Method)
	if err != nil {
		return err
	}

	var frame *core.Frame
	if *in == "" {
		frame, err = data.ReadFrame(stdin)
	} else {
		frame, err = data.LoadFrame(*in)
	}
	if err != nil {
		return err
	}
	rows, cols := frame.Dims()
	log.Info().Int("rows", rows).Int("columns", cols).Msg("features loaded")

	removal := dataprep.NewHighCorrRemoval(
		dataprep.CorrConfig{Threshold: cfg.Corr.Threshold, Method: m},
		dataprep.WithLogger(log),
	)
	steps := []pipeline.Transformer{removal}
	if cfg.Corr.Scale {
		steps = append(steps, stats.NewStandardScaler())
	}
	result, err := pipeline.NewPipeline(steps...).FitTransform(frame)
	if err != nil {
		return err
	}

	sel, _ := removal.Selection()
	log.Info().
		Strs("selected", sel.Features).
		Strs("correlated", sel.Correlated).
		Strs("constant", sel.Constant).
		Msg("features selected")

	if *out == "" {
		return data.WriteFrame(stdout, result)
	}
	file, err := os.Create(*out)
	if err != nil {
		return err
	}
	if err := data.WriteFrame(file, result); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	log.Info().Str("path", *out).Msg("selected features written")
	return nil
}
