package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dmerty/ds-help-utils/pkg/config"
	"github.com/dmerty/ds-help-utils/pkg/data"
	"github.com/dmerty/ds-help-utils/pkg/logging"
	"github.com/dmerty/ds-help-utils/pkg/metrics"
	"github.com/dmerty/ds-help-utils/pkg/report"
)

//
// ---------------------- CLI FLAGS DOCUMENTATION ----------------------
//
// --in        : Input CSV with a label and a score column. Default = stdin
// --k         : Evaluate the top K items. 0 = whole list
// --label     : Name of the true-label column (0/1). Default = label
// --score     : Name of the predicted-score column. Default = score
// --curve     : Print metrics for every K from 1 to the list length
// --plot      : Save the per-K curve to this image file (png, svg, pdf)
// --config    : YAML config file (falls back to $DSHELP_CONFIG)
// --log-level : trace, debug, info, warn or error
//
// Example:
//   go run ./cmd/rankeval --in predictions.csv --k 10 --plot ndcg.png
//
// ---------------------------------------------------------------------
//

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "rankeval:", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("rankeval", flag.ContinueOnError)
	fs.SetOutput(stderr)
	in := fs.String("in", "", "input CSV (default stdin)")
	k := fs.Int("k", 0, "evaluate the top K items, 0 = all")
	label := fs.String("label", "label", "true-label column")
	score := fs.String("score", "score", "predicted-score column")
	curve := fs.Bool("curve", false, "print metrics for every K")
	plotPath := fs.String("plot", "", "save the per-K curve to this file")
	cfgPath := fs.String("config", "", "YAML config file")
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
		case "k":
			cfg.Rank.K = *k
		case "label":
			cfg.Rank.LabelColumn = *label
		case "score":
			cfg.Rank.ScoreColumn = *score
		case "curve":
			cfg.Rank.Curve = *curve
		case "plot":
			cfg.Rank.Plot = *plotPath
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

	var yTrue, yScore []float64
	if *in == "" {
		yTrue, yScore, err = data.ReadRanking(stdin, cfg.Rank.LabelColumn, cfg.Rank.ScoreColumn)
	} else {
		yTrue, yScore, err = data.LoadRanking(*in, cfg.Rank.LabelColumn, cfg.Rank.ScoreColumn)
	}
	if err != nil {
		return err
	}
	log.Debug().Int("items", len(yTrue)).Msg("ranking loaded")

	if cfg.Rank.Curve || cfg.Rank.Plot != "" {
		points, err := metrics.Curve(yTrue, yScore)
		if err != nil {
			return err
		}
		if cfg.Rank.Plot != "" {
			if err := report.PlotCurve(points, cfg.Rank.Plot); err != nil {
				return err
			}
			log.Info().Str("path", cfg.Rank.Plot).Msg("curve saved")
		}
		if cfg.Rank.Curve {
			return report.WriteJSON(stdout, points)
		}
	}

	topK := cfg.Rank.K
	if topK == 0 {
		topK = len(yTrue)
	}
	rep, err := metrics.Evaluate(yTrue, yScore, topK)
	if err != nil {
		return err
	}
	log.Info().Int("k", rep.K).Float64("ndcg", rep.NDCG).Msg("ranking evaluated")
	return report.WriteJSON(stdout, rep)
}
