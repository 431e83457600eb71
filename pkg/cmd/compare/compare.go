package compare

import (
	"context"
	"fmt"
	"io"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/iracelog-gap-analysis/log"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/analysis"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/config"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/loader"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/model"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/output"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/publish"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/render"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/store/setup"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/utils/cache/resultcache"
)

type cmdConfig struct {
	format       string
	decimals     int32
	selectExpr   string
	plotFile     string
	plotChannels []string
	noCache      bool
}

func NewCompareCmd() *cobra.Command {
	cc := &cmdConfig{}
	cmd := &cobra.Command{
		Use:   "compare <lap-a> <lap-b>",
		Short: "compares lap A against lap B",
		Long: `Aligns both laps on a shared distance grid and derives the gap channels.
All differentials are A - B. Files are read as JSON or CSV by their extension.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd.Context(), cmd.OutOrStdout(), cc, args[0], args[1])
		},
	}

	cmd.Flags().IntVar(&config.MaxPoints,
		"max-points",
		config.DefaultMaxPoints,
		"upper bound for the number of grid points")
	cmd.Flags().BoolVar(&config.AllowUpsampling,
		"upsample",
		false,
		"allow more grid points than the laps provide")
	cmd.Flags().IntVar(&config.SegmentCount,
		"segments",
		config.DefaultSegmentCount,
		"number of segments for trend summaries")
	cmd.Flags().StringVar(&config.Estimator,
		"estimator",
		string(model.EstimatorAuto),
		"cumulative gap estimator (auto, time, path, none)")
	cmd.Flags().StringVar(&config.PrimaryChannel,
		"primary",
		string(model.GapSpeedDiff),
		"gap channel used for extrema and segment summaries")
	cmd.Flags().Float64Var(&config.DistanceSlope,
		"distance-slope",
		config.DefaultDistanceSlope,
		"trend threshold for distance based channels")
	cmd.Flags().Float64Var(&config.PercentSlope,
		"percent-slope",
		config.DefaultPercentSlope,
		"trend threshold for throttle and brake differences")
	cmd.Flags().StringToStringVar(&config.ChannelSlopes,
		"channel-slope",
		nil,
		"trend threshold per gap channel, e.g. time_diff=0.05")
	cmd.Flags().StringVar(&config.PublishSubject,
		"publish-subject",
		"",
		"if set, the report is published to this NATS subject")

	cmd.Flags().StringVarP(&cc.format,
		"output",
		"o",
		string(output.FormatTable),
		"output format (json, yaml, table)")
	cmd.Flags().Int32Var(&cc.decimals,
		"decimals",
		2,
		"decimal places in table output")
	cmd.Flags().StringVar(&cc.selectExpr,
		"select",
		"",
		"JSONPath expression applied to the report, e.g. $.gap_result.stats")
	cmd.Flags().StringVar(&cc.plotFile,
		"plot",
		"",
		"write a PNG chart to this file")
	cmd.Flags().StringSliceVar(&cc.plotChannels,
		"plot-channels",
		nil,
		"gap channels drawn in the chart (default: primary)")
	cmd.Flags().BoolVar(&cc.noCache,
		"no-cache",
		false,
		"do not read or write the result store")
	return cmd
}

//nolint:whitespace,funlen // editor/linter issue
func runCompare(
	ctx context.Context, out io.Writer, cc *cmdConfig, fileA, fileB string,
) error {
	if ctx == nil {
		ctx = context.Background()
	}
	format, err := output.ParseFormat(cc.format)
	if err != nil {
		return err
	}
	cfg, err := config.AnalysisFromFlags()
	if err != nil {
		return err
	}
	a, err := loader.Load(fileA)
	if err != nil {
		return err
	}
	b, err := loader.Load(fileB)
	if err != nil {
		return err
	}

	logger := log.Default()
	var nc *nats.Conn
	defer func() {
		if nc != nil {
			nc.Close()
		}
	}()
	opts := []analysis.Option{analysis.WithLogger(logger.Named("analysis"))}
	if !cc.noCache {
		s, storeConn, err := setup.Open(config.CacheFromFlags(), logger)
		if err != nil {
			return err
		}
		defer s.Close()
		nc = storeConn
		opts = append(opts, analysis.WithCache(resultcache.New[model.Report](
			resultcache.WithStore[model.Report](s),
			resultcache.WithLogger[model.Report](logger.Named("cache")))))
	}

	rep, err := analysis.New(opts...).Analyze(ctx, &analysis.Request{A: a, B: b, Config: cfg})
	if err != nil {
		return err
	}

	if cc.plotFile != "" {
		chs := make([]model.GapChannel, len(cc.plotChannels))
		for i, c := range cc.plotChannels {
			chs[i] = model.GapChannel(c)
		}
		if err := render.New(render.WithChannels(chs...)).RenderFile(cc.plotFile, rep); err != nil {
			return fmt.Errorf("plot: %w", err)
		}
		logger.Info("chart written", log.String("file", cc.plotFile))
	}

	if config.PublishSubject != "" {
		if nc == nil {
			if nc, err = nats.Connect(config.NatsURL, nats.Name("iga")); err != nil {
				return fmt.Errorf("connect to nats %s: %w", config.NatsURL, err)
			}
		}
		p, err := publish.NewNatsPublisher(nc, config.PublishSubject, logger)
		if err != nil {
			return err
		}
		if err := p.Publish(ctx, rep); err != nil {
			return fmt.Errorf("publish: %w", err)
		}
	}

	if cc.selectExpr != "" {
		v, err := output.Select(rep, cc.selectExpr)
		if err != nil {
			return err
		}
		return output.WriteSelection(out, v)
	}
	return output.Write(out, rep, format, cc.decimals)
}
