package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/samber/lo"

	"leadtimecli/internal/analytics"
	"leadtimecli/internal/config"
	"leadtimecli/internal/dataprocessing"
	apperrors "leadtimecli/internal/errors"
	"leadtimecli/internal/infrastructure"
	"leadtimecli/internal/pipeline"
	"leadtimecli/internal/services"
	"leadtimecli/pkg/contracts"
	"leadtimecli/pkg/contracts/domain"
)

// options are the parsed command line flags
type options struct {
	In       string
	Out      string
	Filter   analytics.Filter
	Top      int
	Workbook bool
	Version  bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", slog.String("error", err.Error()))
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	if err := run(ctx, cfg, os.Args[1:], os.Stdout, logger); err != nil {
		infrastructure.WithError(logger, err).Error("Lead time report failed")
		os.Exit(1)
	}
}

// run executes one batch report. It is main without the process concerns.
func run(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer, logger *slog.Logger) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}
	if opts.Version {
		fmt.Fprintln(stdout, contracts.GetVersionString())
		return nil
	}

	// No scrape endpoint in batch mode; spans still go to the configured exporter
	telemetry := cfg.Telemetry
	telemetry.EnableMetrics = false
	providers, err := infrastructure.InitializeOTel(telemetry, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	defer providers.Shutdown(context.WithoutCancel(ctx))

	ctx = infrastructure.EnsureTraceID(ctx)

	data, err := os.ReadFile(opts.In)
	if err != nil {
		return apperrors.NewParsingError("failed to read input file", err).WithContext("path", opts.In)
	}

	format, err := dataprocessing.DetectFormat(opts.In, mime.TypeByExtension(filepath.Ext(opts.In)), data)
	if err != nil {
		return apperrors.NewAppValidationError(err.Error()).WithContext("path", opts.In)
	}

	logger.InfoContext(ctx, "Starting lead time report",
		slog.String("input", opts.In),
		slog.String("format", string(format)),
		slog.String("output_dir", opts.Out),
		slog.Bool("workbook", opts.Workbook))

	p, err := pipeline.New(logger, cfg.Pipeline)
	if err != nil {
		return err
	}
	svc := services.NewAnalysisService(p, logger)

	result, err := svc.Analyze(ctx, pipeline.Request{
		Data:   data,
		Format: format,
		Filter: opts.Filter,
		TopN:   opts.Top,
	})
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "Normalization report",
		slog.Int("rows_read", result.Report.RowsRead),
		slog.Int("duplicates", result.Report.Duplicates),
		slog.Int("invalid_dates", result.Report.InvalidDates),
		slog.Int("brand_filtered", result.Report.BrandFiltered),
		slog.Int("ship_dates_defaulted", result.Report.ShipDatesDefaulted),
		slog.Int("rows_final", result.Report.RowsFinal),
		slog.Int("matched", result.Matched))

	files, err := svc.WriteReports(ctx, result, services.ReportOptions{
		Dir:      opts.Out,
		Now:      time.Now(),
		Workbook: opts.Workbook,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, result.Message)
	fmt.Fprintf(stdout, "%d records after filters.\n", result.Matched)
	for _, path := range lo.Compact([]string{files.CSV, files.Summary, files.Context, files.Workbook}) {
		fmt.Fprintf(stdout, "wrote %s\n", path)
	}
	return nil
}

// parseFlags reads args into options. A -brands or -channels flag that is
// given but blank selects nothing; an absent one places no constraint.
func parseFlags(args []string) (options, error) {
	fs := flag.NewFlagSet("leadtime", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	in := fs.String("in", "", "input file (.csv or .xlsx)")
	out := fs.String("out", "output", "output directory")
	from := fs.String("from", "", "first event date to keep, YYYY-MM-DD")
	to := fs.String("to", "", "last event date to keep, YYYY-MM-DD")
	brands := fs.String("brands", "", "comma separated brands to keep")
	channels := fs.String("channels", "", "comma separated channel groups to keep (WEBSHOP, HOME_CENTER, OTHER)")
	top := fs.Int("top", 0, "size of the slowest-records list (0 uses the configured default)")
	workbook := fs.Bool("xlsx", false, "also write the XLSX summary workbook")
	version := fs.Bool("version", false, "print version information and exit")

	if err := fs.Parse(args); err != nil {
		return options{}, apperrors.NewAppValidationError(err.Error())
	}
	if *version {
		return options{Version: true}, nil
	}
	if *in == "" {
		return options{}, apperrors.NewAppValidationError("-in is required")
	}
	if *top < 0 {
		return options{}, apperrors.NewAppValidationError("-top must not be negative")
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	opts := options{
		In:       filepath.Clean(*in),
		Out:      *out,
		Top:      *top,
		Workbook: *workbook,
	}

	var err error
	if opts.Filter.From, err = parseDay("from", *from); err != nil {
		return options{}, err
	}
	if opts.Filter.To, err = parseDay("to", *to); err != nil {
		return options{}, err
	}
	if set["brands"] {
		opts.Filter.Brands = splitList(*brands)
	}
	if set["channels"] {
		opts.Filter.Channels = lo.Map(splitList(*channels), func(c string, _ int) domain.ChannelGroup {
			return domain.ChannelGroup(strings.ToUpper(c))
		})
	}

	if err := opts.Filter.Validate(); err != nil {
		return options{}, err
	}
	return opts, nil
}

func parseDay(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	day, err := time.Parse(domain.DayLayout, value)
	if err != nil {
		return time.Time{}, apperrors.NewAppValidationError(fmt.Sprintf("-%s must be a date in YYYY-MM-DD form", name))
	}
	return day, nil
}

func splitList(value string) []string {
	return lo.Compact(lo.Map(strings.Split(value, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	}))
}
