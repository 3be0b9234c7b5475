package main

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/dropzone/internal/config"
	dzerrors "github.com/vango-dev/dropzone/internal/errors"
	"github.com/vango-dev/dropzone/pkg/dropzone"
	"github.com/vango-dev/dropzone/pkg/upload"
)

type uploadOptions struct {
	url         string
	reloadDelay time.Duration
	noReload    bool
	metricsFile string
	timeout     time.Duration
}

func uploadCmd() *cobra.Command {
	var opts uploadOptions

	cmd := &cobra.Command{
		Use:   "upload <file|s3://bucket/key>...",
		Short: "Upload files the way the browser widget does",
		Long: `Upload files in one multipart form, every file under the configured
field name, and show the status list as the page would. After a
successful upload the page is fetched again once the reload delay
has passed.

At least one reference is required. The widget itself accepts an
empty selection and posts an empty form; the command treats a
missing list as a usage error instead.

References are local paths or s3://bucket/key objects. S3 credentials
are read from AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and
AWS_SESSION_TOKEN.

Examples:
  dropzone upload report.pdf photo.png
  dropzone upload s3://bucket/exports/today.csv --url=http://localhost:5000
  dropzone upload a.txt --no-reload --metrics-file=upload.prom`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runUpload(ctx, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.url, "url", "", "Page URL (default from dropzone.json server settings)")
	cmd.Flags().DurationVar(&opts.reloadDelay, "reload-delay", -1, "Delay before the reload (default from dropzone.json)")
	cmd.Flags().BoolVar(&opts.noReload, "no-reload", false, "Do not fetch the page after a successful upload")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "Write upload metrics in text format to this file")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 5*time.Minute, "Request timeout")

	return cmd
}

func runUpload(ctx context.Context, refs []string, opts uploadOptions) error {
	if len(refs) == 0 {
		return dzerrors.New("D400").
			WithSuggestion("dropzone upload report.pdf s3://bucket/photo.png")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := newLogger()

	base := opts.url
	if base == "" {
		base = cfg.URL()
	}
	if u, err := url.Parse(base); err != nil || u.Scheme == "" || u.Host == "" {
		return dzerrors.Newf(dzerrors.CategoryCLI, "invalid --url %q", base).
			WithSuggestion("Use an absolute URL such as http://localhost:5000")
	}

	files, err := newResolver(cfg, refs).Resolve(ctx, refs)
	if err != nil {
		return sourceError(err)
	}

	delay := cfg.ReloadDuration()
	if opts.reloadDelay >= 0 {
		delay = opts.reloadDelay
	}

	term := newTerminal(stdout)
	client := &http.Client{Timeout: opts.timeout}
	reloader := newPageReloader(base, client, stdout, logger)

	wopts := []dropzone.Option{
		dropzone.WithBaseURL(base),
		dropzone.WithEndpoint(cfg.Endpoint),
		dropzone.WithFieldName(cfg.FieldName),
		dropzone.WithReloadDelay(delay),
		dropzone.WithClient(client),
		dropzone.WithReloader(reloader),
		dropzone.WithLogger(logger),
		dropzone.WithContext(ctx),
	}
	if opts.noReload {
		wopts = append(wopts, dropzone.WithScheduler(dropzone.SchedulerFunc(func(time.Duration, func()) {})))
	}

	var reg *prometheus.Registry
	if opts.metricsFile != "" {
		reg = prometheus.NewRegistry()
		wopts = append(wopts, dropzone.WithMetrics(dropzone.NewMetrics(dropzone.WithRegistry(reg))))
	}

	w := dropzone.New(dropzone.Elements{Progress: term, Status: term}, wopts...)
	res := w.Submit(ctx, files)

	if reg != nil {
		if err := prometheus.WriteToTextfile(opts.metricsFile, reg); err != nil {
			errorMsg("Writing metrics to %s failed: %v", opts.metricsFile, err)
		}
	}

	if res.Outcome != dropzone.OutcomeSuccess {
		return res.Err
	}

	if !opts.noReload {
		logger.Debug("waiting for reload", "delay", delay)
		select {
		case <-reloader.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// newResolver serves local paths from the working directory and s3://
// references through an S3 client built from cfg, when any are given.
func newResolver(cfg *config.Config, refs []string) *upload.Resolver {
	var s3src upload.Source
	for _, ref := range refs {
		if strings.HasPrefix(ref, "s3://") {
			s3src = upload.NewS3Source(upload.NewS3Client(upload.S3ClientOptions{
				Region:    cfg.S3.Region,
				Endpoint:  cfg.S3.Endpoint,
				PathStyle: cfg.S3.PathStyle,
			}))
			break
		}
	}
	return upload.NewResolver(upload.DiskSource{}, s3src)
}

// sourceError maps a file source failure to its coded error.
func sourceError(err error) error {
	switch {
	case errors.Is(err, upload.ErrUnsupportedScheme):
		return dzerrors.New("D201").Wrap(err)
	case errors.Is(err, upload.ErrS3):
		return dzerrors.New("D202").Wrap(err).
			WithSuggestion("Check the bucket, the key and the AWS_* credentials")
	default:
		return dzerrors.New("D200").Wrap(err)
	}
}
