package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"harextract/internal/archive"
	"harextract/internal/logging"
	"harextract/internal/playlist"
	"harextract/internal/remux"
	"harextract/internal/services"
	"harextract/internal/staging"
)

// run carries the mutable state of one extraction.
type run struct {
	opts   Options
	base   *slog.Logger
	logger *slog.Logger
	area   *staging.Area
	report Report

	manifest     *playlist.Manifest
	manifestName string
}

// Run extracts the archive named by opts, reconciles the last manifest it
// holds against the staged segments and, when the missing-segment policy
// allows, remuxes the result. Policy aborts are reported through
// Report.Outcome with a nil error.
func Run(ctx context.Context, opts Options) (Report, error) {
	started := time.Now()
	if err := opts.validate(); err != nil {
		return Report{}, err
	}

	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	ctx = services.WithArchive(ctx, opts.ArchivePath)

	base := opts.Logger
	if base == nil {
		base = logging.NewNop()
	}
	base = logging.NewComponentLogger(base, "workflow")

	r := &run{
		opts:   opts,
		base:   base,
		logger: logging.WithContext(services.WithStage(ctx, "extract"), base),
		report: Report{
			RunID:      runID,
			OutputPath: opts.OutputPath,
			StagingDir: opts.stagingDir(),
		},
	}

	if err := r.extract(ctx); err != nil {
		return r.finish(started), err
	}
	if r.manifest == nil {
		r.report.Outcome = OutcomeAbortedNoManifest
		logging.WarnWithContext(r.logger, "no manifest found, not remuxing", "manifest_missing",
			logging.Int("entries", r.report.Entries),
			logging.Int("segments", r.report.Segments),
			logging.String(logging.FieldErrorHint, "check the manifest_suffixes setting and that the capture includes the playlist request"),
			logging.String(logging.FieldImpact, "no output written; staged segments kept"),
		)
		return r.finish(started), nil
	}

	r.reconcile()
	if !r.report.Outcome.Proceeds() {
		return r.finish(started), nil
	}

	remuxCtx := services.WithStage(ctx, "remux")
	if err := r.remux(remuxCtx); err != nil {
		return r.finish(started), err
	}
	return r.finish(started), nil
}

func (r *run) finish(started time.Time) Report {
	r.report.Duration = time.Since(started)
	return r.report
}

func (r *run) extract(ctx context.Context) error {
	rc, kind, err := archive.Open(r.opts.ArchivePath)
	if err != nil {
		marker := services.ErrValidation
		if errors.Is(err, os.ErrNotExist) {
			marker = services.ErrNotFound
		}
		return services.Wrap(marker, "extract", "open archive", r.opts.ArchivePath, err)
	}
	defer rc.Close()
	r.report.Compression = kind

	area, err := staging.Open(r.report.StagingDir, r.logger)
	if err != nil {
		return services.Wrap(services.ErrValidation, "extract", "open staging", r.report.StagingDir, err)
	}
	defer area.Close()
	r.area = area

	r.logger.Info("extracting archive",
		logging.String("archive", r.opts.ArchivePath),
		logging.String("compression", string(kind)),
		logging.String("staging_dir", area.Dir()),
		logging.String("output", r.opts.OutputPath),
		logging.String(logging.FieldEventType, "extract_start"),
	)

	ex := archive.NewExtractor(rc, r.opts.filter())
	for ex.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.handle(ex.Resource()); err != nil {
			return err
		}
	}
	r.report.Entries = ex.Entries()
	r.report.Bytes = area.Bytes()
	if err := ex.Err(); err != nil {
		return services.Wrap(services.ErrValidation, "extract", "scan archive", "", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.logger.Info("archive scanned",
		logging.Int("entries", ex.Entries()),
		logging.Int("resources", r.report.Resources),
		logging.Int("segments", r.report.Segments),
		logging.Int("skipped", ex.Skipped()),
		logging.Int64("staged_bytes", area.Bytes()),
		logging.String(logging.FieldEventType, "extract_complete"),
	)
	return nil
}

func (r *run) handle(res archive.Resource) error {
	name := res.Name()
	if name == "" {
		logging.WarnWithContext(r.logger, "resource has no file name, skipping", "resource_unnamed",
			logging.String("url", res.URL),
			logging.String(logging.FieldImpact, "resource not staged"),
		)
		return nil
	}
	r.report.Resources++

	if archive.HasSuffix(res.Path, r.opts.ManifestSuffixes...) {
		return r.stageManifest(name, res)
	}
	return r.stageSegment(name, res)
}

func (r *run) stageManifest(name string, res archive.Resource) error {
	m, err := playlist.Parse(res.Data)
	if err != nil {
		return services.Wrap(services.ErrValidation, "extract", "parse manifest", name, err)
	}
	if m.Kind() == playlist.KindMaster {
		logging.WarnWithContext(r.logger, "master playlist has no segments of its own", "manifest_master",
			logging.String("name", name),
			logging.Int("variants", m.Variants()),
			logging.String(logging.FieldErrorHint, "set manifest_suffixes so the media playlist is captured last"),
			logging.String(logging.FieldImpact, "variant playlists are not followed"),
		)
	}

	// Stage the rewritten copy so ffmpeg reads local names.
	playlist.Rewrite(m)
	staged, err := r.area.Write(name, m.Encode())
	if err != nil {
		return fmt.Errorf("stage manifest %s: %w", name, err)
	}
	if r.manifest != nil {
		r.logger.Debug("later manifest replaces earlier one",
			logging.String("previous", r.manifestName),
			logging.String("name", name),
		)
	}
	r.manifest = m
	r.manifestName = name
	r.report.Manifest = name
	r.report.ManifestPath = staged.Path
	r.logger.Debug("staged manifest",
		logging.String("name", name),
		logging.String("kind", string(m.Kind())),
		logging.Int("segments", len(m.Segments())),
	)
	return nil
}

func (r *run) stageSegment(name string, res archive.Resource) error {
	staged, err := r.area.Write(name, res.Data)
	if err != nil {
		return fmt.Errorf("stage segment %s: %w", name, err)
	}
	if !staged.Replaced {
		r.report.Segments++
	}

	if staged.Changed {
		logging.WarnWithContext(r.logger, "segment name reused with different content", "segment_overwritten",
			logging.String("name", name),
			logging.String("url", res.URL),
			logging.String(logging.FieldImpact, "the last captured copy is kept"),
		)
	}
	if strings.HasPrefix(staged.MediaType, "text/") {
		logging.WarnWithContext(r.logger, "segment looks like text, not media", "segment_suspect",
			logging.String("name", name),
			logging.String("media_type", staged.MediaType),
			logging.String(logging.FieldErrorHint, "the capture may contain an error page instead of the segment"),
			logging.String(logging.FieldImpact, "remux may fail or drop this segment"),
		)
	}
	r.logger.Debug("staged segment",
		logging.String("name", name),
		logging.Int64("bytes", staged.Bytes),
	)
	return nil
}

func (r *run) reconcile() {
	persisted := make(map[string]struct{})
	for _, name := range r.area.Names() {
		persisted[name] = struct{}{}
	}
	missing := playlist.Missing(r.manifest, persisted)
	outcome := Decide(missing, r.opts.MissingThreshold)
	r.report.Missing = missing
	r.report.Outcome = outcome

	switch outcome {
	case OutcomeAbortedTooManyMissing:
		logging.ErrorWithContext(r.logger, "too many segments missing, not remuxing", "segments_missing_abort",
			logging.Int("missing", len(missing)),
			logging.Int("threshold", r.opts.MissingThreshold),
			logging.String("manifest", r.manifestName),
			logging.String(logging.FieldErrorHint, "recapture the session or raise remux.missing_threshold"),
		)
	case OutcomeProceededWithWarnings:
		logging.WarnWithContext(r.logger, "missing segments", "segments_missing",
			logging.String("names", strings.Join(missing, ", ")),
			logging.Int("missing", len(missing)),
			logging.Int("threshold", r.opts.MissingThreshold),
			logging.String(logging.FieldImpact, "output will have gaps"),
		)
	default:
		r.logger.Info("all segments recovered",
			logging.Int("segments", len(r.manifest.Segments())),
			logging.String(logging.FieldEventType, "segments_complete"),
		)
	}
}

func (r *run) remux(ctx context.Context) error {
	runner := r.opts.Remuxer
	if runner == nil {
		runner = remux.NewFFmpeg(remux.WithLogger(r.logger))
	}
	logger := logging.WithContext(ctx, r.base)
	logger.Info("remuxing",
		logging.String("manifest", r.report.ManifestPath),
		logging.String("output", r.opts.OutputPath),
		logging.String(logging.FieldEventType, "remux_start"),
	)
	if err := runner.Remux(ctx, r.report.ManifestPath, r.opts.OutputPath, r.opts.Verbose); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		logging.ErrorWithContext(logger, "remux failed", "remux_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "rerun with --verbose to see ffmpeg output"),
		)
		return err
	}
	logger.Info("remux complete",
		logging.String("output", r.opts.OutputPath),
		logging.String(logging.FieldEventType, "remux_complete"),
	)
	return nil
}
