package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/medvoz/medscribe/internal/audio"
	"github.com/medvoz/medscribe/internal/render"
	"github.com/medvoz/medscribe/internal/transcript"
)

// Process runs one inbox file through the full pipeline: normalize,
// segment, recognize, stitch, refine, persist and export. Artifacts of
// the same recording share a deterministic base name, so reprocessing a
// file overwrites its earlier artifacts instead of duplicating them.
func (p *implPipeline) Process(ctx context.Context, path string) error {
	start := time.Now()
	name := filepath.Base(path)
	owner, subject := identityFromFilename(name, p.cfg.Performance.DefaultOwner)

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Processing dictation: %s (owner=%s, subject=%s)", name, owner, subject)
	p.logger.Info(ctx, "========================================")

	rec := audio.Recording{
		ID:        uuid.NewString(),
		OwnerID:   owner,
		Subject:   subject,
		CreatedAt: time.Now(),
	}

	outcome := "failed"
	segmentCount := 0
	defer func() {
		p.metrics.RecordRecordingProcessed(outcome, time.Since(start), rec.DurationMs, segmentCount)
	}()

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	// Step 1: Normalize to 16kHz mono PCM
	p.logger.Info(ctx, "Normalizing audio...")
	rawFallback := false
	wav, durationMs, err := p.normalizer.Normalize(ctx, raw)
	switch {
	case err == nil:
		rec.Audio = wav
		rec.DurationMs = durationMs
	case errors.Is(err, audio.ErrInputTooSmall):
		return fmt.Errorf("failed to normalize %s: %w", name, err)
	default:
		var decodeErr *audio.DecodeError
		if !errors.As(err, &decodeErr) {
			return fmt.Errorf("failed to normalize %s: %w", name, err)
		}
		// The recognition service accepts several container formats
		// directly, so a local decode failure is not fatal.
		p.logger.Warn(ctx, "Normalization failed (%s), sending original bytes as-is", decodeErr.Reason)
		rec.Audio = raw
		rawFallback = true
	}

	base := artifactBase(rec)
	p.locks.lock(base)
	defer p.locks.unlock(base)

	// Step 2: Persist the recording
	recordingPath, err := p.store.saveRecording(base, rec.Audio)
	if err != nil {
		return err
	}
	p.logger.Info(ctx, "Recording saved: %s", recordingPath)

	// Step 3: Split into recognizer-sized windows
	var segments []audio.Segment
	if rawFallback {
		segments = []audio.Segment{{RecordingID: rec.ID, Index: 0, Audio: rec.Audio}}
	} else {
		segments, err = audio.Split(rec)
		if err != nil {
			return fmt.Errorf("failed to segment audio: %w", err)
		}
	}
	segmentCount = len(segments)

	// Step 4: Recognize each segment in order
	p.logger.Info(ctx, "Recognizing %d segment(s)...", len(segments))
	fragments := make([]transcript.Fragment, 0, len(segments))
	for _, seg := range segments {
		if ctx.Err() != nil {
			return fmt.Errorf("recognition interrupted: %w", ctx.Err())
		}
		fragments = append(fragments, p.recognizer.Recognize(ctx, seg))
	}

	// Step 5: Stitch fragments into one transcript
	text := transcript.Stitch(fragments)
	if p.cfg.Refine.AutoImprove {
		text = p.refiner.Improve(ctx, text)
	}

	tr := transcript.Transcript{
		RecordingID: rec.ID,
		OwnerID:     rec.OwnerID,
		Text:        text,
		CreatedAt:   time.Now(),
	}
	transcriptPath, err := p.store.saveTranscript(base, tr)
	if err != nil {
		return err
	}
	p.logger.Info(ctx, "Transcript saved: %s", transcriptPath)

	// Step 6: Summarize and export
	if p.cfg.Refine.AutoSummary {
		switch {
		case !p.refiner.Available():
			p.logger.Warn(ctx, "Skipping summary: no generative API keys configured")
		case transcript.IsFailureMarker(tr.Text):
			p.logger.Warn(ctx, "Skipping summary: transcript is a failure marker")
		default:
			p.logger.Info(ctx, "Generating summary...")
			summary, err := p.refiner.Summarize(ctx, tr.Text, p.cfg.Refine.Instruction)
			if err != nil {
				return fmt.Errorf("failed to summarize: %w", err)
			}
			summaryPath, err := p.store.saveSummary(base, summary)
			if err != nil {
				return err
			}
			p.logger.Info(ctx, "Summary saved: %s", summaryPath)
			if _, err := p.store.saveFullRecord(base, tr.Text, summary, time.Now()); err != nil {
				return err
			}
			p.exportSummary(ctx, base, summary)
		}
	}

	p.archive(ctx, path)
	outcome = "completed"

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Completed %s in %s (%d segment(s))", name, time.Since(start).Round(time.Millisecond), len(segments))
	p.logger.Info(ctx, "========================================")
	return nil
}

// exportSummary renders the summary in every configured format. Export
// failures are logged and skipped; the text artifacts already exist.
func (p *implPipeline) exportSummary(ctx context.Context, base, summary string) {
	doc := render.NewDocument(p.cfg.Export.Title, summary, time.Now())
	for _, format := range p.cfg.Export.Formats {
		enc, err := render.EncodingFromString(format)
		if err != nil {
			p.logger.Warn(ctx, "Skipping export: %v", err)
			continue
		}
		data, err := render.Render(doc, enc)
		if err != nil {
			p.logger.Warn(ctx, "Failed to render %s export: %v", enc, err)
			continue
		}
		exportPath, err := p.store.saveExport(base, enc, data)
		if err != nil {
			p.logger.Warn(ctx, "Failed to save %s export: %v", enc, err)
			continue
		}
		p.metrics.RecordExport(enc.String())
		p.logger.Info(ctx, "Export saved: %s", exportPath)
	}
}

// archive moves a handled inbox file out of the watched directory so it
// is not picked up again on restart.
func (p *implPipeline) archive(ctx context.Context, path string) {
	target := filepath.Join(p.cfg.Paths.Archived, filepath.Base(path))
	if err := os.Rename(path, target); err != nil {
		p.logger.Warn(ctx, "Failed to archive %s: %v", filepath.Base(path), err)
		return
	}
	p.logger.Debug(ctx, "Archived input: %s", target)
}
