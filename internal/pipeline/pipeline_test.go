package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/medvoz/medscribe/internal/audio"
	"github.com/medvoz/medscribe/internal/config"
	"github.com/medvoz/medscribe/internal/logger"
	"github.com/medvoz/medscribe/internal/transcript"
)

type fakeNormalizer struct {
	wav        []byte
	durationMs int64
	err        error
	calls      int
}

func (f *fakeNormalizer) Normalize(_ context.Context, _ []byte) ([]byte, int64, error) {
	f.calls++
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.wav, f.durationMs, nil
}

type fakeRecognizer struct {
	fragments []transcript.Fragment
	gotSegs   []audio.Segment
}

func (f *fakeRecognizer) Recognize(_ context.Context, seg audio.Segment) transcript.Fragment {
	f.gotSegs = append(f.gotSegs, seg)
	if seg.Index < len(f.fragments) {
		frag := f.fragments[seg.Index]
		frag.Index = seg.Index
		return frag
	}
	return transcript.Fragment{
		Index:  seg.Index,
		Status: transcript.StatusOK,
		Text:   fmt.Sprintf("texto %d", seg.Index),
	}
}

type fakeRefiner struct {
	available    bool
	improved     string
	summary      string
	summaryErr   error
	improveCalls int
	summaryCalls int
	gotText      string
	gotInstr     string
}

func (f *fakeRefiner) Available() bool { return f.available }

func (f *fakeRefiner) Improve(_ context.Context, text string) string {
	f.improveCalls++
	if f.improved != "" {
		return f.improved
	}
	return text
}

func (f *fakeRefiner) Summarize(_ context.Context, text, instruction string) (string, error) {
	f.summaryCalls++
	f.gotText = text
	f.gotInstr = instruction
	if f.summaryErr != nil {
		return "", f.summaryErr
	}
	return f.summary, nil
}

func newTestPipeline(t *testing.T, n *fakeNormalizer, r *fakeRecognizer, ref *fakeRefiner) (Pipeline, *config.Config) {
	t.Helper()
	root := t.TempDir()
	cfg := &config.Config{
		Paths: config.PathsConfig{
			Inbox:       filepath.Join(root, "inbox"),
			Recordings:  filepath.Join(root, "recordings"),
			Transcripts: filepath.Join(root, "transcripts"),
			Exports:     filepath.Join(root, "exports"),
			Archived:    filepath.Join(root, "archived"),
			Temp:        root,
		},
		Recognition: config.RecognitionConfig{Endpoint: "http://127.0.0.1:0/recognize"},
		Refine:      config.RefineConfig{AutoImprove: true, AutoSummary: true},
		Export:      config.ExportConfig{Formats: []string{"pdf"}},
		Performance: config.PerformanceConfig{DefaultOwner: "clinic"},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config: %v", err)
	}
	for _, dir := range []string{
		cfg.Paths.Inbox, cfg.Paths.Recordings, cfg.Paths.Transcripts,
		cfg.Paths.Exports, cfg.Paths.Archived,
	} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
	}
	return New(cfg, n, r, ref, logger.New("error"), nil), cfg
}

func writeInbox(t *testing.T, cfg *config.Config, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(cfg.Paths.Inbox, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func shortWAV(t *testing.T) []byte {
	t.Helper()
	wav, err := audio.EncodeWAV(make([]int16, 3200), audio.TargetSampleRate)
	if err != nil {
		t.Fatal(err)
	}
	return wav
}

// findArtifact returns the single file in dir whose name has the given
// suffix, failing the test when none or several match.
func findArtifact(t *testing.T, dir, suffix string) string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var found []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), suffix) {
			found = append(found, filepath.Join(dir, e.Name()))
		}
	}
	if len(found) != 1 {
		t.Fatalf("want exactly one %q artifact in %s, got %v", suffix, dir, found)
	}
	return found[0]
}

func TestProcessHappyPath(t *testing.T) {
	norm := &fakeNormalizer{wav: shortWAV(t), durationMs: 200}
	rec := &fakeRecognizer{fragments: []transcript.Fragment{
		{Status: transcript.StatusOK, Text: "paciente relata dor lombar"},
	}}
	ref := &fakeRefiner{
		available: true,
		improved:  "paciente relata dor lombar há três dias",
		summary:   "## RESUMO DA CONSULTA\n\n**Data:** 12/03/2026",
	}
	pipe, cfg := newTestPipeline(t, norm, rec, ref)
	cfg.Refine.Instruction = "foque em alergias"
	input := writeInbox(t, cfg, "dr_silva__maria__nota.wav", []byte("fake-upload"))

	if err := pipe.Process(context.Background(), input); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if len(rec.gotSegs) != 1 {
		t.Fatalf("recognized %d segments, want 1", len(rec.gotSegs))
	}

	trPath := findArtifact(t, cfg.Paths.Transcripts, "_transcript.txt")
	if !strings.Contains(filepath.Base(trPath), "dr_silva_maria_") {
		t.Errorf("transcript name %q should carry owner and subject", filepath.Base(trPath))
	}
	trContent, err := os.ReadFile(trPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(trContent) != "paciente relata dor lombar há três dias" {
		t.Errorf("transcript = %q, want improved text", trContent)
	}

	if ref.gotText != "paciente relata dor lombar há três dias" {
		t.Errorf("summary received %q, want the improved transcript", ref.gotText)
	}
	if ref.gotInstr != "foque em alergias" {
		t.Errorf("summary instruction = %q", ref.gotInstr)
	}

	sumPath := findArtifact(t, cfg.Paths.Transcripts, "_summary.txt")
	sumContent, err := os.ReadFile(sumPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(sumContent) != ref.summary {
		t.Errorf("summary = %q", sumContent)
	}
	findArtifact(t, cfg.Paths.Transcripts, "_full_record.txt")

	pdfPath := findArtifact(t, cfg.Paths.Exports, "_summary.pdf")
	pdf, err := os.ReadFile(pdfPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Error("export is not a PDF")
	}

	recPath := findArtifact(t, cfg.Paths.Recordings, ".wav")
	recContent, err := os.ReadFile(recPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(recContent, norm.wav) {
		t.Error("saved recording should hold the normalized audio")
	}

	if _, err := os.Stat(input); !os.IsNotExist(err) {
		t.Error("input should have been archived out of the inbox")
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.Archived, "dr_silva__maria__nota.wav")); err != nil {
		t.Errorf("archived copy missing: %v", err)
	}
}

func TestProcessTinyInputIsTerminal(t *testing.T) {
	norm := &fakeNormalizer{err: &audio.DecodeError{
		Reason: "input smaller than 1000 bytes",
		Err:    audio.ErrInputTooSmall,
	}}
	rec := &fakeRecognizer{}
	pipe, cfg := newTestPipeline(t, norm, rec, &fakeRefiner{})
	input := writeInbox(t, cfg, "blip.wav", []byte("x"))

	err := pipe.Process(context.Background(), input)
	if !errors.Is(err, audio.ErrInputTooSmall) {
		t.Fatalf("err = %v, want ErrInputTooSmall", err)
	}
	if len(rec.gotSegs) != 0 {
		t.Error("recognition should not run for rejected input")
	}

	entries, err := os.ReadDir(cfg.Paths.Recordings)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Error("no artifacts should be written for rejected input")
	}
	if _, err := os.Stat(input); err != nil {
		t.Error("rejected input should stay in the inbox")
	}
}

func TestProcessRawFallback(t *testing.T) {
	raw := []byte("not-a-wav-container")
	norm := &fakeNormalizer{err: &audio.DecodeError{
		Reason: "ffmpeg conversion failed",
		Err:    errors.New("exit status 1"),
	}}
	rec := &fakeRecognizer{fragments: []transcript.Fragment{
		{Status: transcript.StatusOK, Text: "transcrito do original"},
	}}
	pipe, cfg := newTestPipeline(t, norm, rec, &fakeRefiner{})
	cfg.Refine.AutoImprove = false
	cfg.Refine.AutoSummary = false
	input := writeInbox(t, cfg, "gravacao.m4a", raw)

	if err := pipe.Process(context.Background(), input); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if len(rec.gotSegs) != 1 {
		t.Fatalf("recognized %d segments, want 1", len(rec.gotSegs))
	}
	if !bytes.Equal(rec.gotSegs[0].Audio, raw) {
		t.Error("fallback segment should carry the original bytes")
	}

	recPath := findArtifact(t, cfg.Paths.Recordings, ".wav")
	saved, err := os.ReadFile(recPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(saved, raw) {
		t.Error("fallback recording should hold the original bytes")
	}

	trPath := findArtifact(t, cfg.Paths.Transcripts, "_transcript.txt")
	content, err := os.ReadFile(trPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "transcrito do original" {
		t.Errorf("transcript = %q", content)
	}
}

func TestProcessSummarizeErrorAfterTranscript(t *testing.T) {
	norm := &fakeNormalizer{wav: shortWAV(t), durationMs: 200}
	rec := &fakeRecognizer{fragments: []transcript.Fragment{
		{Status: transcript.StatusOK, Text: "consulta de rotina"},
	}}
	ref := &fakeRefiner{available: true, summaryErr: errors.New("all API keys exhausted")}
	pipe, cfg := newTestPipeline(t, norm, rec, ref)
	input := writeInbox(t, cfg, "consulta.wav", []byte("fake-upload"))

	err := pipe.Process(context.Background(), input)
	if err == nil || !strings.Contains(err.Error(), "summarize") {
		t.Fatalf("err = %v, want summarize failure", err)
	}

	trPath := findArtifact(t, cfg.Paths.Transcripts, "_transcript.txt")
	if _, statErr := os.Stat(trPath); statErr != nil {
		t.Errorf("transcript should persist before the summary step: %v", statErr)
	}
	entries, readErr := os.ReadDir(cfg.Paths.Transcripts)
	if readErr != nil {
		t.Fatal(readErr)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), "_summary.txt") {
			t.Error("no summary artifact should exist after a summarize failure")
		}
	}
	if _, statErr := os.Stat(input); statErr != nil {
		t.Error("failed input should stay in the inbox")
	}
}

func TestProcessAutoChainOff(t *testing.T) {
	norm := &fakeNormalizer{wav: shortWAV(t), durationMs: 200}
	rec := &fakeRecognizer{fragments: []transcript.Fragment{
		{Status: transcript.StatusOK, Text: "sem refinamento"},
	}}
	ref := &fakeRefiner{available: true, summary: "nunca gerado"}
	pipe, cfg := newTestPipeline(t, norm, rec, ref)
	cfg.Refine.AutoImprove = false
	cfg.Refine.AutoSummary = false
	input := writeInbox(t, cfg, "consulta.wav", []byte("fake-upload"))

	if err := pipe.Process(context.Background(), input); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if ref.improveCalls != 0 {
		t.Error("Improve should not run with auto_improve off")
	}
	if ref.summaryCalls != 0 {
		t.Error("Summarize should not run with auto_summary off")
	}

	trPath := findArtifact(t, cfg.Paths.Transcripts, "_transcript.txt")
	content, err := os.ReadFile(trPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "sem refinamento" {
		t.Errorf("transcript = %q", content)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.Archived, "consulta.wav")); err != nil {
		t.Errorf("input should be archived: %v", err)
	}
}

func TestProcessSkipsSummaryForFailureMarker(t *testing.T) {
	norm := &fakeNormalizer{wav: shortWAV(t), durationMs: 200}
	rec := &fakeRecognizer{fragments: []transcript.Fragment{
		{Status: transcript.StatusTimeout},
	}}
	ref := &fakeRefiner{available: true, summary: "nunca gerado"}
	pipe, cfg := newTestPipeline(t, norm, rec, ref)
	input := writeInbox(t, cfg, "silencio.wav", []byte("fake-upload"))

	if err := pipe.Process(context.Background(), input); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if ref.summaryCalls != 0 {
		t.Error("Summarize should not run on a failure marker")
	}
	trPath := findArtifact(t, cfg.Paths.Transcripts, "_transcript.txt")
	content, err := os.ReadFile(trPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != transcript.MarkerTimeout {
		t.Errorf("transcript = %q, want bare timeout marker", content)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.Archived, "silencio.wav")); err != nil {
		t.Errorf("input should still be archived: %v", err)
	}
}

func TestProcessSegmentedTranscript(t *testing.T) {
	// 61s at 1kHz crosses the segmentation threshold: 45s + 16s windows.
	long, err := audio.EncodeWAV(make([]int16, 61_000), 1000)
	if err != nil {
		t.Fatal(err)
	}
	norm := &fakeNormalizer{wav: long, durationMs: 61_000}
	rec := &fakeRecognizer{fragments: []transcript.Fragment{
		{Status: transcript.StatusOK, Text: "primeira parte"},
		{Status: transcript.StatusOK, Text: "segunda parte"},
	}}
	pipe, cfg := newTestPipeline(t, norm, rec, &fakeRefiner{})
	cfg.Refine.AutoImprove = false
	cfg.Refine.AutoSummary = false
	input := writeInbox(t, cfg, "longa.wav", []byte("fake-upload"))

	if err := pipe.Process(context.Background(), input); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(rec.gotSegs) != 2 {
		t.Fatalf("recognized %d segments, want 2", len(rec.gotSegs))
	}

	trPath := findArtifact(t, cfg.Paths.Transcripts, "_transcript.txt")
	content, err := os.ReadFile(trPath)
	if err != nil {
		t.Fatal(err)
	}
	want := "[Segment 1] primeira parte\n\n[Segment 2] segunda parte"
	if string(content) != want {
		t.Errorf("transcript = %q, want %q", content, want)
	}
}
