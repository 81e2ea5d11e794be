package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/medvoz/medscribe/internal/audio"
	"github.com/medvoz/medscribe/internal/config"
	"github.com/medvoz/medscribe/internal/render"
	"github.com/medvoz/medscribe/internal/transcript"
)

// DefaultSubject labels dictations whose file name carries no subject.
const DefaultSubject = "conversa"

var subjectUnsafe = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)

// SanitizeSubject strips everything but letters, digits, underscores,
// spaces and hyphens so a dictation subject is safe inside a file name.
// Accented characters survive; subjects are usually Portuguese names.
func SanitizeSubject(s string) string {
	return strings.TrimSpace(subjectUnsafe.ReplaceAllString(s, ""))
}

// identityFromFilename derives the owner and subject of an inbox file.
// Names shaped "owner__subject__anything.ext" carry both; anything else
// belongs to the default owner under the default subject.
func identityFromFilename(name, defaultOwner string) (owner, subject string) {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	if parts := strings.SplitN(stem, "__", 3); len(parts) >= 2 {
		owner = SanitizeSubject(parts[0])
		subject = SanitizeSubject(parts[1])
	}
	if owner == "" {
		owner = defaultOwner
	}
	if subject == "" {
		subject = DefaultSubject
	}
	return owner, subject
}

// artifactBase is the shared stem of every artifact derived from one
// recording. Deterministic: the same owner, subject and timestamp always
// produce the same name, so a rerun overwrites instead of duplicating.
func artifactBase(rec audio.Recording) string {
	return fmt.Sprintf("%s_%s_%s", rec.OwnerID, rec.Subject, rec.CreatedAt.Format("20060102_150405"))
}

// store lays out the derived artifacts of a recording on disk.
type store struct {
	recordingsDir  string
	transcriptsDir string
	exportsDir     string
}

func newStore(paths config.PathsConfig) *store {
	return &store{
		recordingsDir:  paths.Recordings,
		transcriptsDir: paths.Transcripts,
		exportsDir:     paths.Exports,
	}
}

func (s *store) recordingPath(base string) string {
	return filepath.Join(s.recordingsDir, base+".wav")
}

func (s *store) transcriptPath(base string) string {
	return filepath.Join(s.transcriptsDir, base+"_transcript.txt")
}

func (s *store) summaryPath(base string) string {
	return filepath.Join(s.transcriptsDir, base+"_summary.txt")
}

func (s *store) fullRecordPath(base string) string {
	return filepath.Join(s.transcriptsDir, base+"_full_record.txt")
}

func (s *store) exportPath(base string, enc render.Encoding) string {
	return filepath.Join(s.exportsDir, base+"_summary."+enc.String())
}

func (s *store) saveRecording(base string, wav []byte) (string, error) {
	path := s.recordingPath(base)
	if err := os.WriteFile(path, wav, 0644); err != nil {
		return "", fmt.Errorf("save recording: %w", err)
	}
	return path, nil
}

func (s *store) saveTranscript(base string, tr transcript.Transcript) (string, error) {
	path := s.transcriptPath(base)
	if err := os.WriteFile(path, []byte(tr.Text), 0644); err != nil {
		return "", fmt.Errorf("save transcript: %w", err)
	}
	return path, nil
}

func (s *store) saveSummary(base, text string) (string, error) {
	path := s.summaryPath(base)
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return "", fmt.Errorf("save summary: %w", err)
	}
	return path, nil
}

// saveFullRecord writes the combined reference document holding both the
// transcript and its generated summary.
func (s *store) saveFullRecord(base, transcriptText, summary string, at time.Time) (string, error) {
	separator := strings.Repeat("=", 80)
	content := fmt.Sprintf(`# REGISTRO COMPLETO - %s

## TRANSCRIÇÃO ORIGINAL

%s

%s

## RESUMO GERADO

%s
`, at.Format("02/01/2006 às 15:04"), transcriptText, separator, summary)

	path := s.fullRecordPath(base)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("save full record: %w", err)
	}
	return path, nil
}

func (s *store) saveExport(base string, enc render.Encoding, data []byte) (string, error) {
	path := s.exportPath(base, enc)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("save %s export: %w", enc, err)
	}
	return path, nil
}
