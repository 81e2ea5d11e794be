package refine

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/medvoz/medscribe/internal/transcript"
)

// Available reports whether at least one API key is configured.
func (r *implRefiner) Available() bool {
	return len(r.apiKeys) > 0
}

// Improve sends the transcript for grammar and structure correction.
// Marker-only transcripts, an unconfigured service and generation failures
// all yield the input unchanged.
func (r *implRefiner) Improve(ctx context.Context, text string) string {
	if !r.Available() || strings.TrimSpace(text) == "" || transcript.IsFailureMarker(text) {
		r.metrics.RecordRefine("improve", "skipped")
		return text
	}

	improved, err := r.generate(ctx, fmt.Sprintf(improvePrompt, text))
	if err != nil {
		r.logger.Warn(ctx, "Transcript improvement failed, keeping original: %v", err)
		r.metrics.RecordRefine("improve", "error")
		return text
	}

	r.metrics.RecordRefine("improve", "ok")
	return strings.TrimSpace(improved)
}

// Summarize produces the structured consultation summary.
func (r *implRefiner) Summarize(ctx context.Context, text, instruction string) (string, error) {
	if !r.Available() || transcript.IsFailureMarker(text) {
		r.metrics.RecordRefine("summarize", "skipped")
		return text, nil
	}

	summary, err := r.generate(ctx, buildSummaryPrompt(text, instruction))
	if err != nil {
		r.metrics.RecordRefine("summarize", "error")
		return "", fmt.Errorf("generate summary: %w", err)
	}

	r.metrics.RecordRefine("summarize", "ok")
	return strings.TrimSpace(summary), nil
}

// generate sends one prompt to Gemini and returns the response text.
// Rotates API keys on 429 / quota errors.
func (r *implRefiner) generate(ctx context.Context, prompt string) (string, error) {
	attempts := len(r.apiKeys)
	var lastErr error

	for range attempts {
		key, keyIndex := r.key()

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			r.rotateKey()
			continue
		}

		result, err := client.Models.GenerateContent(ctx, r.model, genai.Text(prompt), nil)
		if err != nil {
			errMsg := err.Error()
			if strings.Contains(errMsg, "429") || strings.Contains(errMsg, "quota") || strings.Contains(errMsg, "RESOURCE_EXHAUSTED") {
				r.logger.Warn(ctx, "Key %d rate limited, rotating...", keyIndex+1)
				r.rotateKey()
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var text string
			for _, part := range result.Candidates[0].Content.Parts {
				if part.Text != "" {
					text += part.Text
				}
			}
			return text, nil
		}

		return "", fmt.Errorf("empty response from generative service")
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (r *implRefiner) key() (string, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.apiKeys[r.currentKey], r.currentKey
}

func (r *implRefiner) rotateKey() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.currentKey = (r.currentKey + 1) % len(r.apiKeys)
}
