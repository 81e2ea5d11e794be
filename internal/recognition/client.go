package recognition

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medvoz/medscribe/internal/audio"
	"github.com/medvoz/medscribe/internal/transcript"
)

// errNotUnderstood reports a response in which the service produced no
// alternative for any result: it heard the audio but found no speech it
// could transcribe.
var errNotUnderstood = errors.New("service could not understand the audio")

type attemptResult struct {
	status transcript.Status
	text   string
	detail string
}

// Recognize resolves the segment audio through the read fallback chain and
// calls the speech service, retrying timeouts with a widened deadline.
// Every outcome is a fragment; errors never escape as Go errors.
func (r *implRecognizer) Recognize(ctx context.Context, seg audio.Segment) transcript.Fragment {
	start := time.Now()
	frag := r.recognize(ctx, seg)
	r.metrics.RecordRecognition(frag.Status.String(), time.Since(start))
	return frag
}

func (r *implRecognizer) recognize(ctx context.Context, seg audio.Segment) transcript.Fragment {
	prep, err := r.prepare(ctx, seg)
	if err != nil {
		return transcript.Fragment{
			Index:  seg.Index,
			Status: transcript.StatusServiceError,
			Detail: err.Error(),
		}
	}

	timeout := r.cfg.AttemptTimeout
	for attempt := 1; ; attempt++ {
		res := r.attempt(ctx, prep, timeout)
		if res.status != transcript.StatusTimeout {
			r.logger.Debug(ctx, "Segment %d recognized as %s on attempt %d", seg.Index, res.status, attempt)
			return transcript.Fragment{
				Index:  seg.Index,
				Status: res.status,
				Text:   res.text,
				Detail: res.detail,
			}
		}

		if attempt >= r.cfg.MaxAttempts {
			r.logger.Warn(ctx, "Segment %d timed out after %d attempts", seg.Index, attempt)
			return transcript.Fragment{Index: seg.Index, Status: transcript.StatusTimeout, Detail: res.detail}
		}

		r.metrics.RecordRecognitionRetry()
		nextTimeout := timeout + r.cfg.TimeoutWidening
		r.logger.Warn(ctx, "Segment %d attempt %d timed out, retrying with %s deadline", seg.Index, attempt, nextTimeout)

		select {
		case <-time.After(r.cfg.RetryBackoff):
		case <-ctx.Done():
			return transcript.Fragment{Index: seg.Index, Status: transcript.StatusTimeout, Detail: ctx.Err().Error()}
		}
		timeout = nextTimeout
	}
}

// attempt performs a single service call under its own deadline.
func (r *implRecognizer) attempt(ctx context.Context, prep preparedAudio, timeout time.Duration) attemptResult {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, r.requestURL, bytes.NewReader(prep.payload))
	if err != nil {
		return attemptResult{status: transcript.StatusServiceError, detail: err.Error()}
	}
	req.Header.Set("Content-Type", prep.contentType)
	req.Header.Set("User-Agent", "medscribe/1.0")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if prep.noiseFloor >= 0 {
		req.Header.Set("X-Noise-Floor", strconv.Itoa(prep.noiseFloor))
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return attemptResult{status: transcript.StatusTimeout, detail: err.Error()}
		}
		return attemptResult{status: transcript.StatusServiceError, detail: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return attemptResult{status: transcript.StatusTimeout, detail: err.Error()}
		}
		return attemptResult{status: transcript.StatusServiceError, detail: fmt.Sprintf("read response: %v", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return attemptResult{
			status: transcript.StatusServiceError,
			detail: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, trim(body, 200)),
		}
	}

	text, err := parseResponse(body)
	if errors.Is(err, errNotUnderstood) {
		return attemptResult{status: transcript.StatusUnrecognized}
	}
	if err != nil {
		return attemptResult{status: transcript.StatusServiceError, detail: err.Error()}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return attemptResult{status: transcript.StatusEmpty}
	}
	return attemptResult{status: transcript.StatusOK, text: text}
}

type serviceResponse struct {
	Result []struct {
		Alternative []struct {
			Transcript string  `json:"transcript"`
			Confidence float64 `json:"confidence"`
		} `json:"alternative"`
		Final bool `json:"final"`
	} `json:"result"`
	ResultIndex int `json:"result_index"`
}

// parseResponse extracts the best transcript from the service's
// line-delimited JSON body. The service emits an empty result line before
// the real one, so every line is scanned and the first alternative of the
// first populated result wins.
func parseResponse(body []byte) (string, error) {
	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var sr serviceResponse
		if err := json.Unmarshal([]byte(line), &sr); err != nil {
			return "", fmt.Errorf("parse service response: %w", err)
		}
		for _, result := range sr.Result {
			if len(result.Alternative) > 0 {
				return result.Alternative[0].Transcript, nil
			}
		}
	}
	return "", errNotUnderstood
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func trim(body []byte, max int) string {
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max]
	}
	return s
}
