package transcript

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Transcript is the assembled text for one recording.
type Transcript struct {
	RecordingID string
	OwnerID     string
	Text        string
	CreatedAt   time.Time
}

// Stitch assembles per-segment fragments into one transcript text. A lone
// fragment is returned verbatim. Multiple fragments are rendered under
// 1-based "[Segment N]" headers joined by blank lines, in ascending index
// order regardless of the order fragments arrive in. Failed segments keep
// their place as visible markers and never block neighboring results.
func Stitch(fragments []Fragment) string {
	if len(fragments) == 0 {
		return ""
	}
	if len(fragments) == 1 {
		return fragments[0].Render()
	}

	ordered := make([]Fragment, len(fragments))
	copy(ordered, fragments)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Index < ordered[j].Index })

	parts := make([]string, len(ordered))
	for i, f := range ordered {
		parts[i] = fmt.Sprintf("[Segment %d] %s", f.Index+1, f.Render())
	}
	return strings.Join(parts, "\n\n")
}
