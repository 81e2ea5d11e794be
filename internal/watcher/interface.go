package watcher

import "context"

// Handler processes one dictation dropped into the inbox. A non-nil
// error is logged, not retried.
type Handler func(ctx context.Context, path string) error

// Watcher monitors the dictation inbox and dispatches new recordings
// to its Handler.
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}
