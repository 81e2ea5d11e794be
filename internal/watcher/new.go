package watcher

import (
	"fmt"

	"github.com/fsnotify/fsnotify"

	"github.com/medvoz/medscribe/internal/logger"
)

// New creates a Watcher over the inbox directory. maxConcurrent bounds
// how many dictations are handled at once; values below 1 mean serial.
func New(inbox string, handler Handler, log logger.Logger, maxConcurrent int) (Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(inbox); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", inbox, err)
	}

	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	return &implWatcher{
		inbox:     inbox,
		handler:   handler,
		logger:    log,
		fsw:       fsw,
		semaphore: make(chan struct{}, maxConcurrent),
	}, nil
}
