package repository

import (
	"context"
)

// PublishRepository uploads exported reports to remote storage.
type PublishRepository interface {
	// Publish uploads localPath and returns the remote location.
	Publish(ctx context.Context, localPath string) (string, error)
}

// WatchRepository signals changes on a set of input files.
type WatchRepository interface {
	// Watch calls onChange after the watched files settle, until ctx is done.
	Watch(ctx context.Context, paths []string, onChange func(changed string)) error
}
