package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/diillson/arch-schedule-go/internal/domain/repository"
)

// DefaultDebounce agrupa gravações rápidas do mesmo arquivo.
const DefaultDebounce = 500 * time.Millisecond

// FileWatcher observa os arquivos de entrada (modelo, schedule) e avisa
// quando eles param de mudar. Os diretórios pais é que são observados, para
// pegar editores que salvam via rename.
type FileWatcher struct {
	debounce time.Duration
	tick     time.Duration
	logger   zerolog.Logger

	mu      sync.Mutex
	pending map[string]time.Time
}

// NewFileWatcher cria um watcher com o intervalo de debounce informado.
func NewFileWatcher(debounce time.Duration, logger zerolog.Logger) repository.WatchRepository {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	tick := debounce / 5
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	return &FileWatcher{
		debounce: debounce,
		tick:     tick,
		logger:   logger,
		pending:  make(map[string]time.Time),
	}
}

// Watch bloqueia até ctx terminar.
func (w *FileWatcher) Watch(ctx context.Context, paths []string, onChange func(changed string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating file watcher: %w", err)
	}
	defer watcher.Close()

	targets := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("error watching %s: %w", dir, err)
		}
		w.logger.Debug().Str("dir", dir).Msg("watching directory")
	}

	ticker := time.NewTicker(w.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || !targets[name] {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug().Str("file", name).Str("op", event.Op.String()).Msg("change detected")
			w.mu.Lock()
			w.pending[name] = time.Now()
			w.mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error().Err(err).Msg("file watcher error")

		case <-ticker.C:
			for _, name := range w.settled() {
				onChange(name)
			}
		}
	}
}

// settled devolve (e esquece) os arquivos sem eventos há mais que o debounce.
func (w *FileWatcher) settled() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	var out []string
	for name, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			out = append(out, name)
			delete(w.pending, name)
		}
	}
	return out
}
