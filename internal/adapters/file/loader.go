package file

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/botforge/pkg/domain"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ProjectLoader and ports.Watchable for a project
// document on the local filesystem. Files ending in .yaml or .yml are read as
// YAML; everything else as JSON.
type Loader struct {
	Path string

	// Debounce groups bursts of file events (editors often write twice).
	Debounce time.Duration
}

// NewLoader creates a Loader for path.
func NewLoader(path string) *Loader {
	return &Loader{Path: path, Debounce: 100 * time.Millisecond}
}

// Load reads and decodes the project document.
func (l *Loader) Load(ctx context.Context) (*domain.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project file: %w", err)
	}
	project, err := Decode(data, IsYAML(l.Path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.Path, err)
	}
	if project.Name == "" {
		project.Name = strings.TrimSuffix(filepath.Base(l.Path), filepath.Ext(l.Path))
	}
	return project, nil
}

// Source implements ports.ProjectLoader.
func (l *Loader) Source() string { return l.Path }

// IsYAML reports whether path names a YAML document.
func IsYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Decode parses a project document. JSON numbers are kept as json.Number so
// large chat ids survive untouched.
func Decode(data []byte, isYAML bool) (*domain.Project, error) {
	var project domain.Project
	if isYAML {
		if err := yaml.Unmarshal(data, &project); err != nil {
			return nil, domain.NodeErr(domain.ErrInvalidProject, "parse YAML: "+err.Error())
		}
		return &project, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&project); err != nil {
		return nil, domain.NodeErr(domain.ErrInvalidProject, "parse JSON: "+err.Error())
	}
	return &project, nil
}

// Watch signals whenever the project file is written, created or renamed into
// place. The parent directory is watched so that atomic saves (write to a temp
// file, rename over the original) are seen.
func (l *Loader) Watch(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	abs, err := filepath.Abs(l.Path)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch dir %q: %w", filepath.Dir(abs), err)
	}

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		defer watcher.Close()

		var fire <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
					fire = time.After(l.Debounce)
				}
			case <-fire:
				fire = nil
				select {
				case out <- struct{}{}:
				default:
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return out, nil
}
