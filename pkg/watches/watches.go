package watches

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Package watches loads the keyword watches the collector runs (YAML/JSON).

// Watch is one keyword the collector searches on every pass.
type Watch struct {
	ID             string         `json:"id" yaml:"id"`
	Name           string         `json:"name" yaml:"name"`
	Keyword        string         `json:"keyword" yaml:"keyword"`
	Limit          int            `json:"limit" yaml:"limit"`
	RequestDelayMs int            `json:"request_delay_ms" yaml:"request_delay_ms"`
	Enrich         bool           `json:"enrich" yaml:"enrich"`
	Config         map[string]any `json:"config" yaml:"config"`
}

type file struct {
	Watches []Watch `json:"watches" yaml:"watches"`
}

const (
	defaultLimit          = 20
	defaultRequestDelayMs = 500
)

// Registry holds validated watches in file order.
type Registry struct {
	watches []Watch
	idx     map[string]Watch
}

// LoadRegistry loads watches from a YAML or JSON file.
func LoadRegistry(path string) (*Registry, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("watches file path is empty")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open watches file: %w", err)
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read watches file: %w", err)
	}

	parsed, err := parseFile(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(parsed.Watches) == 0 {
		return nil, errors.New("watches file contains no watches entries")
	}

	return NewRegistry(parsed.Watches)
}

// NewRegistry validates and indexes the given watches.
func NewRegistry(list []Watch) (*Registry, error) {
	reg := &Registry{
		watches: make([]Watch, 0, len(list)),
		idx:     make(map[string]Watch, len(list)),
	}
	for i := range list {
		w := sanitize(list[i])
		if err := validate(w); err != nil {
			return nil, fmt.Errorf("watch[%d]: %w", i, err)
		}
		if _, exists := reg.idx[w.ID]; exists {
			return nil, fmt.Errorf("duplicate watch id %q", w.ID)
		}
		reg.watches = append(reg.watches, w)
		reg.idx[w.ID] = w
	}
	return reg, nil
}

// All returns a copy of the loaded watches.
func (r *Registry) All() []Watch {
	if r == nil || len(r.watches) == 0 {
		return nil
	}
	out := make([]Watch, len(r.watches))
	copy(out, r.watches)
	return out
}

// ByID returns the watch for id, if loaded.
func (r *Registry) ByID(id string) (Watch, bool) {
	if r == nil {
		return Watch{}, false
	}
	w, ok := r.idx[strings.TrimSpace(id)]
	return w, ok
}

type unmarshalFn func([]byte, any) error

func parseFile(data []byte, ext string) (file, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var out file
		if err := d.fn(data, &out); err == nil {
			return out, nil
		}
	}

	return file{}, errors.New("watches file format not recognized (expected YAML or JSON)")
}

func sanitize(w Watch) Watch {
	w.ID = strings.TrimSpace(w.ID)
	w.Name = strings.TrimSpace(w.Name)
	w.Keyword = strings.TrimSpace(w.Keyword)

	if w.Config == nil {
		w.Config = map[string]any{}
	}
	if w.Limit <= 0 {
		w.Limit = defaultLimit
	}
	if w.RequestDelayMs <= 0 {
		w.RequestDelayMs = defaultRequestDelayMs
	}
	return w
}

func validate(w Watch) error {
	if w.ID == "" {
		return errors.New("id is required")
	}
	if w.Name == "" {
		return fmt.Errorf("name is required for watch %q", w.ID)
	}
	if w.Keyword == "" {
		return fmt.Errorf("keyword is required for watch %q", w.ID)
	}
	return nil
}

// RequestDelay returns the throttle between article page fetches.
func (w Watch) RequestDelay() time.Duration {
	if w.RequestDelayMs <= 0 {
		return time.Duration(defaultRequestDelayMs) * time.Millisecond
	}
	return time.Duration(w.RequestDelayMs) * time.Millisecond
}
