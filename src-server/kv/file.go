package kv

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// File stores each key as <dir>/<key>.json. Writes go through a temp file
// and a rename so a crash never leaves a half-written snapshot.
type File struct {
	fs       afero.Fs
	dir      string
	observer LatencyObserver
}

func NewFile(fsys afero.Fs, dir string, observer LatencyObserver) (*File, error) {
	if err := fsys.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("NewFile: can't create %s: %w", dir, err)
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &File{fs: fsys, dir: dir, observer: observer}, nil
}

func (f *File) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(f.dir, key+".json"), nil
}

func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	p, err := f.path(key)
	if err != nil {
		return "", false, fmt.Errorf("(*File).Get: %w", err)
	}
	startTimer := time.Now()
	data, err := afero.ReadFile(f.fs, p)
	f.observer.ObserveRead(time.Since(startTimer))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", false, nil
	case err != nil:
		return "", false, fmt.Errorf("(*File).Get: %w", err)
	}
	return string(data), true, nil
}

func (f *File) Set(_ context.Context, key, value string) error {
	p, err := f.path(key)
	if err != nil {
		return fmt.Errorf("(*File).Set: %w", err)
	}
	startTimer := time.Now()
	tmp := p + ".tmp"
	if err := afero.WriteFile(f.fs, tmp, []byte(value), 0o600); err != nil {
		return fmt.Errorf("(*File).Set: %w", err)
	}
	if err := f.fs.Rename(tmp, p); err != nil {
		return fmt.Errorf("(*File).Set: %w", err)
	}
	f.observer.ObserveWrite(time.Since(startTimer))
	return nil
}

func (f *File) Remove(_ context.Context, key string) error {
	p, err := f.path(key)
	if err != nil {
		return fmt.Errorf("(*File).Remove: %w", err)
	}
	startTimer := time.Now()
	if err := f.fs.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("(*File).Remove: %w", err)
	}
	f.observer.ObserveWrite(time.Since(startTimer))
	return nil
}
