package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
)

// FileSource reads a local file.
type FileSource struct {
	Path    string
	MaxSize int64
}

func (s *FileSource) String() string {
	return s.Path
}

// Fetch reads the whole file.
func (s *FileSource) Fetch(ctx context.Context) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, s.Path)
		}
		return nil, fmt.Errorf("source: open %s: %w", s.Path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("source: stat %s: %w", s.Path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("source: %s is a directory", s.Path)
	}

	data, err := readLimited(f, s.MaxSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}

	return &Document{
		Name:    s.Path,
		Data:    data,
		ModTime: info.ModTime(),
		Version: strconv.FormatInt(info.ModTime().UnixNano(), 36) + "-" + strconv.FormatInt(info.Size(), 36),
	}, nil
}

// StdinSource reads standard input once.
type StdinSource struct {
	Reader  io.Reader
	MaxSize int64
}

func (s *StdinSource) String() string {
	return "-"
}

func (s *StdinSource) Fetch(ctx context.Context) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r := s.Reader
	if r == nil {
		r = os.Stdin
	}
	data, err := readLimited(r, s.MaxSize)
	if err != nil {
		return nil, fmt.Errorf("stdin: %w", err)
	}
	return &Document{Name: "-", Data: data}, nil
}

// readLimited reads r fully, failing once more than max bytes arrive.
func readLimited(r io.Reader, max int64) ([]byte, error) {
	if max <= 0 {
		max = DefaultMaxSize
	}
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > max {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, max)
	}
	return data, nil
}
