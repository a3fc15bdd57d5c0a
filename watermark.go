package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// watermarkFile holds the watermark inside the façade working tree
const watermarkFile = "latest-update.txt"

// WatermarkStore persists the replication watermark.
type WatermarkStore interface {
	// Read returns the persisted watermark, or false if none was written yet.
	Read() (Watermark, bool, error)
	// Write replaces the persisted watermark. It returns once the value is
	// on disk.
	Write(w Watermark) error
}

type fileWatermarkStore struct {
	fs billy.Filesystem
}

// newWatermarkStore returns a WatermarkStore keeping the watermark in
// latest-update.txt at the root of fs
func newWatermarkStore(fs billy.Filesystem) WatermarkStore {
	return &fileWatermarkStore{fs: fs}
}

func (s *fileWatermarkStore) Read() (Watermark, bool, error) {
	data, err := util.ReadFile(s.fs, watermarkFile)
	if os.IsNotExist(err) {
		return Watermark{}, false, nil
	}
	if err != nil {
		return Watermark{}, false, ErrStorage.Wrap(err, "reading watermark")
	}

	w, err := parseWatermark(string(data))
	if err != nil {
		return Watermark{}, false, ErrStorage.Wrap(err, "reading watermark")
	}
	return w, true, nil
}

func (s *fileWatermarkStore) Write(w Watermark) error {
	if err := s.write(w); err != nil {
		return ErrStorage.Wrap(err, "writing watermark")
	}
	return nil
}

// write replaces the watermark file through a synced temporary file, so a
// crash leaves either the old or the new value behind
func (s *fileWatermarkStore) write(w Watermark) error {
	tmp := watermarkFile + ".tmp"
	f, err := s.fs.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	if _, err := f.Write([]byte(w.String())); err != nil {
		f.Close()
		s.fs.Remove(tmp)
		return err
	}

	// osfs files wrap *os.File; in-memory files have nothing to flush
	if syncer, ok := f.(interface{ Sync() error }); ok {
		if err := syncer.Sync(); err != nil {
			f.Close()
			s.fs.Remove(tmp)
			return err
		}
	}

	if err := f.Close(); err != nil {
		s.fs.Remove(tmp)
		return err
	}

	if err := s.fs.Rename(tmp, watermarkFile); err != nil {
		s.fs.Remove(tmp)
		return err
	}
	return nil
}

// parseWatermark reads "<seconds> <offset-minutes>"
func parseWatermark(s string) (Watermark, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return Watermark{}, fmt.Errorf("malformed watermark %q", s)
	}

	seconds, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return Watermark{}, fmt.Errorf("malformed watermark seconds: %w", err)
	}

	offset, err := strconv.Atoi(fields[1])
	if err != nil {
		return Watermark{}, fmt.Errorf("malformed watermark offset: %w", err)
	}

	return Watermark{Seconds: seconds, Offset: offset}, nil
}
