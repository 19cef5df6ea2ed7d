package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"
)

// ErrNoSpace indicates a write was rejected for lack of space on the
// mounted image.
var ErrNoSpace = errors.New("no space left on device")

// ErrIo indicates any persistence failure other than out-of-space.
var ErrIo = errors.New("storage io error")

// Store is a facade over a directory standing in for the mounted
// block-device filesystem. Each document is a single file under Root.
type Store struct {
	Root string
}

// New creates a Store rooted at dir, creating the directory if absent --
// equivalent to the firmware mounting its filesystem image at boot.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("mount store at %s: %w", dir, err)
	}
	return &Store{Root: dir}, nil
}

// ReadFile returns the entire contents of path, or (nil, nil) if the
// document does not exist -- absence is not an error.
func (s *Store) ReadFile(path string) ([]byte, error) {
	full := filepath.Join(s.Root, path)
	data, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		logrus.WithFields(logrus.Fields{
			"function": "ReadFile",
			"path":     path,
			"error":    err.Error(),
		}).Error("read failed")
		return nil, fmt.Errorf("%w: %v", ErrIo, err)
	}
	return data, nil
}

// WriteFile creates or truncates path with data. The write is made
// semantically atomic from the caller's perspective by writing to a
// temporary sibling file and renaming it over the target -- a partial
// write is never observable as the document under normal shutdown.
func (s *Store) WriteFile(path string, data []byte) error {
	logger := logrus.WithFields(logrus.Fields{
		"function": "WriteFile",
		"path":     path,
		"size":     len(data),
	})

	full := filepath.Join(s.Root, path)
	tmp := full + ".tmp"

	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		logger.WithFields(logrus.Fields{"error": err.Error()}).Error("write failed")
		if isNoSpace(err) {
			return fmt.Errorf("%w: %v", ErrNoSpace, err)
		}
		return fmt.Errorf("%w: %v", ErrIo, err)
	}

	if err := os.Rename(tmp, full); err != nil {
		logger.WithFields(logrus.Fields{"error": err.Error()}).Error("rename failed")
		return fmt.Errorf("%w: %v", ErrIo, err)
	}

	logger.Debug("document written")
	return nil
}

func isNoSpace(err error) bool {
	return errors.Is(err, syscall.ENOSPC)
}
