package linker

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	apperrors "dvr2plex-go/internal/errors"
)

const (
	// firstSuffix is the first number tried when the target is taken.
	firstSuffix = 2
	// lastSuffix is the last number tried.
	lastSuffix = 99
	// maxExtLen is the longest suffix, period included, still treated as
	// an extension when numbering a target.
	maxExtLen = 5
)

// ErrNoFreeName is returned when every numbered target name is taken.
var ErrNoFreeName = errors.New("can't find a target name that doesn't already exist")

// Config contains configuration for the linker
type Config struct {
	DryRun bool `json:"dry_run"`
}

// Operation records one link request
type Operation struct {
	ID          string          `json:"id"`
	Original    string          `json:"original"`
	Target      string          `json:"target"`
	Destination string          `json:"destination"`
	Status      OperationStatus `json:"status"`
	Error       error           `json:"-"`
	StartTime   time.Time       `json:"start_time"`
	EndTime     time.Time       `json:"end_time"`
}

// OperationStatus represents operation status
type OperationStatus int

const (
	StatusPending OperationStatus = iota
	StatusCompleted
	StatusSkipped
	StatusFailed
)

func (s OperationStatus) String() string {
	switch s {
	case StatusPending:
		return "PENDING"
	case StatusCompleted:
		return "COMPLETED"
	case StatusSkipped:
		return "SKIPPED"
	case StatusFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Linker places recordings into a library with hard links, so the
// recording stays where the DVR wrote it.
type Linker struct {
	config Config
	logger logrus.FieldLogger
}

// New creates a linker
func New(config Config, logger logrus.FieldLogger) *Linker {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Linker{config: config, logger: logger}
}

// Link hard links original at target. Missing parent directories of target
// are created with the original's permissions, each read bit also granting
// search. When target already exists, "name (2).ext" through
// "name (99).ext" are tried in turn. A target that already is the original
// is left alone.
func (l *Linker) Link(original, target string) (*Operation, error) {
	op := &Operation{
		ID:        ulid.Make().String(),
		Original:  original,
		Target:    target,
		Status:    StatusPending,
		StartTime: time.Now(),
	}

	err := l.link(op)
	op.EndTime = time.Now()
	switch {
	case err != nil:
		op.Status = StatusFailed
		op.Error = err
	case op.Status != StatusSkipped:
		op.Status = StatusCompleted
	}
	return op, err
}

func (l *Linker) link(op *Operation) error {
	info, err := os.Stat(op.Original)
	if err != nil {
		return apperrors.NewLinkError("linker", op.Original, "unable to get information about original", err)
	}
	if !info.Mode().IsRegular() {
		return apperrors.NewLinkError("linker", op.Original, "original must be a regular file", nil)
	}

	entry := l.logger.WithFields(logrus.Fields{"id": op.ID, "original": op.Original})

	existing, err := os.Stat(op.Target)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		op.Destination = op.Target
		if l.config.DryRun {
			entry.WithField("target", op.Destination).Info("dry run, not linking")
			return nil
		}
		if err := os.MkdirAll(filepath.Dir(op.Target), DirMode(info.Mode())); err != nil {
			return apperrors.NewLinkError("linker", filepath.Dir(op.Target), "unable to create directory", err)
		}

	case err != nil:
		return apperrors.NewLinkError("linker", op.Target, "unable to get information about target", err)

	case os.SameFile(info, existing):
		op.Destination = op.Target
		op.Status = StatusSkipped
		entry.WithField("target", op.Target).Debug("already linked")
		return nil

	default:
		dest, linked, err := freeName(info, op.Target)
		if err != nil {
			return apperrors.NewLinkError("linker", op.Target, "no free target name", err)
		}
		op.Destination = dest
		if linked {
			op.Status = StatusSkipped
			entry.WithField("target", dest).Debug("already linked")
			return nil
		}
		if l.config.DryRun {
			entry.WithField("target", dest).Info("dry run, not linking")
			return nil
		}
	}

	if err := os.Link(op.Original, op.Destination); err != nil {
		return apperrors.NewLinkError("linker", op.Destination,
			fmt.Sprintf("linking %q to %q failed", op.Original, op.Destination), err)
	}
	entry.WithField("target", op.Destination).Info("linked")
	return nil
}

// freeName finds the first numbered variant of target that does not exist.
// It reports linked when a variant turns out to be the original already.
func freeName(original fs.FileInfo, target string) (name string, linked bool, err error) {
	for n := firstSuffix; n <= lastSuffix; n++ {
		candidate := NumberedName(target, n)
		existing, err := os.Stat(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			return candidate, false, nil
		}
		if err != nil {
			return "", false, err
		}
		if os.SameFile(original, existing) {
			return candidate, true, nil
		}
	}
	return "", false, ErrNoFreeName
}

// NumberedName returns target with " (n)" inserted before its extension.
// Only a final suffix of at most five bytes, period included, counts as an
// extension.
func NumberedName(target string, n int) string {
	base, ext := target, ""
	if i := strings.LastIndexByte(target, '.'); i >= 0 && len(target)-i <= maxExtLen &&
		!strings.ContainsRune(target[i:], filepath.Separator) {
		base, ext = target[:i], target[i:]
	}
	return fmt.Sprintf("%s (%d)%s", base, n, ext)
}

// DirMode derives a directory mode from a file mode by letting every read
// permission also grant search.
func DirMode(mode fs.FileMode) fs.FileMode {
	perm := mode.Perm()
	return perm | (perm&0444)>>2
}
