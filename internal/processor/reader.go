package processor

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"unicode"

	apperrors "dvr2plex-go/internal/errors"
)

// maxPathLen bounds a single path read from a stream.
const maxPathLen = 64 * 1024

// ReadPaths splits r into paths. Newline-terminated entries lose their
// trailing whitespace; NUL-terminated entries are taken as they are. Empty
// entries are dropped.
func ReadPaths(r io.Reader, nullTerminated bool, fn func(path string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxPathLen)
	if nullTerminated {
		sc.Split(scanNull)
	}

	for sc.Scan() {
		path := sc.Text()
		if !nullTerminated {
			path = strings.TrimRightFunc(path, unicode.IsSpace)
		}
		if path == "" {
			continue
		}
		if err := fn(path); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return apperrors.NewParseError("reader", "", "failed to read paths", err)
	}
	return nil
}

// scanNull is a bufio.SplitFunc for NUL-terminated records.
func scanNull(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, 0); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// ProcessReader processes every path read from r, continuing past files
// that fail.
func (p *Processor) ProcessReader(ctx context.Context, r io.Reader, nullTerminated bool) error {
	total, failed := 0, 0
	err := ReadPaths(r, nullTerminated, func(path string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		total++
		if _, err := p.ProcessFile(ctx, path); err != nil {
			p.logger.WithError(err).WithField("source", path).Error("processing failed")
			failed++
		}
		return nil
	})
	if err != nil {
		if ctx.Err() == nil {
			p.record(err)
		}
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, total)
	}
	return nil
}
