// Package jsonl cleans one text field of every record in a JSON Lines file.
package jsonl

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cognicore/textprep/pkg/textprep"
	"github.com/cognicore/textprep/pkg/textprep/internalerr"
)

// DefaultField is the record field cleaned when none is given.
const DefaultField = "text"

// maxLine bounds a single record.
const maxLine = 64 << 20

// Options configures a JSONL pass.
type Options struct {
	Field        string
	Preprocessor *textprep.Preprocessor
	Logger       *slog.Logger
}

// Stats counts what a pass did.
type Stats struct {
	Records   int // records written
	Cleaned   int // records whose field was cleaned
	Skipped   int // malformed lines dropped
	Untouched int // records without a string field
}

// Process reads records from r and writes them to w with the configured
// field cleaned. Malformed lines are logged and dropped; other fields are
// passed through.
func Process(ctx context.Context, r io.Reader, w io.Writer, opts Options) (Stats, error) {
	var stats Stats
	if opts.Preprocessor == nil {
		return stats, fmt.Errorf("jsonl: %w: preprocessor is required", internalerr.ErrInvalidInput)
	}
	field := opts.Field
	if field == "" {
		field = DefaultField
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1<<20), maxLine)
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		var rec map[string]json.RawMessage
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			logger.Warn("skipping malformed record", "line", lineNo, "error", err)
			stats.Skipped++
			continue
		}

		var text string
		raw, ok := rec[field]
		if ok && json.Unmarshal(raw, &text) == nil {
			doc := opts.Preprocessor.CleanDocument(text)
			cleaned, err := marshalString(doc.CleanText)
			if err != nil {
				return stats, err
			}
			rec[field] = cleaned
			stats.Cleaned++
		} else {
			stats.Untouched++
		}

		if err := enc.Encode(rec); err != nil {
			return stats, fmt.Errorf("write record %d: %w", lineNo, err)
		}
		stats.Records++
	}
	if err := sc.Err(); err != nil {
		return stats, fmt.Errorf("read line %d: %w", lineNo+1, err)
	}
	return stats, bw.Flush()
}

// marshalString encodes s without HTML escaping.
func marshalString(s string) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// ProcessFile runs Process from inPath to outPath, creating parent
// directories of outPath.
func ProcessFile(ctx context.Context, inPath, outPath string, opts Options) (Stats, error) {
	in, err := os.Open(inPath)
	if err != nil {
		return Stats{}, fmt.Errorf("open %s: %w", inPath, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return Stats{}, err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return Stats{}, fmt.Errorf("create %s: %w", outPath, err)
	}

	stats, err := Process(ctx, in, out, opts)
	if cerr := out.Close(); err == nil && cerr != nil {
		err = cerr
	}
	return stats, err
}
