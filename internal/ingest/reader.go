// Package ingest reads operator-supplied CSV lists.
package ingest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// Regex for valid subreddit names
var subNameRegex = regexp.MustCompile(`^[A-Za-z0-9_]{2,21}$`)

// ValidName reports whether s can name a community.
func ValidName(s string) bool {
	return subNameRegex.MatchString(s)
}

// LoadKeywords reads a keyword,polarity CSV with a header row. Polarity is
// "positive" or "negative"; rows without one count as positive. Keywords are
// lowercased, blank rows skipped.
func LoadKeywords(path string) (positive, negative []string, err error) {
	err = readRows(path, func(rec []string) error {
		kw := strings.ToLower(strings.TrimSpace(rec[0]))
		if kw == "" {
			return nil
		}
		polarity := "positive"
		if len(rec) > 1 {
			polarity = strings.ToLower(strings.TrimSpace(rec[1]))
		}
		switch polarity {
		case "", "positive", "+":
			positive = append(positive, kw)
		case "negative", "-":
			negative = append(negative, kw)
		default:
			return fmt.Errorf("keyword %q: unknown polarity %q", kw, polarity)
		}
		return nil
	})
	return positive, negative, err
}

// LoadNames reads the first column of a CSV with a header row.
func LoadNames(path string) ([]string, error) {
	var names []string
	err := readRows(path, func(rec []string) error {
		if n := strings.TrimSpace(rec[0]); n != "" {
			names = append(names, n)
		}
		return nil
	})
	return names, err
}

func readRows(path string, fn func([]string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	// Wrap in BOM stripper
	r := csv.NewReader(stripBOM(f))
	r.FieldsPerRecord = -1

	line := 0
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		line++
		if line == 1 || len(rec) == 0 {
			continue // Skip header
		}
		if err := fn(rec); err != nil {
			return fmt.Errorf("%s:%d: %w", path, line, err)
		}
	}
}

func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	rdr, _, err := br.ReadRune()
	if err != nil {
		return br
	}
	if rdr != '\uFEFF' {
		br.UnreadRune()
	}
	return br
}
