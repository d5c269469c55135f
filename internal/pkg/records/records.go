// Package records turns a CSV dataset into prose records, one per data row,
// suitable for ingestion into a retrieval corpus.
package records

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/convrt/rag-backend/internal/entity"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// MissingValue is rendered in place of empty or null-like cells.
const MissingValue = "nan"

// nullTokens are cell values read as missing.
var nullTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// Format reads a CSV dataset from r and writes its records to w. It returns
// the number of records written. Parse failures wrap entity.ErrFormat.
func Format(r io.Reader, filename, description string, w io.Writer) (int, error) {
	reader := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(transform.Nop)))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("%w: no columns to parse from file", entity.ErrFormat)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", entity.ErrFormat, err)
	}
	if err := checkEncoding(header); err != nil {
		return 0, err
	}
	columns := columnNames(header)

	prefix := recordPrefix(filename, description)

	bw := bufio.NewWriter(w)
	count := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return count, fmt.Errorf("%w: %v", entity.ErrFormat, err)
		}
		if len(row) > len(columns) {
			line, _ := reader.FieldPos(0)
			return count, fmt.Errorf("%w: expected %d fields in line %d, saw %d",
				entity.ErrFormat, len(columns), line, len(row))
		}
		if err := checkEncoding(row); err != nil {
			return count, err
		}

		count++
		if _, err := fmt.Fprintf(bw, "Record %d: %s%s\n\n", count, prefix, renderRow(columns, row)); err != nil {
			return count, fmt.Errorf("write record: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return count, fmt.Errorf("flush records: %w", err)
	}

	return count, nil
}

// WriteFile formats the dataset read from r into a new file at dst.
func WriteFile(r io.Reader, filename, description, dst string) (int, error) {
	f, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("create records file: %w", err)
	}

	count, err := Format(r, filename, description, f)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("close records file: %w", closeErr)
	}

	return count, err
}

func recordPrefix(filename, description string) string {
	var sb strings.Builder
	if description != "" {
		sb.WriteString("Context: ")
		sb.WriteString(description)
		sb.WriteString(". ")
	}
	sb.WriteString("Source File: ")
	sb.WriteString(filename)
	sb.WriteString(". ")
	return sb.String()
}

func renderRow(columns, row []string) string {
	parts := make([]string, len(columns))
	for i, col := range columns {
		value := MissingValue
		if i < len(row) {
			if _, isNull := nullTokens[row[i]]; !isNull {
				value = row[i]
			}
		}
		parts[i] = col + ": " + value
	}
	return strings.Join(parts, ". ")
}

// columnNames names blank headers "Unnamed: i" and suffixes repeats as
// name.1, name.2 and so on.
func columnNames(header []string) []string {
	names := make([]string, len(header))
	taken := make(map[string]bool, len(header))
	next := make(map[string]int, len(header))

	for i, name := range header {
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if taken[name] {
			base := name
			n := next[base]
			if n == 0 {
				n = 1
			}
			for taken[fmt.Sprintf("%s.%d", base, n)] {
				n++
			}
			name = fmt.Sprintf("%s.%d", base, n)
			next[base] = n + 1
		}
		taken[name] = true
		names[i] = name
	}

	return names
}

func checkEncoding(fields []string) error {
	for _, f := range fields {
		if !utf8.ValidString(f) {
			return fmt.Errorf("%w: content is not valid UTF-8", entity.ErrFormat)
		}
	}
	return nil
}
