package bulkimport

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

const (
	maxLineBytes = 1 << 20
	utf8BOM      = "\ufeff"
)

// ValidateManifest streams the manifest at path and validates every line. It
// returns the records of clean lines and the errors of dirty ones, both in
// manifest order. Only read failures are returned as error.
func ValidateManifest(path string, userID int64) ([]CandidateRecord, []LineError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrManifestUnreadable, err)
	}
	defer f.Close()

	var (
		records    []CandidateRecord
		lineErrors []LineError
	)
	err = ScanManifest(f, func(line ManifestLine) {
		record, lineErr := ValidateLine(line, userID)
		if lineErr != nil {
			lineErrors = append(lineErrors, *lineErr)
			return
		}
		records = append(records, record)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrManifestUnreadable, err)
	}
	return records, lineErrors, nil
}

// ScanManifest calls visit for every line of r. LF, CRLF and lone CR all end a
// line; a terminator at end of input does not start another line.
func ScanManifest(r io.Reader, visit func(ManifestLine)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	scanner.Split(scanAnyLines)

	index := 0
	for scanner.Scan() {
		index++
		text := scanner.Text()
		if index == 1 {
			text = strings.TrimPrefix(text, utf8BOM)
		}
		visit(ManifestLine{Index: index, Text: text})
	}
	return scanner.Err()
}

func scanAnyLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if atEOF {
			return i + 1, data[:i], nil
		}
		// CR at buffer end: wait to see whether LF follows
		return 0, nil, nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// ValidateLine checks one "Name,Latitude,Longitude" line. A wrong field count
// is the only violation reported for that line; otherwise name, latitude and
// longitude are all checked so every problem is reported together.
func ValidateLine(line ManifestLine, userID int64) (CandidateRecord, *LineError) {
	fields := strings.Split(line.Text, ",")
	if len(fields) != 3 {
		return CandidateRecord{}, &LineError{Line: line.Index, Violations: []Violation{MalformedLine}}
	}

	var violations []Violation
	name := strings.TrimSpace(fields[0])
	if name == "" {
		violations = append(violations, MissingName)
	}
	lat, ok := parseCoordinate(fields[1], 90)
	if !ok {
		violations = append(violations, InvalidLatitude)
	}
	lon, ok := parseCoordinate(fields[2], 180)
	if !ok {
		violations = append(violations, InvalidLongitude)
	}

	if len(violations) > 0 {
		return CandidateRecord{}, &LineError{Line: line.Index, Violations: violations}
	}
	return CandidateRecord{Name: name, Latitude: lat, Longitude: lon, UserID: userID}, nil
}

func parseCoordinate(field string, limit float64) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if v < -limit || v > limit {
		return 0, false
	}
	return v, true
}
