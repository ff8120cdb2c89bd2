package element

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// FileSource serves element sets from a local file in the 3-line NORAD
// TLE format (name line followed by the two element lines). Useful for
// offline runs and for pinning a run to a known epoch.
type FileSource struct {
	byID map[int]Set
}

// NewFileSource reads and indexes a TLE file. Malformed entries are
// skipped; they surface later as unavailable satellites.
func NewFileSource(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening TLE file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading TLE file: %w", err)
	}

	byID := make(map[int]Set)
	for i := 0; i+2 < len(lines); {
		// A triplet is name, line1, line2. Resync on anything else.
		name := lines[i]
		line1, line2 := lines[i+1], lines[i+2]
		if !strings.HasPrefix(line1, "1 ") || !strings.HasPrefix(line2, "2 ") {
			i++
			continue
		}

		// NORAD ID lives in line 1, columns 3-7.
		if len(line1) < 7 {
			i += 3
			continue
		}
		noradID, err := strconv.Atoi(strings.TrimSpace(line1[2:7]))
		if err != nil {
			i += 3
			continue
		}

		set, err := NewSet(noradID, strings.TrimSpace(name), line1, line2)
		if err == nil {
			byID[noradID] = set
		}
		i += 3
	}

	return &FileSource{byID: byID}, nil
}

// Len returns the number of indexed element sets.
func (s *FileSource) Len() int {
	return len(s.byID)
}

// Fetch returns the element set for noradID, or ErrUnavailable when the
// file has no entry for it.
func (s *FileSource) Fetch(_ context.Context, noradID int) (Set, error) {
	set, ok := s.byID[noradID]
	if !ok {
		return Set{}, fmt.Errorf("norad %d: not in TLE file: %w", noradID, ErrUnavailable)
	}
	return set, nil
}
