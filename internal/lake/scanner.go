package lake

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Scanner discovers partition files for loading.
type Scanner struct {
	root string
}

func NewScanner(root string) *Scanner {
	return &Scanner{root: root}
}

// Find returns the sorted paths of all partition files, restricted to one
// date directory when dateFilter (YYYY-MM-DD) is non-empty. Nothing matching
// is an empty slice, not an error.
func (s *Scanner) Find(dateFilter string) ([]string, error) {
	if dateFilter != "" {
		files, err := s.listPartition(filepath.Join(s.root, dateFilter))
		if err != nil {
			return nil, err
		}
		sort.Strings(files)
		return files, nil
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read lake root %s: %w", s.root, err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		found, err := s.listPartition(filepath.Join(s.root, entry.Name()))
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	sort.Strings(files)
	if files == nil {
		files = []string{}
	}
	return files, nil
}

func (s *Scanner) listPartition(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read partition directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files, nil
}
