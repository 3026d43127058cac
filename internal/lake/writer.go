package lake

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const dateLayout = "2006-01-02"

// Writer persists one channel batch per partition file. A rewrite of the same
// partition fully replaces the previous file; batches are never merged across
// runs.
type Writer struct {
	root string
}

func NewWriter(root string) *Writer {
	return &Writer{root: root}
}

// PartitionPath computes the deterministic path for a (date, channel) pair.
func (w *Writer) PartitionPath(date time.Time, handle string) string {
	return filepath.Join(w.root, date.Format(dateLayout), handle+".json")
}

// Write serializes the batch as a single JSON array and writes it to the
// partition path, creating the partition directory if needed. An empty batch
// produces an empty array, not an absent file. Returns the written path.
func (w *Writer) Write(date time.Time, handle string, records []Record) (string, error) {
	if records == nil {
		records = []Record{}
	}

	path := w.PartitionPath(date, handle)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create partition directory: %w", err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize batch for %s: %w", handle, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write partition file %s: %w", path, err)
	}
	return path, nil
}
