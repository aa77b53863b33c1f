package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// CSVWriter provides CSV export functionality rooted at the reports
// directory.
type CSVWriter struct {
	outDir string
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(outDir string) *CSVWriter {
	return &CSVWriter{outDir: outDir}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	fullPath := w.resolvePath(filePath)

	slog.Info("Writing CSV file",
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(options.Records)))

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	// BOM helps Excel recognize UTF-8.
	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	return writer.Error()
}

// WriteSimpleCSV writes a simple CSV file with headers and records
func (w *CSVWriter) WriteSimpleCSV(filePath string, headers []string, records [][]string) error {
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   headers,
		Records:   records,
		BOMPrefix: true,
	})
}

// StreamWriter provides streaming CSV writing for large datasets
type StreamWriter struct {
	file   *os.File
	writer *csv.Writer
}

// CreateStreamWriter creates a new streaming CSV writer
func (w *CSVWriter) CreateStreamWriter(filePath string, headers []string) (*StreamWriter, error) {
	fullPath := w.resolvePath(filePath)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(file)

	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write headers: %w", err)
		}
	}

	return &StreamWriter{file: file, writer: writer}, nil
}

// WriteRecord writes a single record to the stream
func (s *StreamWriter) WriteRecord(record []string) error {
	return s.writer.Write(record)
}

// Close flushes and closes the stream writer
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

// resolvePath resolves a path relative to the reports directory
func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) {
		return filePath
	}
	return filepath.Join(w.outDir, filePath)
}
