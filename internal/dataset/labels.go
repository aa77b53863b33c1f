package dataset

import (
	"context"
	"log/slog"
	"os"
	"sort"

	"gopkg.in/yaml.v2"

	"shelterstats/internal/errors"
)

// LabelTable maps raw category codes to display labels for report output.
// Recoding lives here, outside the statistical logic, so tests and
// aggregates always operate on the raw canonical categories.
type LabelTable struct {
	labels map[string]string
}

// DefaultLabelTable returns the built-in recode table for the county
// snapshot's abbreviated outcome and intake codes.
func DefaultLabelTable() *LabelTable {
	return &LabelTable{labels: map[string]string{
		"ADOPTION":      "Adoption",
		"RTO":           "Return to Owner",
		"RTOS":          "Return to Owner (Stray)",
		"TRANSFER":      "Transfer",
		"EUTH":          "Euthanasia",
		"DIED":          "Died in Care",
		"STRAY":         "Stray",
		"OWNER SUR":     "Owner Surrender",
		"CONFISCATED":   "Confiscated",
		"QUARANTINE":    "Quarantine",
		"BORN HERE":     "Born in Care",
		"CAT":           "Cat",
		"DOG":           "Dog",
		"BIRD":          "Bird",
		"LIVESTOCK":     "Livestock",
		"WILDLIFE":      "Wildlife",
		"OTHER":         "Other",
	}}
}

// LoadLabelTable reads a recode table from a YAML file of code: label
// pairs, merged over the defaults.
func LoadLabelTable(ctx context.Context, logger *slog.Logger, path string) (*LabelTable, error) {
	if logger == nil {
		logger = slog.Default()
	}

	table := DefaultLabelTable()
	if path == "" {
		return table, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError("failed to read label table", err)
	}

	var overrides map[string]string
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, errors.NewConfigError("failed to parse label table", err)
	}

	for code, label := range overrides {
		table.labels[code] = label
	}

	logger.InfoContext(ctx, "loaded label table",
		slog.String("path", path),
		slog.Int("overrides", len(overrides)))

	return table, nil
}

// Lookup returns the display label for a code. Unknown codes pass through
// unchanged; missing labels are a benign condition, not an error.
func (t *LabelTable) Lookup(code string) string {
	if label, ok := t.labels[code]; ok {
		return label
	}
	return code
}

// Codes returns the known codes in sorted order
func (t *LabelTable) Codes() []string {
	codes := make([]string, 0, len(t.labels))
	for code := range t.labels {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
