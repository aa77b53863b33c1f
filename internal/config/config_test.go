package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err, "an explicitly named config file must exist")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "data/animal_services.csv", cfg.Input.DatasetPath)
	assert.Equal(t, "2006-01-02", cfg.Input.DateFormat)
	assert.Equal(t, "data/reports", cfg.Output.ReportsDir)
	assert.True(t, cfg.Output.WriteExcel)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "holm", cfg.Analysis.Adjustment)
	assert.InDelta(t, 0.95, cfg.Analysis.ConfidenceLevel, 1e-12)
	assert.Equal(t, 2000, cfg.Analysis.SimulationDraws)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `input:
  dataset_path: /data/snapshot.csv
analysis:
  adjustment: bonferroni
  simulate: true
  seed: 99
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/snapshot.csv", cfg.Input.DatasetPath)
	assert.Equal(t, "bonferroni", cfg.Analysis.Adjustment)
	assert.True(t, cfg.Analysis.Simulate)
	assert.Equal(t, int64(99), cfg.Analysis.Seed)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Untouched sections keep their defaults
	assert.Equal(t, "data/reports", cfg.Output.ReportsDir)
	assert.InDelta(t, 0.95, cfg.Analysis.ConfidenceLevel, 1e-12)
}

func TestLoad_FileBooleansSurvive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `output:
  write_excel: false
  cleaned_export: false
analysis:
  simulate: true
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.False(t, cfg.Output.WriteExcel, "an explicit false in the file must not revert to the default")
	assert.False(t, cfg.Output.CleanedExport)
	assert.True(t, cfg.Output.WriteJSON, "keys absent from the file keep their defaults")
	assert.True(t, cfg.Analysis.Simulate)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: warn\n"), 0644))

	t.Setenv("SHELTER_LOGGING_LEVEL", "error")
	t.Setenv("SHELTER_ANALYSIS_SIMULATION_DRAWS", "500")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, 500, cfg.Analysis.SimulationDraws)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "bad log level",
			yaml: "logging:\n  level: chatty\n",
		},
		{
			name: "bad adjustment method",
			yaml: "analysis:\n  adjustment: fdr\n",
		},
		{
			name: "confidence level out of range",
			yaml: "analysis:\n  confidence_level: 1.5\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0644))

			_, err := Load(path)
			require.Error(t, err)
		})
	}
}

func TestEnsureOutputDirs(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Output.ReportsDir = filepath.Join(dir, "reports")
	cfg.Logging.Output = "both"
	cfg.Logging.FilePath = filepath.Join(dir, "logs", "run.log")

	require.NoError(t, cfg.EnsureOutputDirs())

	assert.DirExists(t, cfg.Output.ReportsDir)
	assert.DirExists(t, filepath.Join(dir, "logs"))
}
