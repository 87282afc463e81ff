package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/arch-schedule-go/internal/adapter/driven/aws"
	"github.com/diillson/arch-schedule-go/internal/adapter/driven/config"
	"github.com/diillson/arch-schedule-go/internal/adapter/driven/export"
	"github.com/diillson/arch-schedule-go/internal/adapter/driven/model"
	"github.com/diillson/arch-schedule-go/internal/adapter/driven/pset"
	"github.com/diillson/arch-schedule-go/internal/adapter/driven/schedule"
	"github.com/diillson/arch-schedule-go/internal/adapter/driven/watch"
	"github.com/diillson/arch-schedule-go/internal/application/usecase"
	"github.com/diillson/arch-schedule-go/internal/domain/repository"
	"github.com/diillson/arch-schedule-go/pkg/console"
)

const houseModel = `{
  "name": "house",
  "objects": [
    {"Name": "Wall", "Label": "W1", "IfcType": "Wall", "Length": {"Value": 4, "Unit": "m"}},
    {"Name": "Wall001", "Label": "W2", "IfcType": "Wall", "Length": 3000},
    {"Name": "Door", "Label": "D1", "IfcType": "Door"}
  ]
}`

const wallsCSV = "Walls,COUNT,,,type:Wall\nWall length,Length,m,,type:Wall\n"

func newTestApp(t *testing.T) *CLIApp {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	con := console.NewConsole()

	app := NewCLIApp("test", con, logger)
	uc := usecase.NewScheduleUseCase(
		model.NewModelRepository(),
		schedule.NewScheduleRepository(),
		config.NewConfigRepository(),
		watch.NewFileWatcher(0, logger),
		usecase.Factories{
			Export: func(s usecase.ExportSettings) repository.ExportRepository {
				return export.NewExportRepository(export.Options{Delimiter: s.Delimiter, ColumnWidths: s.ColumnWidths, Title: s.Title})
			},
			Publisher: aws.NewS3Publisher,
			PsetStore: pset.NewPsetRepository,
		},
		con,
		logger,
	)
	app.SetScheduleUseCase(uc)
	return app
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestParseArgs_DecimalsOnlyWhenGiven(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		decimals *int
	}{
		{name: "Unset", args: []string{"-q", "--report-type", "csv,pdf"}},
		{name: "Zero", args: []string{"-q", "--report-type", "csv,pdf", "--decimals", "0"}, decimals: new(int)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)
			called := false
			app.rootCmd.RunE = func(cmd *cobra.Command, _ []string) error {
				called = true
				args, err := app.parseArgs(cmd)
				require.NoError(t, err)
				assert.Equal(t, tt.decimals, args.Decimals)
				assert.Equal(t, []string{"csv", "pdf"}, args.ReportType)
				assert.True(t, args.Quiet)
				return nil
			}

			app.SetArgs(tt.args)
			require.NoError(t, app.Execute())
			assert.True(t, called)
		})
	}
}

func TestImportThenRunFromPsetStore(t *testing.T) {
	// Given a model and a schedule definition CSV
	dir := t.TempDir()
	modelPath := writeFile(t, dir, "house.json", houseModel)
	csvPath := writeFile(t, dir, "walls.csv", wallsCSV)
	yamlPath := filepath.Join(dir, "walls.yaml")
	db := filepath.Join(dir, "psets.db")
	out := filepath.Join(dir, "out")

	// When the CSV is imported into a YAML file and the pset store
	app := newTestApp(t)
	app.SetArgs([]string{"import", csvPath, yamlPath, "-q", "--pset-db", db})
	require.NoError(t, app.Execute())

	// Then the YAML schedule runs and exports a CSV report
	app = newTestApp(t)
	app.SetArgs([]string{"-q", "-m", modelPath, "-s", yamlPath,
		"-n", "walls", "-y", "csv", "-d", out, "--delimiter", ";"})
	require.NoError(t, app.Execute())

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	data, err := os.ReadFile(filepath.Join(out, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, "Operation;Value;Unit\nWalls;2;\nWall length;7.00;m\n", string(data))

	// And the stored copy runs the same way
	app = newTestApp(t)
	app.SetArgs([]string{"-q", "-m", modelPath, "-s", "pset:walls", "--pset-db", db,
		"-n", "stored", "-y", "md", "-d", out})
	require.NoError(t, app.Execute())

	entries, err = os.ReadDir(out)
	require.NoError(t, err)
	var md string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".md") {
			b, err := os.ReadFile(filepath.Join(out, e.Name()))
			require.NoError(t, err)
			md = string(b)
		}
	}
	assert.Contains(t, md, "| Wall length | 7.00 | m |")
}

func TestRun_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "house.json", houseModel)
	writeFile(t, dir, "walls.csv", wallsCSV)
	cfg := writeFile(t, dir, "arch.toml", `
model = "house.json"
schedule = "walls.csv"
decimals = 1
report_name = "walls"
report_type = ["tsv"]
dir = "reports"
`)

	app := newTestApp(t)
	app.SetArgs([]string{"-q", "-C", cfg})
	require.NoError(t, app.Execute())

	entries, err := os.ReadDir(filepath.Join(dir, "reports"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	data, err := os.ReadFile(filepath.Join(dir, "reports", entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, "Operation\tValue\tUnit\nWalls\t2\t\nWall length\t7.0\tm\n", string(data))
}

func TestRun_MissingModel(t *testing.T) {
	app := newTestApp(t)
	app.SetArgs([]string{"-q", "-s", "walls.yaml"})

	err := app.Execute()

	assert.ErrorContains(t, err, "no model")
}
