package usecase

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/diillson/arch-schedule-go/internal/domain/entity"
	"github.com/diillson/arch-schedule-go/internal/domain/repository"
	"github.com/diillson/arch-schedule-go/internal/shared/types"
)

type testDeps struct {
	model     *mockModelRepo
	schedules *mockScheduleRepo
	config    *mockConfigRepo
	exporter  *mockExportRepo
	publisher *mockPublisher
	store     *mockPsetStore
	watcher   *mockWatcher
	console   *fakeConsole

	exportSettings []ExportSettings
	publishTargets [][3]string
}

func newTestUseCase(t *testing.T) (*ScheduleUseCase, *testDeps) {
	d := &testDeps{
		model:     &mockModelRepo{},
		schedules: &mockScheduleRepo{},
		config:    &mockConfigRepo{},
		exporter:  &mockExportRepo{},
		publisher: &mockPublisher{},
		store:     &mockPsetStore{},
		watcher:   &mockWatcher{},
		console:   &fakeConsole{},
	}
	factories := Factories{
		Export: func(s ExportSettings) repository.ExportRepository {
			d.exportSettings = append(d.exportSettings, s)
			return d.exporter
		},
		Publisher: func(bucket, prefix, profile string) repository.PublishRepository {
			d.publishTargets = append(d.publishTargets, [3]string{bucket, prefix, profile})
			return d.publisher
		},
		PsetStore: func(ctx context.Context, path string) (repository.PsetRepository, error) {
			return d.store, nil
		},
	}
	uc := NewScheduleUseCase(d.model, d.schedules, d.config, d.watcher, factories, d.console,
		zerolog.New(zerolog.NewTestWriter(t)))
	return uc, d
}

func wallsDoc() *entity.Document {
	return entity.NewDocument("house", []*entity.Object{
		entity.NewObject(map[string]any{"Name": "Wall", "Label": "W1", "IfcType": "Wall",
			"Length": map[string]any{"Value": 4.0, "Unit": "m"}}),
		entity.NewObject(map[string]any{"Name": "Wall001", "Label": "W2", "IfcType": "Wall",
			"Length": 3000}),
		entity.NewObject(map[string]any{"Name": "Door", "Label": "D1", "IfcType": "Door"}),
	}, nil)
}

func wallsSchedule() *entity.Schedule {
	s := &entity.Schedule{Label: "Walls"}
	s.AppendRow(entity.OperationRow{Name: "Walls", Value: "COUNT", Filter: "type:Wall"})
	s.AppendRow(entity.OperationRow{Name: "Wall length", Value: "Length", Unit: "m", Filter: "type:Wall"})
	return s
}

func TestResolveArgs_FlagsWinOverConfig(t *testing.T) {
	// Given
	uc, d := newTestUseCase(t)
	d.config.On("LoadConfigFile", "arch.toml").Return(&types.Config{
		Model:        "/cfg/model.json",
		Schedule:     "/cfg/walls.yaml",
		Decimals:     3,
		ReportName:   "from-config",
		ReportType:   []string{"pdf"},
		Delimiter:    ";",
		ColumnWidths: []float64{50, 20, 10},
		Verbose:      true,
	}, nil)

	// When
	args, err := uc.ResolveArgs(&types.CLIArgs{
		ConfigFile: "arch.toml",
		Model:      "flag-model.json",
		ReportType: []string{" CSV", "Md"},
	})

	// Then
	require.NoError(t, err)
	assert.Equal(t, "flag-model.json", args.Model)
	assert.Equal(t, "/cfg/walls.yaml", args.Schedule)
	assert.Equal(t, 3, args.DecimalsOrDefault())
	assert.Equal(t, "from-config", args.ReportName)
	assert.Equal(t, []string{"csv", "md"}, args.ReportType)
	assert.Equal(t, ";", args.Delimiter)
	assert.Equal(t, []float64{50, 20, 10}, args.ColumnWidths)
	assert.True(t, args.Verbose)
}

func TestResolveArgs_Defaults(t *testing.T) {
	uc, d := newTestUseCase(t)
	d.config.On("LoadConfigFile", "c.yaml").Return(&types.Config{Decimals: -1}, nil)

	args, err := uc.ResolveArgs(&types.CLIArgs{ConfigFile: "c.yaml", Dir: "out"})

	require.NoError(t, err)
	assert.Nil(t, args.Decimals)
	assert.Equal(t, types.DefaultDecimals, args.DecimalsOrDefault())
	assert.Equal(t, ",", args.Delimiter)
	assert.True(t, filepath.IsAbs(args.Dir))
}

func TestResolveArgs_Errors(t *testing.T) {
	uc, d := newTestUseCase(t)
	d.config.On("LoadConfigFile", "bad.toml").Return(nil, errors.New("boom"))

	_, err := uc.ResolveArgs(&types.CLIArgs{ConfigFile: "bad.toml"})
	assert.ErrorContains(t, err, "boom")

	_, err = uc.ResolveArgs(&types.CLIArgs{Delimiter: ";;"})
	assert.ErrorContains(t, err, "single character")
}

func TestRunSchedule_DisplaysAndExports(t *testing.T) {
	// Given
	uc, d := newTestUseCase(t)
	dir := t.TempDir()
	d.model.On("LoadModel", "model.json").Return(wallsDoc(), nil)
	d.schedules.On("LoadSchedule", "walls.yaml").Return(wallsSchedule(), nil)
	d.exporter.On("ExportToCSV", mock.Anything, "walls", dir, ';').Return(dir+"/walls.csv", nil)
	d.exporter.On("ExportToPDF", mock.Anything, "Walls", "walls", dir).Return("", errors.New("disk full"))

	// When
	err := uc.RunSchedule(context.Background(), &types.CLIArgs{
		Model:      "model.json",
		Schedule:   "walls.yaml",
		ReportName: "walls",
		ReportType: []string{"csv", "pdf", "docx"},
		Dir:        dir,
		Delimiter:  ";",
	})

	// Then
	require.NoError(t, err)
	require.Len(t, d.console.reports, 1)
	assert.Equal(t, [][]string{
		{"Operation", "Value", "Unit"},
		{"Walls", "2", ""},
		{"Wall length", "7.00", "m"},
	}, d.console.reports[0])

	assert.Equal(t, ';', d.exportSettings[0].Delimiter)
	assert.Equal(t, "Walls", d.exportSettings[0].Title)
	assert.True(t, d.console.has("success", "exported to CSV"))
	assert.True(t, d.console.has("error", "disk full"))
	assert.True(t, d.console.has("warning", `"docx"`))

	require.Len(t, d.console.tables, 1)
	assert.Len(t, d.console.tables[0].rows, 1)
	d.exporter.AssertExpectations(t)
	d.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestRunSchedule_DetailedFlagAndDecimals(t *testing.T) {
	uc, d := newTestUseCase(t)
	decimals := 1
	d.model.On("LoadModel", "model.json").Return(wallsDoc(), nil)
	d.schedules.On("LoadSchedule", "walls.yaml").Return(wallsSchedule(), nil)

	err := uc.RunSchedule(context.Background(), &types.CLIArgs{
		Model: "model.json", Schedule: "walls.yaml", Detailed: true, Decimals: &decimals,
	})

	require.NoError(t, err)
	rows := d.console.reports[0]
	assert.Contains(t, rows, []string{"Wall (W1)", "4.0", "m"})
	assert.Contains(t, rows, []string{"TOTAL", "7.0", "m"})
}

func TestRunSchedule_SpreadsheetPublishAndStore(t *testing.T) {
	// Given a schedule asking for a live spreadsheet
	uc, d := newTestUseCase(t)
	dir := t.TempDir()
	sched := wallsSchedule()
	sched.CreateSpreadsheet = true
	sheet := filepath.Join(dir, "Walls.xlsx")

	d.model.On("LoadModel", "model.json").Return(wallsDoc(), nil)
	d.schedules.On("LoadSchedule", "walls.yaml").Return(sched, nil)
	d.exporter.On("ExportToJSON", mock.Anything, "walls", dir).Return(dir+"/walls.json", nil)
	d.exporter.On("SyncSpreadsheet", mock.Anything, sheet).Return(nil)
	d.publisher.On("Publish", mock.Anything, dir+"/walls.json").Return("s3://bucket/p/walls.json", nil)
	d.publisher.On("Publish", mock.Anything, sheet).Return("", errors.New("denied"))
	d.store.On("SaveSchedule", mock.Anything, sched).Return(nil)
	d.store.On("Close").Return(nil)

	// When
	err := uc.RunSchedule(context.Background(), &types.CLIArgs{
		Model: "model.json", Schedule: "walls.yaml", Dir: dir,
		ReportName: "walls", ReportType: []string{"json"},
		S3Bucket: "bucket", S3Prefix: "p", AWSProfile: "dev",
		PsetDB: "psets.db", Quiet: true,
	})

	// Then
	require.NoError(t, err)
	assert.Empty(t, d.console.reports)
	assert.Equal(t, [][3]string{{"bucket", "p", "dev"}}, d.publishTargets)
	assert.True(t, d.console.has("success", "s3://bucket/p/walls.json"))
	assert.True(t, d.console.has("error", "denied"))
	assert.Len(t, d.console.tables[0].rows, 2)
	d.exporter.AssertExpectations(t)
	d.publisher.AssertExpectations(t)
	d.store.AssertExpectations(t)
}

func TestRunSchedule_FromPsetStore(t *testing.T) {
	uc, d := newTestUseCase(t)
	d.model.On("LoadModel", "model.json").Return(wallsDoc(), nil)
	d.store.On("LoadSchedule", mock.Anything, "Walls").Return(wallsSchedule(), nil)
	d.store.On("Close").Return(nil)

	err := uc.RunSchedule(context.Background(), &types.CLIArgs{
		Model: "model.json", Schedule: "pset:Walls", PsetDB: "psets.db",
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"Walls", "2", ""}, d.console.reports[0][1])
	d.store.AssertNotCalled(t, "SaveSchedule", mock.Anything, mock.Anything)
	d.schedules.AssertNotCalled(t, "LoadSchedule", mock.Anything)
}

func TestRunSchedule_MalformedScheduleGivesEmptyReport(t *testing.T) {
	uc, d := newTestUseCase(t)
	d.model.On("LoadModel", "model.json").Return(wallsDoc(), nil)
	d.schedules.On("LoadSchedule", "bad.yaml").Return(&entity.Schedule{
		Operation: []string{"Walls"}, Value: []string{"COUNT"},
	}, nil)

	err := uc.RunSchedule(context.Background(), &types.CLIArgs{Model: "model.json", Schedule: "bad.yaml"})

	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Operation", "Value", "Unit"}}, d.console.reports[0])
}

func TestRunSchedule_LoadErrors(t *testing.T) {
	uc, d := newTestUseCase(t)

	err := uc.RunSchedule(context.Background(), &types.CLIArgs{Schedule: "walls.yaml"})
	assert.ErrorContains(t, err, "no model")

	err = uc.RunSchedule(context.Background(), &types.CLIArgs{Model: "model.json"})
	assert.ErrorContains(t, err, "no schedule")

	d.model.On("LoadModel", "model.json").Return(wallsDoc(), nil)
	err = uc.RunSchedule(context.Background(), &types.CLIArgs{Model: "model.json", Schedule: "pset:Walls"})
	assert.ErrorContains(t, err, "--pset-db")

	d.model.On("LoadModel", "missing.json").Return(nil, errors.New("no such file"))
	err = uc.RunSchedule(context.Background(), &types.CLIArgs{Model: "missing.json", Schedule: "walls.yaml"})
	assert.ErrorContains(t, err, "no such file")
}

func TestWatchSchedule_RegeneratesOnChange(t *testing.T) {
	// Given
	uc, d := newTestUseCase(t)
	d.model.On("LoadModel", "model.json").Return(wallsDoc(), nil)
	d.schedules.On("LoadSchedule", "walls.yaml").Return(wallsSchedule(), nil)
	d.watcher.On("Watch", mock.Anything, []string{"model.json", "walls.yaml"}, mock.Anything).
		Run(func(args mock.Arguments) {
			onChange := args.Get(2).(func(string))
			onChange("/abs/model.json")
		}).
		Return(nil)

	// When
	err := uc.WatchSchedule(context.Background(), &types.CLIArgs{Model: "model.json", Schedule: "walls.yaml"})

	// Then the report is shown once at start and once after the change
	require.NoError(t, err)
	assert.Len(t, d.console.reports, 2)
	assert.True(t, d.console.has("info", "model.json changed"))
	d.watcher.AssertExpectations(t)
}

func TestRunSchedule_AutoUpdateWatches(t *testing.T) {
	uc, d := newTestUseCase(t)
	sched := wallsSchedule()
	sched.AutoUpdate = true
	d.model.On("LoadModel", "model.json").Return(wallsDoc(), nil)
	d.store.On("LoadSchedule", mock.Anything, "Walls").Return(sched, nil)
	d.store.On("Close").Return(nil)
	d.watcher.On("Watch", mock.Anything, []string{"model.json"}, mock.Anything).Return(nil)

	err := uc.RunSchedule(context.Background(), &types.CLIArgs{
		Model: "model.json", Schedule: "pset:Walls", PsetDB: "psets.db",
	})

	require.NoError(t, err)
	d.watcher.AssertExpectations(t)
}

func TestImportSchedule(t *testing.T) {
	// Given
	uc, d := newTestUseCase(t)
	sched := wallsSchedule()
	sched.Label = "imported"
	d.schedules.On("ImportCSV", "walls.csv").Return(sched, nil)
	d.schedules.On("SaveSchedule", sched, "walls.yaml").Return(nil)
	d.store.On("SaveSchedule", mock.Anything, sched).Return(nil)
	d.store.On("Close").Return(nil)

	// When
	got, err := uc.ImportSchedule(context.Background(), "walls.csv", "walls.yaml", &types.CLIArgs{PsetDB: "psets.db"})

	// Then
	require.NoError(t, err)
	assert.Same(t, sched, got)
	assert.True(t, d.console.has("info", "Imported 2 operations"))
	assert.True(t, d.console.has("success", `"imported" stored`))
	d.schedules.AssertExpectations(t)
	d.store.AssertExpectations(t)
}

func TestImportSchedule_Errors(t *testing.T) {
	uc, d := newTestUseCase(t)
	d.schedules.On("ImportCSV", "empty.csv").Return(&entity.Schedule{Label: "empty"}, nil)
	d.schedules.On("ImportCSV", "missing.csv").Return(nil, errors.New("open missing.csv"))

	_, err := uc.ImportSchedule(context.Background(), "empty.csv", "out.yaml", &types.CLIArgs{})
	assert.ErrorIs(t, err, types.ErrMalformedInput)

	_, err = uc.ImportSchedule(context.Background(), "missing.csv", "out.yaml", &types.CLIArgs{})
	assert.ErrorContains(t, err, "missing.csv")

	d.schedules.AssertNotCalled(t, "SaveSchedule", mock.Anything, mock.Anything)
}

func TestListStoredSchedules(t *testing.T) {
	uc, d := newTestUseCase(t)
	d.store.On("ListSchedules", mock.Anything).Return([]string{"Doors", "Walls"}, nil)
	d.store.On("Close").Return(nil)

	labels, err := uc.ListStoredSchedules(context.Background(), "psets.db")

	require.NoError(t, err)
	assert.Equal(t, []string{"Doors", "Walls"}, labels)
	d.store.AssertExpectations(t)
}
