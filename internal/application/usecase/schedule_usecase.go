package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/diillson/arch-schedule-go/internal/domain/entity"
	"github.com/diillson/arch-schedule-go/internal/domain/repository"
	"github.com/diillson/arch-schedule-go/internal/domain/schedule"
	"github.com/diillson/arch-schedule-go/internal/shared/types"
)

// PsetPrefix marca um schedule que deve ser lido do pset store pelo label,
// por exemplo "pset:Walls".
const PsetPrefix = "pset:"

// ExportSettings são os ajustes de saída que só se conhecem depois de mesclar
// flags e arquivo de configuração.
type ExportSettings struct {
	Delimiter    rune
	ColumnWidths []float64
	Title        string
}

// Factories cria os adaptadores que dependem de valores de execução.
type Factories struct {
	Export    func(settings ExportSettings) repository.ExportRepository
	Publisher func(bucket, prefix, profile string) repository.PublishRepository
	PsetStore func(ctx context.Context, path string) (repository.PsetRepository, error)
}

// ScheduleUseCase implementa a lógica de negócio para gerar relatórios de schedule.
type ScheduleUseCase struct {
	modelRepo    repository.ModelRepository
	scheduleRepo repository.ScheduleRepository
	configRepo   repository.ConfigRepository
	watchRepo    repository.WatchRepository
	factories    Factories
	console      types.ConsoleInterface
	logger       zerolog.Logger
}

// NewScheduleUseCase cria um novo caso de uso de schedule.
func NewScheduleUseCase(
	modelRepo repository.ModelRepository,
	scheduleRepo repository.ScheduleRepository,
	configRepo repository.ConfigRepository,
	watchRepo repository.WatchRepository,
	factories Factories,
	console types.ConsoleInterface,
	logger zerolog.Logger,
) *ScheduleUseCase {
	return &ScheduleUseCase{
		modelRepo:    modelRepo,
		scheduleRepo: scheduleRepo,
		configRepo:   configRepo,
		watchRepo:    watchRepo,
		factories:    factories,
		console:      console,
		logger:       logger,
	}
}

// Report é o resultado de uma execução.
type Report struct {
	Label   string
	Grid    *entity.Grid
	Exports []ExportedFile
}

// ExportedFile descreve um arquivo gravado e, se houver, onde foi publicado.
type ExportedFile struct {
	Format string
	Path   string
	Remote string
}

// ResolveArgs mescla o arquivo de configuração (se houver) sob as flags.
// Valores dados na linha de comando sempre vencem.
func (uc *ScheduleUseCase) ResolveArgs(args *types.CLIArgs) (*types.CLIArgs, error) {
	resolved := *args
	if args.ConfigFile != "" {
		cfg, err := uc.configRepo.LoadConfigFile(args.ConfigFile)
		if err != nil {
			return nil, err
		}
		mergeConfig(&resolved, cfg)
	}

	if resolved.Delimiter == "" {
		resolved.Delimiter = ","
	}
	if utf8.RuneCountInString(resolved.Delimiter) != 1 {
		return nil, fmt.Errorf("delimiter must be a single character, got %q", resolved.Delimiter)
	}
	reportTypes := make([]string, 0, len(resolved.ReportType))
	for _, t := range resolved.ReportType {
		reportTypes = append(reportTypes, strings.ToLower(strings.TrimSpace(t)))
	}
	resolved.ReportType = reportTypes
	if resolved.Dir != "" {
		abs, err := filepath.Abs(resolved.Dir)
		if err != nil {
			return nil, err
		}
		resolved.Dir = abs
	}
	return &resolved, nil
}

func mergeConfig(args *types.CLIArgs, cfg *types.Config) {
	setString := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	setString(&args.Model, cfg.Model)
	setString(&args.Schedule, cfg.Schedule)
	setString(&args.ReportName, cfg.ReportName)
	setString(&args.Dir, cfg.Dir)
	setString(&args.Delimiter, cfg.Delimiter)
	setString(&args.Spreadsheet, cfg.Spreadsheet)
	setString(&args.S3Bucket, cfg.S3Bucket)
	setString(&args.S3Prefix, cfg.S3Prefix)
	setString(&args.AWSProfile, cfg.AWSProfile)
	setString(&args.PsetDB, cfg.PsetDB)
	setString(&args.Listen, cfg.Listen)

	if args.Decimals == nil && cfg.Decimals >= 0 {
		d := cfg.Decimals
		args.Decimals = &d
	}
	if len(args.ReportType) == 0 {
		args.ReportType = append([]string(nil), cfg.ReportType...)
	}
	if len(args.ColumnWidths) == 0 {
		args.ColumnWidths = cfg.ColumnWidths
	}
	args.Detailed = args.Detailed || cfg.Detailed
	args.Verbose = args.Verbose || cfg.Verbose
}

// RunSchedule gera o relatório, mostra no console e grava as saídas pedidas.
// Se o schedule tiver AutoUpdate, continua observando os arquivos de entrada.
func (uc *ScheduleUseCase) RunSchedule(ctx context.Context, args *types.CLIArgs) error {
	args, err := uc.ResolveArgs(args)
	if err != nil {
		return err
	}

	report, sched, err := uc.runOnce(ctx, args)
	if err != nil {
		return err
	}
	uc.displayExports(report.Exports)

	if sched.AutoUpdate {
		return uc.watch(ctx, args)
	}
	return nil
}

// WatchSchedule roda uma vez e depois refaz o relatório a cada mudança no
// modelo ou no schedule, até ctx terminar.
func (uc *ScheduleUseCase) WatchSchedule(ctx context.Context, args *types.CLIArgs) error {
	args, err := uc.ResolveArgs(args)
	if err != nil {
		return err
	}
	if _, _, err := uc.runOnce(ctx, args); err != nil {
		return err
	}
	return uc.watch(ctx, args)
}

func (uc *ScheduleUseCase) watch(ctx context.Context, args *types.CLIArgs) error {
	if uc.watchRepo == nil {
		return errors.New("file watching is not available")
	}

	paths := []string{args.Model}
	if !strings.HasPrefix(args.Schedule, PsetPrefix) {
		paths = append(paths, args.Schedule)
	}
	uc.console.LogInfo("Watching %s for changes (Ctrl+C to stop)", strings.Join(paths, ", "))

	return uc.watchRepo.Watch(ctx, paths, func(changed string) {
		uc.console.LogInfo("%s changed, regenerating report", filepath.Base(changed))
		if _, _, err := uc.runOnce(ctx, args); err != nil {
			uc.console.LogError("Failed to regenerate report: %s", err)
		}
	})
}

func (uc *ScheduleUseCase) runOnce(ctx context.Context, args *types.CLIArgs) (*Report, *entity.Schedule, error) {
	status := uc.console.Status("Loading model and schedule...")

	doc, sched, fromStore, err := uc.load(ctx, args)
	if err != nil {
		status.Stop()
		return nil, nil, err
	}

	status.Update("Generating report...")
	grid := uc.GenerateReport(doc, sched, args)
	status.Stop()

	report := &Report{Label: labelOrDefault(sched), Grid: grid}
	if !args.Quiet {
		uc.console.DisplayReport(report.Label, grid.Rows())
	}

	exporter := uc.ExporterFor(args, report.Label)

	if args.ReportName != "" && len(args.ReportType) > 0 {
		report.Exports = uc.exportReports(exporter, grid, report.Label, args)
	}

	if sched.CreateSpreadsheet || args.Spreadsheet != "" {
		path := args.Spreadsheet
		if path == "" {
			path = filepath.Join(args.Dir, report.Label+".xlsx")
		}
		if err := exporter.SyncSpreadsheet(grid, path); err != nil {
			uc.console.LogError("Failed to update spreadsheet: %s", err)
		} else {
			uc.console.LogSuccess("Spreadsheet updated: %s", path)
			report.Exports = append(report.Exports, ExportedFile{Format: "sheet", Path: path})
		}
	}

	if args.S3Bucket != "" && len(report.Exports) > 0 {
		uc.publish(ctx, args, report.Exports)
	}

	if args.PsetDB != "" && !fromStore {
		if err := uc.storeSchedule(ctx, args.PsetDB, sched); err != nil {
			uc.console.LogError("Failed to store schedule properties: %s", err)
		}
	}

	return report, sched, nil
}

// GenerateReport roda o schedule contra o modelo. Um schedule malformado
// resulta num grid vazio.
func (uc *ScheduleUseCase) GenerateReport(doc *entity.Document, sched *entity.Schedule, args *types.CLIArgs) *entity.Grid {
	if args.Detailed && !sched.DetailedResults {
		withDetails := *sched
		withDetails.DetailedResults = true
		sched = &withDetails
	}

	logger := uc.logger
	if args.Verbose && logger.GetLevel() > zerolog.InfoLevel {
		logger = logger.Level(zerolog.InfoLevel)
	}
	gen := schedule.NewGenerator(schedule.Settings{
		Decimals: args.DecimalsOrDefault(),
		Verbose:  args.Verbose,
	}, logger)

	grid, err := gen.Generate(doc, sched)
	if err != nil {
		uc.logger.Debug().Err(err).Str("schedule", sched.Label).Msg("empty report")
	}
	return grid
}

func (uc *ScheduleUseCase) load(ctx context.Context, args *types.CLIArgs) (*entity.Document, *entity.Schedule, bool, error) {
	if args.Model == "" {
		return nil, nil, false, errors.New("no model given (use --model or the config file)")
	}
	if args.Schedule == "" {
		return nil, nil, false, errors.New("no schedule given (use --schedule or the config file)")
	}

	doc, err := uc.modelRepo.LoadModel(args.Model)
	if err != nil {
		return nil, nil, false, err
	}

	if label, ok := strings.CutPrefix(args.Schedule, PsetPrefix); ok {
		sched, err := uc.loadStored(ctx, args.PsetDB, label)
		return doc, sched, true, err
	}

	sched, err := uc.scheduleRepo.LoadSchedule(args.Schedule)
	if err != nil {
		return nil, nil, false, err
	}
	return doc, sched, false, nil
}

func (uc *ScheduleUseCase) loadStored(ctx context.Context, dbPath, label string) (*entity.Schedule, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("schedule %q requires --pset-db", label)
	}
	store, err := uc.factories.PsetStore(ctx, dbPath)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.LoadSchedule(ctx, label)
}

func (uc *ScheduleUseCase) storeSchedule(ctx context.Context, dbPath string, sched *entity.Schedule) error {
	store, err := uc.factories.PsetStore(ctx, dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SaveSchedule(ctx, sched); err != nil {
		return err
	}
	uc.logger.Debug().Str("schedule", sched.Label).Str("db", dbPath).Msg("schedule properties stored")
	return nil
}

func (uc *ScheduleUseCase) exportReports(exporter repository.ExportRepository, grid *entity.Grid, title string, args *types.CLIArgs) []ExportedFile {
	var files []ExportedFile
	record := func(format, label, path string, err error) {
		if err != nil {
			uc.console.LogError("Failed to export to %s: %s", label, err)
			return
		}
		uc.console.LogSuccess("Successfully exported to %s: %s", label, path)
		files = append(files, ExportedFile{Format: format, Path: path})
	}

	for _, reportType := range args.ReportType {
		switch reportType {
		case "csv":
			p, err := exporter.ExportToCSV(grid, args.ReportName, args.Dir, firstRune(args.Delimiter))
			record(reportType, "CSV", p, err)
		case "tsv":
			p, err := exporter.ExportToTSV(grid, args.ReportName, args.Dir)
			record(reportType, "TSV", p, err)
		case "md":
			p, err := exporter.ExportToMarkdown(grid, args.ReportName, args.Dir)
			record(reportType, "Markdown", p, err)
		case "json":
			p, err := exporter.ExportToJSON(grid, args.ReportName, args.Dir)
			record(reportType, "JSON", p, err)
		case "pdf":
			p, err := exporter.ExportToPDF(grid, title, args.ReportName, args.Dir)
			record(reportType, "PDF", p, err)
		case "xlsx":
			p, err := exporter.ExportToXLSX(grid, args.ReportName, args.Dir)
			record(reportType, "XLSX", p, err)
		default:
			uc.console.LogWarning("Unknown report type %q ignored: %s", reportType, types.ErrUnrecognizedExportFormat)
		}
	}
	return files
}

func (uc *ScheduleUseCase) publish(ctx context.Context, args *types.CLIArgs, files []ExportedFile) {
	publisher := uc.factories.Publisher(args.S3Bucket, args.S3Prefix, args.AWSProfile)
	for i := range files {
		uri, err := publisher.Publish(ctx, files[i].Path)
		if err != nil {
			uc.console.LogError("Failed to upload %s: %s", filepath.Base(files[i].Path), err)
			continue
		}
		files[i].Remote = uri
		uc.console.LogSuccess("Uploaded to %s", uri)
	}
}

func (uc *ScheduleUseCase) displayExports(files []ExportedFile) {
	if len(files) == 0 {
		return
	}
	table := uc.console.CreateTable()
	table.AddColumn("Format")
	table.AddColumn("File")
	table.AddColumn("Remote")
	for _, f := range files {
		table.AddRow(strings.ToUpper(f.Format), f.Path, f.Remote)
	}
	uc.console.Print(table.Render())
}

// ExporterFor cria o exportador com o delimitador e as larguras resolvidos.
func (uc *ScheduleUseCase) ExporterFor(args *types.CLIArgs, title string) repository.ExportRepository {
	return uc.factories.Export(ExportSettings{
		Delimiter:    firstRune(args.Delimiter),
		ColumnWidths: args.ColumnWidths,
		Title:        title,
	})
}

// ImportSchedule lê um CSV de definição (operation, value, unit, objects,
// filter) e grava o schedule em outPath e/ou no pset store.
func (uc *ScheduleUseCase) ImportSchedule(ctx context.Context, csvPath, outPath string, args *types.CLIArgs) (*entity.Schedule, error) {
	args, err := uc.ResolveArgs(args)
	if err != nil {
		return nil, err
	}

	sched, err := uc.scheduleRepo.ImportCSV(csvPath)
	if err != nil {
		return nil, err
	}
	rows, err := sched.Rows()
	if err != nil {
		return nil, fmt.Errorf("imported schedule %s: %w", csvPath, err)
	}
	uc.console.LogInfo("Imported %d operations from %s", len(rows), filepath.Base(csvPath))

	if outPath == "" && args.PsetDB == "" {
		uc.console.LogWarning("Nothing to write: give an output file or --pset-db")
		return sched, nil
	}
	if outPath != "" {
		if err := uc.scheduleRepo.SaveSchedule(sched, outPath); err != nil {
			return nil, err
		}
		uc.console.LogSuccess("Schedule written to %s", outPath)
	}
	if args.PsetDB != "" {
		if err := uc.storeSchedule(ctx, args.PsetDB, sched); err != nil {
			return nil, err
		}
		uc.console.LogSuccess("Schedule %q stored in %s", labelOrDefault(sched), args.PsetDB)
	}
	return sched, nil
}

// ListStoredSchedules devolve os labels guardados no pset store.
func (uc *ScheduleUseCase) ListStoredSchedules(ctx context.Context, dbPath string) ([]string, error) {
	store, err := uc.factories.PsetStore(ctx, dbPath)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.ListSchedules(ctx)
}

// LoadStoredSchedule lê um schedule do pset store pelo label.
func (uc *ScheduleUseCase) LoadStoredSchedule(ctx context.Context, dbPath, label string) (*entity.Schedule, error) {
	return uc.loadStored(ctx, dbPath, label)
}

// LoadModel expõe o repositório de modelos para os adaptadores de entrada.
func (uc *ScheduleUseCase) LoadModel(path string) (*entity.Document, error) {
	return uc.modelRepo.LoadModel(path)
}

func labelOrDefault(s *entity.Schedule) string {
	if s.Label == "" {
		return "Schedule"
	}
	return s.Label
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return ','
	}
	return r
}
