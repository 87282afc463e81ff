package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/diillson/arch-schedule-go/internal/adapter/driving/server"
	"github.com/diillson/arch-schedule-go/internal/application/usecase"
	"github.com/diillson/arch-schedule-go/internal/shared/types"
	"github.com/diillson/arch-schedule-go/pkg/version"
)

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd         *cobra.Command
	scheduleUseCase *usecase.ScheduleUseCase
	console         types.ConsoleInterface
	logger          zerolog.Logger
	version         string
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(versionStr string, console types.ConsoleInterface, logger zerolog.Logger) *CLIApp {
	app := &CLIApp{
		version: versionStr,
		console: console,
		logger:  logger,
	}

	// Obtem a versão formatada
	formattedVersion := version.FormatVersion()

	rootCmd := &cobra.Command{
		Use:           "arch-schedule",
		Short:         "Quantity schedules for building models",
		Version:       formattedVersion,
		RunE:          app.runCommand,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{printf "Arch Schedule version: %s\n" .Version}}`)

	// Adiciona flags de linha de comando
	flags := rootCmd.PersistentFlags()
	flags.StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	flags.StringP("model", "m", "", "Building model to evaluate (JSON or YAML)")
	flags.StringP("schedule", "s", "", "Schedule definition file (YAML, TOML, JSON or CSV), or pset:<label>")
	flags.Int("decimals", types.DefaultDecimals, "Decimals for unit-converted values")
	flags.Bool("detailed", false, "List every object's value above each total")
	flags.BoolP("verbose", "v", false, "Trace every operation and value")
	flags.StringP("report-name", "n", "", "Specify the base name for the report file (without extension)")
	flags.StringSliceP("report-type", "y", nil, "Specify report types: csv, tsv, md, json, pdf, xlsx")
	flags.StringP("dir", "d", "", "Directory to save the report files (default: current directory)")
	flags.String("delimiter", "", "Field delimiter for CSV reports (default: ,)")
	flags.String("spreadsheet", "", "Workbook kept in sync with the report on every run")
	flags.String("s3-bucket", "", "Upload exported reports to this S3 bucket")
	flags.String("s3-prefix", "", "Key prefix for uploaded reports")
	flags.String("aws-profile", "", "AWS profile used for uploads")
	flags.String("pset-db", "", "SQLite file storing schedule property sets")
	flags.BoolP("quiet", "q", false, "Do not print the banner or the report table")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the report whenever the model or schedule changes",
		RunE:  app.runWatch,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve reports over HTTP",
		RunE:  app.runServe,
	}
	serveCmd.Flags().String("listen", "", "Address to listen on (default: "+server.DefaultAddr+")")

	importCmd := &cobra.Command{
		Use:   "import CSV [OUTPUT]",
		Short: "Import a schedule definition from a CSV file",
		Long: "Reads rows of operation, value, unit, objects and filter from CSV and writes\n" +
			"them to OUTPUT (.yaml, .toml or .json) and/or the --pset-db store.",
		Args: cobra.RangeArgs(1, 2),
		RunE: app.runImport,
	}

	listCmd := &cobra.Command{
		Use:   "schedules",
		Short: "List the schedules kept in the pset store",
		RunE:  app.runList,
	}

	rootCmd.AddCommand(watchCmd, serveCmd, importCmd, listCmd)

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

// SetArgs overrides os.Args, for tests.
func (app *CLIApp) SetArgs(args []string) {
	app.rootCmd.SetArgs(args)
}

// parseArgs parses command-line arguments into a CLIArgs struct.
func (app *CLIApp) parseArgs(cmd *cobra.Command) (*types.CLIArgs, error) {
	flags := cmd.Flags()
	configFile, _ := flags.GetString("config-file")
	model, _ := flags.GetString("model")
	scheduleFile, _ := flags.GetString("schedule")
	detailed, _ := flags.GetBool("detailed")
	verbose, _ := flags.GetBool("verbose")
	reportName, _ := flags.GetString("report-name")
	reportType, _ := flags.GetStringSlice("report-type")
	dir, _ := flags.GetString("dir")
	delimiter, _ := flags.GetString("delimiter")
	spreadsheet, _ := flags.GetString("spreadsheet")
	s3Bucket, _ := flags.GetString("s3-bucket")
	s3Prefix, _ := flags.GetString("s3-prefix")
	awsProfile, _ := flags.GetString("aws-profile")
	psetDB, _ := flags.GetString("pset-db")
	quiet, _ := flags.GetBool("quiet")

	// Sem a flag, decimals fica a cargo do arquivo de configuração
	var decimals *int
	if flags.Changed("decimals") {
		d, err := flags.GetInt("decimals")
		if err != nil {
			return nil, err
		}
		decimals = &d
	}

	args := &types.CLIArgs{
		ConfigFile:  configFile,
		Model:       model,
		Schedule:    scheduleFile,
		Decimals:    decimals,
		Detailed:    detailed,
		Verbose:     verbose,
		ReportName:  reportName,
		ReportType:  reportType,
		Dir:         dir,
		Delimiter:   delimiter,
		Spreadsheet: spreadsheet,
		S3Bucket:    s3Bucket,
		S3Prefix:    s3Prefix,
		AWSProfile:  awsProfile,
		PsetDB:      psetDB,
		Quiet:       quiet,
	}

	if cmd.Flags().Lookup("listen") != nil {
		args.Listen, _ = flags.GetString("listen")
	}

	return args, nil
}

func (app *CLIApp) start(cmd *cobra.Command) (*types.CLIArgs, error) {
	cliArgs, err := app.parseArgs(cmd)
	if err != nil {
		return nil, err
	}
	if !cliArgs.Quiet {
		// Exibe o banner de boas-vindas
		displayWelcomeBanner(app.version)

		// Verifica a versão mais recente disponível
		go checkLatestVersion(app.version)
	}
	return cliArgs, nil
}

// runCommand é o ponto de entrada principal para o comando CLI.
func (app *CLIApp) runCommand(cmd *cobra.Command, args []string) error {
	cliArgs, err := app.start(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return app.scheduleUseCase.RunSchedule(ctx, cliArgs)
}

func (app *CLIApp) runWatch(cmd *cobra.Command, args []string) error {
	cliArgs, err := app.start(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return app.scheduleUseCase.WatchSchedule(ctx, cliArgs)
}

func (app *CLIApp) runServe(cmd *cobra.Command, args []string) error {
	cliArgs, err := app.start(cmd)
	if err != nil {
		return err
	}
	resolved, err := app.scheduleUseCase.ResolveArgs(cliArgs)
	if err != nil {
		return err
	}
	if resolved.Model == "" {
		return errors.New("serve needs a model (use --model or the config file)")
	}

	api := server.NewWebAPI(server.Config{
		Addr: resolved.Listen,
		Args: *resolved,
		Dependencies: server.Dependencies{
			Reports:  app.scheduleUseCase,
			Exporter: app.scheduleUseCase.ExporterFor(resolved, ""),
			Logger:   app.logger.Level(zerolog.InfoLevel),
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	app.console.LogInfo("Serving reports for %s", resolved.Model)
	return api.Start(ctx)
}

func (app *CLIApp) runImport(cmd *cobra.Command, args []string) error {
	cliArgs, err := app.start(cmd)
	if err != nil {
		return err
	}
	output := ""
	if len(args) > 1 {
		output = args[1]
	}
	_, err = app.scheduleUseCase.ImportSchedule(cmd.Context(), args[0], output, cliArgs)
	return err
}

func (app *CLIApp) runList(cmd *cobra.Command, args []string) error {
	cliArgs, err := app.start(cmd)
	if err != nil {
		return err
	}
	resolved, err := app.scheduleUseCase.ResolveArgs(cliArgs)
	if err != nil {
		return err
	}
	if resolved.PsetDB == "" {
		app.console.LogWarning("No pset store configured (use --pset-db)")
		return nil
	}

	labels, err := app.scheduleUseCase.ListStoredSchedules(cmd.Context(), resolved.PsetDB)
	if err != nil {
		return err
	}
	if len(labels) == 0 {
		app.console.LogInfo("No schedules stored in %s", resolved.PsetDB)
		return nil
	}

	table := app.console.CreateTable()
	table.AddColumn("Schedule")
	for _, l := range labels {
		table.AddRow(l)
	}
	app.console.Print(table.Render())
	return nil
}

// SetScheduleUseCase sets the schedule use case for the CLI app.
func (app *CLIApp) SetScheduleUseCase(useCase *usecase.ScheduleUseCase) {
	app.scheduleUseCase = useCase
}
