package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/diillson/arch-schedule-go/internal/adapter/driven/aws"
	"github.com/diillson/arch-schedule-go/internal/adapter/driven/config"
	"github.com/diillson/arch-schedule-go/internal/adapter/driven/export"
	"github.com/diillson/arch-schedule-go/internal/adapter/driven/model"
	"github.com/diillson/arch-schedule-go/internal/adapter/driven/pset"
	"github.com/diillson/arch-schedule-go/internal/adapter/driven/schedule"
	"github.com/diillson/arch-schedule-go/internal/adapter/driven/watch"
	"github.com/diillson/arch-schedule-go/internal/adapter/driving/cli"
	"github.com/diillson/arch-schedule-go/internal/application/usecase"
	"github.com/diillson/arch-schedule-go/internal/domain/repository"
	"github.com/diillson/arch-schedule-go/pkg/console"
	"github.com/diillson/arch-schedule-go/pkg/version"
)

func main() {
	// Diagnósticos do pipeline vão para stderr; o relatório fica no stdout
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(zerolog.WarnLevel).
		With().Timestamp().Logger()

	consoleImpl := console.NewConsole()

	// Inicializa o aplicativo CLI
	app := cli.NewCLIApp(version.Version, consoleImpl, logger)

	// Inicializa os repositórios
	modelRepo := model.NewModelRepository()
	scheduleRepo := schedule.NewScheduleRepository()
	configRepo := config.NewConfigRepository()
	watchRepo := watch.NewFileWatcher(watch.DefaultDebounce, logger)

	factories := usecase.Factories{
		Export: func(s usecase.ExportSettings) repository.ExportRepository {
			return export.NewExportRepository(export.Options{
				Delimiter:    s.Delimiter,
				ColumnWidths: s.ColumnWidths,
				Title:        s.Title,
			})
		},
		Publisher: aws.NewS3Publisher,
		PsetStore: pset.NewPsetRepository,
	}

	// Inicializa o caso de uso
	scheduleUseCase := usecase.NewScheduleUseCase(
		modelRepo,
		scheduleRepo,
		configRepo,
		watchRepo,
		factories,
		consoleImpl,
		logger,
	)

	// Define o caso de uso no aplicativo CLI
	app.SetScheduleUseCase(scheduleUseCase)

	// Executa o aplicativo
	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
