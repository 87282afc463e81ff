package repository

import (
	"context"

	"github.com/diillson/arch-schedule-go/internal/domain/entity"
)

// ScheduleRepository reads and writes schedule definition files.
type ScheduleRepository interface {
	LoadSchedule(path string) (*entity.Schedule, error)
	ImportCSV(path string) (*entity.Schedule, error)
	SaveSchedule(s *entity.Schedule, path string) error
}

// PsetRepository is the companion property-set store. Each schedule column is
// kept as one "::"-joined string, keyed by the schedule label.
type PsetRepository interface {
	SaveSchedule(ctx context.Context, s *entity.Schedule) error
	LoadSchedule(ctx context.Context, label string) (*entity.Schedule, error)
	ListSchedules(ctx context.Context) ([]string, error)
	Close() error
}
