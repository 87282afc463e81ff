package repository

import (
	"github.com/diillson/arch-schedule-go/internal/domain/entity"
)

// ModelRepository loads the building model schedules are evaluated against.
type ModelRepository interface {
	LoadModel(path string) (*entity.Document, error)
}
