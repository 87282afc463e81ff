package pset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/diillson/arch-schedule-go/internal/domain/entity"
	"github.com/diillson/arch-schedule-go/internal/domain/repository"
	"github.com/diillson/arch-schedule-go/internal/shared/types"
)

// Separator junta os itens de uma coluna num único valor de property set.
const Separator = "::"

const schema = `
CREATE TABLE IF NOT EXISTS schedule_psets (
	label              TEXT PRIMARY KEY,
	row_count          INTEGER NOT NULL,
	operation          TEXT NOT NULL,
	value              TEXT NOT NULL,
	unit               TEXT NOT NULL,
	objects            TEXT NOT NULL,
	filter             TEXT NOT NULL,
	detailed_results   INTEGER NOT NULL DEFAULT 0,
	create_spreadsheet INTEGER NOT NULL DEFAULT 0,
	auto_update        INTEGER NOT NULL DEFAULT 0,
	updated_at         TEXT NOT NULL
);`

// PsetRepositoryImpl guarda schedules num arquivo SQLite, uma linha por
// schedule, com cada coluna serializada como texto separado por "::".
type PsetRepositoryImpl struct {
	db *sql.DB
}

// NewPsetRepository abre (ou cria) o banco em path.
func NewPsetRepository(ctx context.Context, path string) (repository.PsetRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening pset store: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating pset schema: %w", err)
	}
	return &PsetRepositoryImpl{db: db}, nil
}

func (r *PsetRepositoryImpl) SaveSchedule(ctx context.Context, s *entity.Schedule) error {
	rows, err := s.Rows()
	if err != nil {
		return fmt.Errorf("schedule %q: %w", s.Label, err)
	}

	joined := make([]string, 0, 5)
	for _, c := range []struct {
		name  string
		items []string
	}{
		{"operation", s.Operation},
		{"value", s.Value},
		{"unit", s.Unit},
		{"objects", s.Objects},
		{"filter", s.Filter},
	} {
		raw, err := joinColumn(c.items)
		if err != nil {
			return fmt.Errorf("schedule %q, column %s: %w", labelOf(s), c.name, err)
		}
		joined = append(joined, raw)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO schedule_psets
			(label, row_count, operation, value, unit, objects, filter,
			 detailed_results, create_spreadsheet, auto_update, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(label) DO UPDATE SET
			row_count = excluded.row_count,
			operation = excluded.operation,
			value = excluded.value,
			unit = excluded.unit,
			objects = excluded.objects,
			filter = excluded.filter,
			detailed_results = excluded.detailed_results,
			create_spreadsheet = excluded.create_spreadsheet,
			auto_update = excluded.auto_update,
			updated_at = excluded.updated_at`,
		labelOf(s), len(rows),
		joined[0], joined[1], joined[2], joined[3], joined[4],
		s.DetailedResults, s.CreateSpreadsheet, s.AutoUpdate,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("error saving schedule %q: %w", labelOf(s), err)
	}
	return nil
}

// joinColumn junta os itens com Separator e recusa colunas que não voltariam
// iguais no Split de LoadSchedule, como "Tag:" seguido de outro item.
func joinColumn(items []string) (string, error) {
	raw := strings.Join(items, Separator)
	back := strings.Split(raw, Separator)
	if len(back) != len(items) {
		return "", fmt.Errorf("%w: an item contains %q", types.ErrMalformedInput, Separator)
	}
	for i := range items {
		if back[i] != items[i] {
			return "", fmt.Errorf("%w: item %q does not survive the %q separator",
				types.ErrMalformedInput, items[i], Separator)
		}
	}
	return raw, nil
}

// LoadSchedule reconstrói as colunas. Uma contagem de itens diferente de
// row_count aparece como ErrMalformedInput.
func (r *PsetRepositoryImpl) LoadSchedule(ctx context.Context, label string) (*entity.Schedule, error) {
	var (
		n                           int
		op, val, unit, objs, filt   string
		detailed, sheet, autoUpdate bool
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT row_count, operation, value, unit, objects, filter,
		       detailed_results, create_spreadsheet, auto_update
		FROM schedule_psets WHERE label = ?`, label).
		Scan(&n, &op, &val, &unit, &objs, &filt, &detailed, &sheet, &autoUpdate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", types.ErrScheduleNotFound, label)
	}
	if err != nil {
		return nil, fmt.Errorf("error loading schedule %q: %w", label, err)
	}

	s := &entity.Schedule{
		Label:             label,
		DetailedResults:   detailed,
		CreateSpreadsheet: sheet,
		AutoUpdate:        autoUpdate,
	}
	columns := []struct {
		name string
		raw  string
		dst  *[]string
	}{
		{"operation", op, &s.Operation},
		{"value", val, &s.Value},
		{"unit", unit, &s.Unit},
		{"objects", objs, &s.Objects},
		{"filter", filt, &s.Filter},
	}
	for _, c := range columns {
		if n == 0 {
			continue
		}
		items := strings.Split(c.raw, Separator)
		if len(items) != n {
			return nil, fmt.Errorf("%w: pset column %s of %q has %d items, expected %d",
				types.ErrMalformedInput, c.name, label, len(items), n)
		}
		*c.dst = items
	}
	return s, nil
}

func (r *PsetRepositoryImpl) ListSchedules(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT label FROM schedule_psets ORDER BY label`)
	if err != nil {
		return nil, fmt.Errorf("error listing schedules: %w", err)
	}
	defer rows.Close()

	var labels []string
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	return labels, rows.Err()
}

func (r *PsetRepositoryImpl) Close() error {
	return r.db.Close()
}

func labelOf(s *entity.Schedule) string {
	if s.Label == "" {
		return "Schedule"
	}
	return s.Label
}
