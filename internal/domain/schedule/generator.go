package schedule

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/diillson/arch-schedule-go/internal/domain/entity"
)

// Settings are the immutable knobs of a report run.
type Settings struct {
	// Decimals is the precision used for unit-converted values.
	Decimals int
	// Verbose traces every operation at info level instead of debug.
	Verbose bool
}

// Generator turns a schedule into a report grid.
type Generator struct {
	settings Settings
	logger   zerolog.Logger
}

// NewGenerator cria um gerador com as configurações e o logger informados.
func NewGenerator(settings Settings, logger zerolog.Logger) *Generator {
	return &Generator{settings: settings, logger: logger}
}

// Generate runs every operation row of s against doc and returns a fresh grid.
// A malformed schedule yields an empty grid together with ErrMalformedInput;
// per-record problems are only logged.
func (g *Generator) Generate(doc *entity.Document, s *entity.Schedule) (*entity.Grid, error) {
	grid := entity.NewGrid()

	rows, err := s.Rows()
	if err != nil {
		g.logger.Debug().Err(err).Str("schedule", s.Label).Msg("schedule skipped")
		return grid, err
	}

	li := entity.HeaderRow
	for _, row := range rows {
		li++
		if row.Name == "" {
			continue
		}
		grid.Put(li, entity.ColumnA, row.Name)
		g.trace().Str("operation", row.Name).Msg("OPERATION")

		if strings.TrimSpace(row.Value) == "" {
			continue
		}

		sel := Select(doc, row.Objects)
		if strings.TrimSpace(row.Filter) != "" {
			f, ferr := ParseFilter(row.Filter)
			if ferr != nil {
				g.logger.Warn().Err(ferr).Str("operation", row.Name).Msg("ignoring malformed filter clauses")
			}
			sel = sel.Apply(f)
		}

		res := Aggregate(sel.Records(), row.Value, row.Unit, s.DetailedResults, g.settings.Decimals)
		for _, w := range res.Warnings {
			g.logger.Warn().Err(w).Str("operation", row.Name).Msg("value skipped")
		}

		li = g.write(grid, li, res, s.DetailedResults)
	}

	return grid, nil
}

// write places one result starting at the operation's row and returns the
// last row used.
func (g *Generator) write(grid *entity.Grid, li int, res Result, detailed bool) int {
	if res.Count {
		grid.Put(li, entity.ColumnB, res.Total)
		g.trace().Str("count", res.Total).Msg("COUNT")
		if res.Separator {
			li++
			grid.Put(li, entity.ColumnA, " ")
		}
		return li
	}

	for _, d := range res.Details {
		li++
		grid.Put(li, entity.ColumnA, d.Label)
		grid.Put(li, entity.ColumnB, d.Value)
		if d.Unit != "" {
			grid.Put(li, entity.ColumnC, d.Unit)
		}
		g.trace().Str("object", d.Label).Str("value", d.Value).Str("unit", d.Unit).Send()
	}

	if !res.HasTotal {
		return li
	}
	if detailed {
		li++
		grid.Put(li, entity.ColumnA, "TOTAL")
	}
	grid.Put(li, entity.ColumnB, res.Total)
	if res.Unit != "" {
		grid.Put(li, entity.ColumnC, res.Unit)
	}
	g.trace().Str("total", res.Total).Str("unit", res.Unit).Msg("TOTAL")
	return li
}

func (g *Generator) trace() *zerolog.Event {
	if g.settings.Verbose {
		return g.logger.Info()
	}
	return g.logger.Debug()
}
