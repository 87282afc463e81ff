package entity

import (
	"strings"

	"github.com/diillson/arch-schedule-go/internal/shared/types"
)

// OperationRow is one line of a schedule.
type OperationRow struct {
	Name    string   `json:"operation"`
	Value   string   `json:"value"`
	Unit    string   `json:"unit"`
	Objects []string `json:"objects"`
	Filter  string   `json:"filter"`
}

// Schedule guarda as cinco colunas paralelas de um schedule, como o editor as
// entrega, mais as flags do objeto.
type Schedule struct {
	Label             string   `json:"label" yaml:"label" toml:"label"`
	Operation         []string `json:"operation" yaml:"operation" toml:"operation"`
	Value             []string `json:"value" yaml:"value" toml:"value"`
	Unit              []string `json:"unit" yaml:"unit" toml:"unit"`
	Objects           []string `json:"objects" yaml:"objects" toml:"objects"`
	Filter            []string `json:"filter" yaml:"filter" toml:"filter"`
	DetailedResults   bool     `json:"detailed_results" yaml:"detailed_results" toml:"detailed_results"`
	CreateSpreadsheet bool     `json:"create_spreadsheet" yaml:"create_spreadsheet" toml:"create_spreadsheet"`
	AutoUpdate        bool     `json:"auto_update" yaml:"auto_update" toml:"auto_update"`
}

// AppendRow adds a row to every column at once.
func (s *Schedule) AppendRow(r OperationRow) {
	s.Operation = append(s.Operation, r.Name)
	s.Value = append(s.Value, r.Value)
	s.Unit = append(s.Unit, r.Unit)
	s.Objects = append(s.Objects, strings.Join(r.Objects, ";"))
	s.Filter = append(s.Filter, r.Filter)
}

// Rows zips the columns. Empty or mismatched columns yield ErrMalformedInput.
func (s *Schedule) Rows() ([]OperationRow, error) {
	n := len(s.Operation)
	if n == 0 {
		return nil, types.ErrMalformedInput
	}
	for _, col := range [][]string{s.Value, s.Unit, s.Objects, s.Filter} {
		if len(col) != n {
			return nil, types.ErrMalformedInput
		}
	}

	rows := make([]OperationRow, n)
	for i := 0; i < n; i++ {
		rows[i] = OperationRow{
			Name:    s.Operation[i],
			Value:   s.Value[i],
			Unit:    s.Unit[i],
			Objects: SplitObjects(s.Objects[i]),
			Filter:  s.Filter[i],
		}
	}
	return rows, nil
}

// SplitObjects splits a ";"-joined object reference list, dropping blanks.
func SplitObjects(refs string) []string {
	if strings.TrimSpace(refs) == "" {
		return nil
	}
	var out []string
	for _, r := range strings.Split(refs, ";") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}
