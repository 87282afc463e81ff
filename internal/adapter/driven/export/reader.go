package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/diillson/arch-schedule-go/internal/domain/entity"
)

// ReadCSV lê de volta um relatório gravado em CSV ou TSV. O delimitador vem
// da extensão quando delimiter é zero.
func ReadCSV(path string, delimiter rune) (*entity.Grid, error) {
	if delimiter == 0 {
		delimiter = ','
		if strings.EqualFold(filepath.Ext(path), ".tsv") {
			delimiter = '\t'
		}
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening report: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading report %s: %w", path, err)
	}

	grid := entity.NewGrid()
	for i, rec := range records {
		for j, v := range rec {
			if j >= len(entity.Columns) {
				break
			}
			grid.Put(i+1, entity.Columns[j], v)
		}
	}
	return grid, nil
}
