package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/diillson/arch-schedule-go/internal/domain/entity"
)

// SheetName é a aba onde o relatório é escrito.
const SheetName = "Schedule"

func writeXLSX(w io.Writer, grid *entity.Grid, columnWidths []float64) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}
	if err := setColumnWidths(f, columnWidths); err != nil {
		return err
	}
	if err := fillSheet(f, grid); err != nil {
		return err
	}
	return f.Write(w)
}

// SyncSpreadsheet atualiza a planilha "viva" do schedule: a aba é limpa e
// reescrita, as larguras de coluna existentes são mantidas. Se o arquivo não
// existe ele é criado com as larguras configuradas.
func (r *ExportRepositoryImpl) SyncSpreadsheet(grid *entity.Grid, path string) error {
	f, err := excelize.OpenFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		f = excelize.NewFile()
		if err := f.SetSheetName("Sheet1", SheetName); err != nil {
			return err
		}
		if err := setColumnWidths(f, r.opts.ColumnWidths); err != nil {
			return err
		}
	case err != nil:
		return fmt.Errorf("error opening spreadsheet %s: %w", path, err)
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(SheetName)
	if err != nil {
		return err
	}
	if idx < 0 {
		if idx, err = f.NewSheet(SheetName); err != nil {
			return err
		}
		if err := setColumnWidths(f, r.opts.ColumnWidths); err != nil {
			return err
		}
	}
	f.SetActiveSheet(idx)

	if err := clearSheet(f); err != nil {
		return err
	}
	if err := fillSheet(f, grid); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating spreadsheet directory: %w", err)
	}
	return writeAtomic(path, func(w io.Writer) error { return f.Write(w) })
}

func setColumnWidths(f *excelize.File, widths []float64) error {
	for i, col := range entity.Columns {
		width := defaultColumnWidths[i]
		if i < len(widths) && widths[i] > 0 {
			width = widths[i]
		}
		if err := f.SetColWidth(SheetName, string(col), string(col), width); err != nil {
			return err
		}
	}
	return nil
}

// clearSheet remove as linhas de baixo para cima; a definição das colunas
// (larguras) não é tocada.
func clearSheet(f *excelize.File) error {
	rows, err := f.GetRows(SheetName)
	if err != nil {
		return err
	}
	for r := len(rows); r >= 1; r-- {
		if err := f.RemoveRow(SheetName, r); err != nil {
			return err
		}
	}
	return nil
}

func fillSheet(f *excelize.File, grid *entity.Grid) error {
	cells := grid.Cells()
	for _, name := range grid.CellNames() {
		if err := f.SetCellStr(SheetName, name, cells[name]); err != nil {
			return err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last := entity.CellName(entity.Columns[len(entity.Columns)-1], entity.HeaderRow)
	return f.SetCellStyle(SheetName, entity.CellName(entity.ColumnA, entity.HeaderRow), last, bold)
}
