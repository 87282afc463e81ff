package repository

import (
	"io"

	"github.com/diillson/arch-schedule-go/internal/domain/entity"
)

// ExportRepository grava o grid do relatório em arquivos. Os métodos ExportTo*
// geram um nome com timestamp dentro de outputDir e devolvem o caminho absoluto.
type ExportRepository interface {
	ExportToCSV(grid *entity.Grid, filename, outputDir string, delimiter rune) (string, error)
	ExportToTSV(grid *entity.Grid, filename, outputDir string) (string, error)
	ExportToMarkdown(grid *entity.Grid, filename, outputDir string) (string, error)
	ExportToJSON(grid *entity.Grid, filename, outputDir string) (string, error)
	ExportToPDF(grid *entity.Grid, title, filename, outputDir string) (string, error)
	ExportToXLSX(grid *entity.Grid, filename, outputDir string) (string, error)

	// Export writes to an exact path, choosing the format from its extension.
	Export(grid *entity.Grid, path string) error

	// WriteTo streams the grid in one of the export formats ("csv", "md", ...).
	WriteTo(w io.Writer, grid *entity.Grid, format string) error

	// SyncSpreadsheet rewrites the report sheet of an existing (or new) workbook
	// in place, keeping its column widths.
	SyncSpreadsheet(grid *entity.Grid, path string) error
}
