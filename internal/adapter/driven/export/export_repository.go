package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/diillson/arch-schedule-go/internal/domain/entity"
	"github.com/diillson/arch-schedule-go/internal/domain/repository"
	"github.com/diillson/arch-schedule-go/internal/shared/types"
)

// Options ajusta a saída dos exportadores.
type Options struct {
	// Delimiter é usado por Export para arquivos .csv. Zero significa ','.
	Delimiter rune
	// ColumnWidths são as larguras das colunas A, B e C em planilhas novas e no PDF.
	ColumnWidths []float64
	// Title aparece no cabeçalho do PDF.
	Title string
}

var defaultColumnWidths = []float64{40, 15, 10}

// ExportRepositoryImpl implementa o ExportRepository.
type ExportRepositoryImpl struct {
	opts Options
}

// NewExportRepository cria uma nova implementação do ExportRepository.
func NewExportRepository(opts Options) repository.ExportRepository {
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	if len(opts.ColumnWidths) == 0 {
		opts.ColumnWidths = defaultColumnWidths
	}
	if opts.Title == "" {
		opts.Title = "Schedule"
	}
	return &ExportRepositoryImpl{opts: opts}
}

// --- Exportação com nome gerado ---

func (r *ExportRepositoryImpl) ExportToCSV(grid *entity.Grid, filename, outputDir string, delimiter rune) (string, error) {
	return r.exportTo(filename, outputDir, "csv", func(w io.Writer) error {
		return writeDelimited(w, grid, delimiter)
	})
}

func (r *ExportRepositoryImpl) ExportToTSV(grid *entity.Grid, filename, outputDir string) (string, error) {
	return r.exportTo(filename, outputDir, "tsv", func(w io.Writer) error {
		return writeDelimited(w, grid, '\t')
	})
}

func (r *ExportRepositoryImpl) ExportToMarkdown(grid *entity.Grid, filename, outputDir string) (string, error) {
	return r.exportTo(filename, outputDir, "md", func(w io.Writer) error {
		return writeMarkdown(w, grid)
	})
}

func (r *ExportRepositoryImpl) ExportToJSON(grid *entity.Grid, filename, outputDir string) (string, error) {
	return r.exportTo(filename, outputDir, "json", func(w io.Writer) error {
		return writeJSON(w, grid)
	})
}

func (r *ExportRepositoryImpl) ExportToPDF(grid *entity.Grid, title, filename, outputDir string) (string, error) {
	if title == "" {
		title = r.opts.Title
	}
	return r.exportTo(filename, outputDir, "pdf", func(w io.Writer) error {
		return writePDF(w, grid, title, r.opts.ColumnWidths)
	})
}

func (r *ExportRepositoryImpl) ExportToXLSX(grid *entity.Grid, filename, outputDir string) (string, error) {
	return r.exportTo(filename, outputDir, "xlsx", func(w io.Writer) error {
		return writeXLSX(w, grid, r.opts.ColumnWidths)
	})
}

func (r *ExportRepositoryImpl) exportTo(filename, outputDir, ext string, write func(io.Writer) error) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, ext)
	if err != nil {
		return "", err
	}
	if err := writeAtomic(outputFilename, write); err != nil {
		return "", fmt.Errorf("error writing %s file: %w", strings.ToUpper(ext), err)
	}
	return filepath.Abs(outputFilename)
}

// --- Exportação para um caminho exato ---

// Export escolhe o formato pela extensão de path. Extensões desconhecidas
// retornam ErrUnrecognizedExportFormat sem criar nenhum arquivo.
func (r *ExportRepositoryImpl) Export(grid *entity.Grid, path string) error {
	write, err := r.writerFor(grid, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating output directory '%s': %w", dir, err)
		}
	}
	if err := writeAtomic(path, write); err != nil {
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	return nil
}

// WriteTo grava o grid em w no formato informado (csv, tsv, md, json, pdf, xlsx).
func (r *ExportRepositoryImpl) WriteTo(w io.Writer, grid *entity.Grid, format string) error {
	write, err := r.writerFor(grid, format)
	if err != nil {
		return err
	}
	return write(w)
}

func (r *ExportRepositoryImpl) writerFor(grid *entity.Grid, format string) (func(io.Writer) error, error) {
	switch strings.ToLower(format) {
	case "csv":
		return func(w io.Writer) error { return writeDelimited(w, grid, r.opts.Delimiter) }, nil
	case "tsv":
		return func(w io.Writer) error { return writeDelimited(w, grid, '\t') }, nil
	case "md":
		return func(w io.Writer) error { return writeMarkdown(w, grid) }, nil
	case "json":
		return func(w io.Writer) error { return writeJSON(w, grid) }, nil
	case "pdf":
		return func(w io.Writer) error { return writePDF(w, grid, r.opts.Title, r.opts.ColumnWidths) }, nil
	case "xlsx":
		return func(w io.Writer) error { return writeXLSX(w, grid, r.opts.ColumnWidths) }, nil
	}
	return nil, fmt.Errorf("%w: %q", types.ErrUnrecognizedExportFormat, format)
}

// --- Formatos de texto ---

func writeDelimited(w io.Writer, grid *entity.Grid, delimiter rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = delimiter
	if err := writer.WriteAll(grid.Rows()); err != nil {
		return fmt.Errorf("error encoding delimited rows: %w", err)
	}
	return nil
}

var markdownEscaper = strings.NewReplacer("|", `\|`, "\n", " ")

func writeMarkdown(w io.Writer, grid *entity.Grid) error {
	var sb strings.Builder
	for i, row := range grid.Rows() {
		sb.WriteString("|")
		for _, cell := range row {
			sb.WriteString(" " + markdownEscaper.Replace(cell) + " |")
		}
		sb.WriteString("\n")
		if i == 0 {
			sb.WriteString("|" + strings.Repeat(" --- |", len(row)) + "\n")
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

type jsonRow struct {
	Row       int    `json:"row"`
	Operation string `json:"operation"`
	Value     string `json:"value"`
	Unit      string `json:"unit"`
}

type jsonReport struct {
	Headers []string  `json:"headers"`
	Rows    []jsonRow `json:"rows"`
}

func writeJSON(w io.Writer, grid *entity.Grid) error {
	report := jsonReport{Headers: entity.Headers, Rows: []jsonRow{}}
	for i, row := range grid.DataRows() {
		report.Rows = append(report.Rows, jsonRow{
			Row:       entity.HeaderRow + 1 + i,
			Operation: row[0],
			Value:     row[1],
			Unit:      row[2],
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("error encoding JSON data: %w", err)
	}
	return nil
}

// --- Funções Auxiliares ---

// generateFilename cria um nome de arquivo único com timestamp e garante que o diretório exista.
func generateFilename(base, dir, ext string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	if base == "" {
		base = "schedule"
	}
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.%s", base, timestamp, ext)
	return filepath.Join(dir, filename), nil
}

// reportFileMode é a permissão de relatórios novos. Um destino que já existe
// mantém a sua.
const reportFileMode os.FileMode = 0644

// writeAtomic grava num arquivo temporário ao lado do destino e renomeia no
// final; quem lê o destino nunca vê um relatório pela metade.
func writeAtomic(path string, write func(io.Writer) error) error {
	mode := reportFileMode
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
