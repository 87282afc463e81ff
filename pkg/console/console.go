package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"

	"github.com/diillson/arch-schedule-go/internal/shared/types"
)

// Console escreve relatórios em out e mensagens (logs, spinners) em msgs,
// para que "arch-schedule > report.txt" capture só as tabelas.
type Console struct {
	out  io.Writer
	msgs io.Writer
}

// NewConsole cria um Console em stdout/stderr.
func NewConsole() *Console {
	return NewConsoleWithWriters(os.Stdout, os.Stderr)
}

// NewConsoleWithWriters cria um Console com destinos explícitos.
func NewConsoleWithWriters(out, msgs io.Writer) *Console {
	return &Console{out: out, msgs: msgs}
}

func (c *Console) Print(a ...interface{}) {
	fmt.Fprint(c.out, a...)
}

func (c *Console) Printf(format string, a ...interface{}) {
	fmt.Fprintf(c.out, format, a...)
}

func (c *Console) Println(a ...interface{}) {
	fmt.Fprintln(c.out, a...)
}

func (c *Console) LogInfo(format string, a ...interface{}) {
	c.log(pterm.Info, format, a...)
}

func (c *Console) LogWarning(format string, a ...interface{}) {
	c.log(pterm.Warning, format, a...)
}

func (c *Console) LogError(format string, a ...interface{}) {
	c.log(pterm.Error, format, a...)
}

func (c *Console) LogSuccess(format string, a ...interface{}) {
	c.log(pterm.Success, format, a...)
}

func (c *Console) log(p pterm.PrefixPrinter, format string, a ...interface{}) {
	fmt.Fprint(c.msgs, p.Sprintfln(format, a...))
}

// statusHandle é uma implementação do StatusHandle.
type statusHandle struct {
	spinner *pterm.SpinnerPrinter
}

// Status cria um spinner de status com a mensagem especificada.
func (c *Console) Status(message string) types.StatusHandle {
	spinner, _ := pterm.DefaultSpinner.WithWriter(c.msgs).WithRemoveWhenDone(true).Start(message)
	return &statusHandle{spinner: spinner}
}

// Update atualiza a mensagem de status.
func (h *statusHandle) Update(message string) {
	if h.spinner != nil {
		h.spinner.UpdateText(message)
	}
}

// Stop pára o spinner de status.
func (h *statusHandle) Stop() {
	if h.spinner != nil {
		h.spinner.Stop()
	}
}

// Table é uma implementação do TableInterface.
type Table struct {
	columns []string
	rows    [][]string
}

// CreateTable cria uma nova tabela.
func (c *Console) CreateTable() types.TableInterface {
	return &Table{
		columns: []string{},
		rows:    [][]string{},
	}
}

// AddColumn adiciona uma coluna à tabela.
func (t *Table) AddColumn(name string, options ...interface{}) {
	t.columns = append(t.columns, name)
}

// AddRow adiciona uma linha à tabela.
func (t *Table) AddRow(cells ...interface{}) {
	// Convertemos cada célula para string
	processedCells := make([]string, len(cells))
	for i, cell := range cells {
		processedCells[i] = fmt.Sprint(cell)
	}
	t.rows = append(t.rows, processedCells)
}

// Render renderiza a tabela como uma string.
func (t *Table) Render() string {
	// Use o pterm para criar uma tabela visualmente agradável
	tableData := pterm.TableData{t.columns}
	for _, row := range t.rows {
		tableData = append(tableData, row)
	}

	table := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(tableData)

	renderedTable, _ := table.Srender()
	return renderedTable
}

// DisplayReport mostra o grid do relatório numa caixa. A primeira linha é o
// cabeçalho; linhas TOTAL saem em negrito.
func (c *Console) DisplayReport(title string, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	tableData := pterm.TableData{rows[0]}
	for _, row := range rows[1:] {
		cells := make([]string, len(row))
		copy(cells, row)
		if len(cells) > 0 && strings.TrimSpace(cells[0]) == "TOTAL" {
			for i, cell := range cells {
				cells[i] = pterm.NewStyle(pterm.Bold).Sprint(cell)
			}
		}
		tableData = append(tableData, cells)
	}

	table := pterm.DefaultTable.
		WithHasHeader().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(tableData)
	renderedTable, _ := table.Srender()

	panel := pterm.DefaultBox.WithTitle(title).WithBoxStyle(pterm.NewStyle(pterm.FgCyan)).Sprint(renderedTable)
	fmt.Fprintln(c.out, "\n"+panel)
}
