package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/diillson/arch-schedule-go/internal/domain/entity"
	"github.com/diillson/arch-schedule-go/internal/shared/types"
)

type mockModelRepo struct{ mock.Mock }

func (m *mockModelRepo) LoadModel(path string) (*entity.Document, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Document), args.Error(1)
}

type mockScheduleRepo struct{ mock.Mock }

func (m *mockScheduleRepo) LoadSchedule(path string) (*entity.Schedule, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Schedule), args.Error(1)
}

func (m *mockScheduleRepo) ImportCSV(path string) (*entity.Schedule, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Schedule), args.Error(1)
}

func (m *mockScheduleRepo) SaveSchedule(s *entity.Schedule, path string) error {
	return m.Called(s, path).Error(0)
}

type mockConfigRepo struct{ mock.Mock }

func (m *mockConfigRepo) LoadConfigFile(path string) (*types.Config, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Config), args.Error(1)
}

type mockExportRepo struct{ mock.Mock }

func (m *mockExportRepo) ExportToCSV(grid *entity.Grid, filename, outputDir string, delimiter rune) (string, error) {
	args := m.Called(grid, filename, outputDir, delimiter)
	return args.String(0), args.Error(1)
}

func (m *mockExportRepo) ExportToTSV(grid *entity.Grid, filename, outputDir string) (string, error) {
	args := m.Called(grid, filename, outputDir)
	return args.String(0), args.Error(1)
}

func (m *mockExportRepo) ExportToMarkdown(grid *entity.Grid, filename, outputDir string) (string, error) {
	args := m.Called(grid, filename, outputDir)
	return args.String(0), args.Error(1)
}

func (m *mockExportRepo) ExportToJSON(grid *entity.Grid, filename, outputDir string) (string, error) {
	args := m.Called(grid, filename, outputDir)
	return args.String(0), args.Error(1)
}

func (m *mockExportRepo) ExportToPDF(grid *entity.Grid, title, filename, outputDir string) (string, error) {
	args := m.Called(grid, title, filename, outputDir)
	return args.String(0), args.Error(1)
}

func (m *mockExportRepo) ExportToXLSX(grid *entity.Grid, filename, outputDir string) (string, error) {
	args := m.Called(grid, filename, outputDir)
	return args.String(0), args.Error(1)
}

func (m *mockExportRepo) Export(grid *entity.Grid, path string) error {
	return m.Called(grid, path).Error(0)
}

func (m *mockExportRepo) WriteTo(w io.Writer, grid *entity.Grid, format string) error {
	return m.Called(w, grid, format).Error(0)
}

func (m *mockExportRepo) SyncSpreadsheet(grid *entity.Grid, path string) error {
	return m.Called(grid, path).Error(0)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) Publish(ctx context.Context, localPath string) (string, error) {
	args := m.Called(ctx, localPath)
	return args.String(0), args.Error(1)
}

type mockPsetStore struct{ mock.Mock }

func (m *mockPsetStore) SaveSchedule(ctx context.Context, s *entity.Schedule) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockPsetStore) LoadSchedule(ctx context.Context, label string) (*entity.Schedule, error) {
	args := m.Called(ctx, label)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Schedule), args.Error(1)
}

func (m *mockPsetStore) ListSchedules(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockPsetStore) Close() error {
	return m.Called().Error(0)
}

type mockWatcher struct{ mock.Mock }

func (m *mockWatcher) Watch(ctx context.Context, paths []string, onChange func(changed string)) error {
	return m.Called(ctx, paths, onChange).Error(0)
}

// fakeConsole grava tudo o que seria mostrado.
type fakeConsole struct {
	mu       sync.Mutex
	lines    []string
	reports  [][][]string
	tables   []*fakeTable
	statuses []string
}

func (c *fakeConsole) add(level, format string, a ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, level+": "+fmt.Sprintf(format, a...))
}

func (c *fakeConsole) Print(a ...interface{}) { c.add("print", "%s", fmt.Sprint(a...)) }
func (c *fakeConsole) Printf(format string, a ...interface{}) { c.add("print", format, a...) }
func (c *fakeConsole) Println(a ...interface{}) { c.add("print", "%s", fmt.Sprint(a...)) }
func (c *fakeConsole) LogInfo(format string, a ...interface{}) { c.add("info", format, a...) }
func (c *fakeConsole) LogWarning(format string, a ...interface{}) { c.add("warning", format, a...) }
func (c *fakeConsole) LogError(format string, a ...interface{}) { c.add("error", format, a...) }
func (c *fakeConsole) LogSuccess(format string, a ...interface{}) { c.add("success", format, a...) }

func (c *fakeConsole) Status(message string) types.StatusHandle {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statuses = append(c.statuses, message)
	return fakeStatus{}
}

func (c *fakeConsole) CreateTable() types.TableInterface {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTable{}
	c.tables = append(c.tables, t)
	return t
}

func (c *fakeConsole) DisplayReport(title string, rows [][]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reports = append(c.reports, rows)
}

func (c *fakeConsole) has(level, substr string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, l := range c.lines {
		if strings.HasPrefix(l, level+": ") && strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

type fakeStatus struct{}

func (fakeStatus) Update(string) {}
func (fakeStatus) Stop() {}

type fakeTable struct {
	columns []string
	rows    [][]interface{}
}

func (t *fakeTable) AddColumn(name string, options ...interface{}) { t.columns = append(t.columns, name) }
func (t *fakeTable) AddRow(cells ...interface{}) { t.rows = append(t.rows, cells) }
func (t *fakeTable) Render() string { return strings.Join(t.columns, "|") }
