package schedule

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"github.com/diillson/arch-schedule-go/internal/domain/entity"
	"github.com/diillson/arch-schedule-go/internal/domain/repository"
)

// rowDef é uma linha do schedule no formato de arquivo; Objects continua
// sendo a lista de nomes separada por ";".
type rowDef struct {
	Operation string `json:"operation" yaml:"operation" toml:"operation"`
	Value     string `json:"value" yaml:"value" toml:"value"`
	Unit      string `json:"unit,omitempty" yaml:"unit,omitempty" toml:"unit,omitempty"`
	Objects   string `json:"objects,omitempty" yaml:"objects,omitempty" toml:"objects,omitempty"`
	Filter    string `json:"filter,omitempty" yaml:"filter,omitempty" toml:"filter,omitempty"`
}

// scheduleFile aceita tanto a forma em linhas (rows) quanto as cinco colunas
// paralelas guardadas pelo objeto Schedule.
type scheduleFile struct {
	Label             string   `json:"label" yaml:"label" toml:"label"`
	DetailedResults   bool     `json:"detailed_results" yaml:"detailed_results" toml:"detailed_results"`
	CreateSpreadsheet bool     `json:"create_spreadsheet" yaml:"create_spreadsheet" toml:"create_spreadsheet"`
	AutoUpdate        bool     `json:"auto_update" yaml:"auto_update" toml:"auto_update"`
	Rows              []rowDef `json:"rows,omitempty" yaml:"rows,omitempty" toml:"rows,omitempty"`

	Operation []string `json:"operation,omitempty" yaml:"operation,omitempty" toml:"operation,omitempty"`
	Value     []string `json:"value,omitempty" yaml:"value,omitempty" toml:"value,omitempty"`
	Unit      []string `json:"unit,omitempty" yaml:"unit,omitempty" toml:"unit,omitempty"`
	Objects   []string `json:"objects,omitempty" yaml:"objects,omitempty" toml:"objects,omitempty"`
	Filter    []string `json:"filter,omitempty" yaml:"filter,omitempty" toml:"filter,omitempty"`
}

// ScheduleRepositoryImpl implementa o ScheduleRepository.
type ScheduleRepositoryImpl struct{}

// NewScheduleRepository cria uma nova implementação do ScheduleRepository.
func NewScheduleRepository() repository.ScheduleRepository {
	return &ScheduleRepositoryImpl{}
}

// LoadSchedule lê uma definição YAML, TOML, JSON ou CSV. Colunas com tamanhos
// diferentes não são rejeitadas aqui: o gerador devolve ErrMalformedInput.
func (r *ScheduleRepositoryImpl) LoadSchedule(path string) (*entity.Schedule, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".csv" {
		return r.ImportCSV(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading schedule file: %w", err)
	}

	var sf scheduleFile
	switch ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &sf)
	case ".toml":
		err = toml.Unmarshal(data, &sf)
	case ".json":
		err = json.Unmarshal(data, &sf)
	default:
		return nil, fmt.Errorf("unsupported schedule file format: %s", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("error parsing schedule file %s: %w", path, err)
	}

	s := &entity.Schedule{
		Label:             sf.Label,
		DetailedResults:   sf.DetailedResults,
		CreateSpreadsheet: sf.CreateSpreadsheet,
		AutoUpdate:        sf.AutoUpdate,
		Operation:         sf.Operation,
		Value:             sf.Value,
		Unit:              sf.Unit,
		Objects:           sf.Objects,
		Filter:            sf.Filter,
	}
	for _, row := range sf.Rows {
		s.AppendRow(entity.OperationRow{
			Name:    row.Operation,
			Value:   row.Value,
			Unit:    row.Unit,
			Objects: entity.SplitObjects(row.Objects),
			Filter:  row.Filter,
		})
	}
	if s.Label == "" {
		s.Label = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// ImportCSV lê as cinco colunas (descrição, valor, unidade, objetos, filtro)
// de cada linha do CSV. Linhas curtas são completadas com vazio e células
// além da quinta são ignoradas.
func (r *ScheduleRepositoryImpl) ImportCSV(path string) (*entity.Schedule, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	s := &entity.Schedule{Label: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV file %s: %w", path, err)
		}
		var cells [5]string
		copy(cells[:], record)
		s.Operation = append(s.Operation, cells[0])
		s.Value = append(s.Value, cells[1])
		s.Unit = append(s.Unit, cells[2])
		s.Objects = append(s.Objects, cells[3])
		s.Filter = append(s.Filter, cells[4])
	}
	return s, nil
}

// SaveSchedule grava a definição em linhas, no formato indicado pela extensão.
func (r *ScheduleRepositoryImpl) SaveSchedule(s *entity.Schedule, path string) error {
	rows, err := s.Rows()
	if err != nil {
		return fmt.Errorf("schedule %q: %w", s.Label, err)
	}

	sf := scheduleFile{
		Label:             s.Label,
		DetailedResults:   s.DetailedResults,
		CreateSpreadsheet: s.CreateSpreadsheet,
		AutoUpdate:        s.AutoUpdate,
	}
	for _, row := range rows {
		sf.Rows = append(sf.Rows, rowDef{
			Operation: row.Name,
			Value:     row.Value,
			Unit:      row.Unit,
			Objects:   strings.Join(row.Objects, ";"),
			Filter:    row.Filter,
		})
	}

	var data []byte
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(sf)
	case ".toml":
		data, err = toml.Marshal(sf)
	case ".json":
		data, err = json.MarshalIndent(sf, "", "  ")
	default:
		return fmt.Errorf("unsupported schedule file format: %s", ext)
	}
	if err != nil {
		return fmt.Errorf("error encoding schedule: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating schedule directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
