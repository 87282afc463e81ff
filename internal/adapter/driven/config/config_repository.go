package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"github.com/diillson/arch-schedule-go/internal/domain/repository"
	"github.com/diillson/arch-schedule-go/internal/shared/types"
)

// ReportTypes são os formatos aceitos em report_type.
var ReportTypes = map[string]bool{
	"csv":  true,
	"tsv":  true,
	"md":   true,
	"json": true,
	"pdf":  true,
	"xlsx": true,
}

// ConfigRepositoryImpl implementa o ConfigRepository.
type ConfigRepositoryImpl struct{}

// NewConfigRepository cria uma nova implementação do ConfigRepository.
func NewConfigRepository() repository.ConfigRepository {
	return &ConfigRepositoryImpl{}
}

// LoadConfigFile carrega um arquivo de configuração TOML, YAML ou JSON.
// Caminhos relativos (model, schedule, dir, spreadsheet, pset_db) são
// resolvidos a partir do diretório do próprio arquivo.
func (r *ConfigRepositoryImpl) LoadConfigFile(filePath string) (*types.Config, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error accessing config file: %w", err)
	}
	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", filePath)
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := types.Config{Decimals: -1}

	switch ext := strings.ToLower(filepath.Ext(filePath)); ext {
	case ".toml":
		if err := toml.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing TOML file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing YAML file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing JSON file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", ext)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", filePath, err)
	}

	base := filepath.Dir(filePath)
	for _, p := range []*string{&config.Model, &config.Schedule, &config.Dir, &config.Spreadsheet, &config.PsetDB} {
		*p = resolvePath(base, *p)
	}

	return &config, nil
}

func validate(c *types.Config) error {
	for i, t := range c.ReportType {
		t = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(t), "."))
		if !ReportTypes[t] {
			return fmt.Errorf("%w: report_type %q", types.ErrUnrecognizedExportFormat, t)
		}
		c.ReportType[i] = t
	}
	if c.Delimiter != "" && utf8.RuneCountInString(c.Delimiter) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", c.Delimiter)
	}
	for _, w := range c.ColumnWidths {
		if w <= 0 {
			return fmt.Errorf("column_widths must be positive, got %v", w)
		}
	}
	return nil
}

func resolvePath(base, p string) string {
	if p == "" {
		return p
	}
	p = os.ExpandEnv(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
