package types

// Config represents the application configuration that can be loaded from a file.
type Config struct {
	Model        string    `json:"model" yaml:"model" toml:"model"`
	Schedule     string    `json:"schedule" yaml:"schedule" toml:"schedule"`
	Decimals     int       `json:"decimals" yaml:"decimals" toml:"decimals"`
	Detailed     bool      `json:"detailed" yaml:"detailed" toml:"detailed"`
	Verbose      bool      `json:"verbose" yaml:"verbose" toml:"verbose"`
	ReportName   string    `json:"report_name" yaml:"report_name" toml:"report_name"`
	ReportType   []string  `json:"report_type" yaml:"report_type" toml:"report_type"`
	Dir          string    `json:"dir" yaml:"dir" toml:"dir"`
	Delimiter    string    `json:"delimiter" yaml:"delimiter" toml:"delimiter"`
	Spreadsheet  string    `json:"spreadsheet" yaml:"spreadsheet" toml:"spreadsheet"`
	ColumnWidths []float64 `json:"column_widths" yaml:"column_widths" toml:"column_widths"`
	S3Bucket     string    `json:"s3_bucket" yaml:"s3_bucket" toml:"s3_bucket"`
	S3Prefix     string    `json:"s3_prefix" yaml:"s3_prefix" toml:"s3_prefix"`
	AWSProfile   string    `json:"aws_profile" yaml:"aws_profile" toml:"aws_profile"`
	PsetDB       string    `json:"pset_db" yaml:"pset_db" toml:"pset_db"`
	Listen       string    `json:"listen" yaml:"listen" toml:"listen"`
}

// DefaultDecimals é a precisão usada quando nada é configurado.
const DefaultDecimals = 2
