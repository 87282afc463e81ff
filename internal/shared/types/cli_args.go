package types

// CLIArgs represents the command-line arguments.
type CLIArgs struct {
	ConfigFile  string
	Model       string
	Schedule    string
	Decimals    *int
	Detailed    bool
	Verbose     bool
	ReportName  string
	ReportType  []string
	Dir         string
	Delimiter   string
	Spreadsheet string
	S3Bucket    string
	S3Prefix    string
	AWSProfile  string
	PsetDB      string
	Listen      string
	Quiet       bool

	// ColumnWidths vem apenas do arquivo de configuração.
	ColumnWidths []float64
}

// DecimalsOrDefault returns the configured precision, falling back to DefaultDecimals.
func (a *CLIArgs) DecimalsOrDefault() int {
	if a.Decimals == nil || *a.Decimals < 0 {
		return DefaultDecimals
	}
	return *a.Decimals
}
