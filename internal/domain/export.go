package domain

import "strings"

// Export formats
const (
	FormatCSV   = "CSV"
	FormatExcel = "Excel"
	FormatJSON  = "JSON"
	FormatXLSX  = "XLSX"
)

// Line endings
const (
	LineEndingCRLF = "Windows(CRLF)"
	LineEndingLF   = "Unix(LF)"
)

// Export option defaults
const (
	DefaultRowCount   = 10
	DefaultFormat     = FormatCSV
	DefaultLineEnding = LineEndingCRLF
)

// KnownFormats lists the formats offered to users
var KnownFormats = []string{FormatCSV, FormatExcel, FormatJSON, FormatXLSX}

// KnownLineEndings lists the line endings offered to users
var KnownLineEndings = []string{LineEndingCRLF, LineEndingLF}

// ExportOptions are the dataset-wide export settings
type ExportOptions struct {
	RowCount   int    `json:"rowCount"`
	Format     string `json:"format"`
	LineEnding string `json:"lineEnding"`
}

// DefaultExportOptions returns the options of a fresh session
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		RowCount:   DefaultRowCount,
		Format:     DefaultFormat,
		LineEnding: DefaultLineEnding,
	}
}

// ExportOptionsPatch is a partial update of ExportOptions
type ExportOptionsPatch struct {
	RowCount   *int    `json:"rowCount,omitempty"`
	Format     *string `json:"format,omitempty"`
	LineEnding *string `json:"lineEnding,omitempty"`
}

// Apply merges the patch into o. rowCount is clamped to be non-negative.
func (p ExportOptionsPatch) Apply(o *ExportOptions) {
	if p.RowCount != nil {
		o.RowCount = *p.RowCount
		if o.RowCount < 0 {
			o.RowCount = 0
		}
	}
	if p.Format != nil {
		o.Format = *p.Format
	}
	if p.LineEnding != nil {
		o.LineEnding = *p.LineEnding
	}
}

// IsSpreadsheetFormat reports whether format carries multiple sheets
func IsSpreadsheetFormat(format string) bool {
	return strings.ToUpper(format) == FormatXLSX
}

// ExportSpec is the compiled request sent to the generator
type ExportSpec struct {
	Rows           []FieldSpec   `json:"rows"`
	RowCount       int           `json:"rowCount"`
	Format         string        `json:"format"`
	LineEnding     string        `json:"lineEnding"`
	UsedUseCaseIDs []string      `json:"usedUseCaseIds"`
	Sheets         []ExportSheet `json:"sheets,omitempty"`
}

// ExportResult is the generator's binary answer
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
	ArchiveKey  string
	DownloadURL string
}
