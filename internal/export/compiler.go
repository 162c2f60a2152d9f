package export

import (
	"strings"
	"time"

	"github.com/tiendc/go-deepcopy"

	"synthdata-wizard-api/internal/catalog"
	"synthdata-wizard-api/internal/domain"
)

const (
	filenamePrefix = "synthdata_"
	timestampFmt   = "2006-01-02T15:04:05"
)

// Compile assembles the generator request from a snapshot of the session.
// Rows keep their order; sheets are included only for spreadsheet formats.
func Compile(fields []domain.FieldSpec, opts domain.ExportOptions, sheets []domain.ExportSheet) (*domain.ExportSpec, error) {
	rows := []domain.FieldSpec{}
	if err := deepcopy.Copy(&rows, &fields); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []domain.FieldSpec{}
	}

	types := make([]string, len(rows))
	for i := range rows {
		rows[i].Normalize()
		types[i] = rows[i].Type
	}

	spec := &domain.ExportSpec{
		Rows:           rows,
		RowCount:       opts.RowCount,
		Format:         opts.Format,
		LineEnding:     opts.LineEnding,
		UsedUseCaseIDs: catalog.InferUsedUseCases(types),
	}
	if domain.IsSpreadsheetFormat(opts.Format) {
		var copied []domain.ExportSheet
		if err := deepcopy.Copy(&copied, &sheets); err != nil {
			return nil, err
		}
		if copied == nil {
			copied = []domain.ExportSheet{}
		}
		spec.Sheets = copied
	}
	return spec, nil
}

// Filename returns the download name for an export made at the given time,
// e.g. synthdata_2024-01-02T03-04-05.xlsx
func Filename(at time.Time, format string) string {
	stamp := strings.ReplaceAll(at.UTC().Format(timestampFmt), ":", "-")
	name := filenamePrefix + stamp
	if ext := strings.ToLower(strings.TrimSpace(format)); ext != "" {
		name += "." + ext
	}
	return name
}

// ContentTypeFor returns a fallback content type when the generator sends none
func ContentTypeFor(format string) string {
	switch strings.ToUpper(format) {
	case domain.FormatCSV:
		return "text/csv"
	case domain.FormatJSON:
		return "application/json"
	case domain.FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case strings.ToUpper(domain.FormatExcel):
		return "application/vnd.ms-excel"
	}
	return "application/octet-stream"
}
