package domain

// Default sheet identity
const (
	DefaultSheetID   = "data"
	DefaultSheetName = "Daten"
)

// ExportSheet is a named subset of fields written to one worksheet
type ExportSheet struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	FieldNames []string `json:"fieldNames"`
	Locked     bool     `json:"locked"`
}

// NewDefaultSheet returns the locked sheet every session starts with
func NewDefaultSheet() ExportSheet {
	return ExportSheet{
		ID:         DefaultSheetID,
		Name:       DefaultSheetName,
		FieldNames: []string{},
		Locked:     true,
	}
}

// HasField reports whether name is a member of the sheet
func (s ExportSheet) HasField(name string) bool {
	for _, n := range s.FieldNames {
		if n == name {
			return true
		}
	}
	return false
}
