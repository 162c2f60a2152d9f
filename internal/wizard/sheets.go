package wizard

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/tiendc/go-deepcopy"

	"synthdata-wizard-api/internal/domain"
)

// SheetSet is the ordered list of export sheets. The first sheet is locked
// and can never be renamed, removed, or have its membership changed.
type SheetSet struct {
	sheets []*domain.ExportSheet
}

// NewSheetSet returns a set holding only the locked default sheet
func NewSheetSet() *SheetSet {
	def := domain.NewDefaultSheet()
	return &SheetSet{sheets: []*domain.ExportSheet{&def}}
}

// AddSheet appends an empty unlocked sheet
func (s *SheetSet) AddSheet() domain.ExportSheet {
	sheet := &domain.ExportSheet{
		ID:         "sheet-" + uuid.New().String(),
		Name:       fmt.Sprintf("Sheet %d", len(s.sheets)+1),
		FieldNames: []string{},
	}
	s.sheets = append(s.sheets, sheet)
	return cloneSheet(*sheet)
}

// RemoveSheet deletes an unlocked sheet
func (s *SheetSet) RemoveSheet(id string) bool {
	idx := s.mutableIndex(id)
	if idx < 0 {
		return false
	}
	s.sheets = append(s.sheets[:idx], s.sheets[idx+1:]...)
	return true
}

// Rename changes the name of an unlocked sheet
func (s *SheetSet) Rename(id, name string) bool {
	idx := s.mutableIndex(id)
	if idx < 0 {
		return false
	}
	s.sheets[idx].Name = name
	return true
}

// ToggleField adds or removes fieldName from an unlocked sheet
func (s *SheetSet) ToggleField(id, fieldName string) bool {
	idx := s.mutableIndex(id)
	if idx < 0 {
		return false
	}
	sheet := s.sheets[idx]
	for i, n := range sheet.FieldNames {
		if n == fieldName {
			sheet.FieldNames = append(sheet.FieldNames[:i], sheet.FieldNames[i+1:]...)
			return true
		}
	}
	sheet.FieldNames = append(sheet.FieldNames, fieldName)
	return true
}

// SelectAll sets the membership of an unlocked sheet to names
func (s *SheetSet) SelectAll(id string, names []string) bool {
	idx := s.mutableIndex(id)
	if idx < 0 {
		return false
	}
	s.sheets[idx].FieldNames = append([]string{}, names...)
	return true
}

// SelectNone clears the membership of an unlocked sheet
func (s *SheetSet) SelectNone(id string) bool {
	idx := s.mutableIndex(id)
	if idx < 0 {
		return false
	}
	s.sheets[idx].FieldNames = []string{}
	return true
}

// Get returns a copy of the sheet
func (s *SheetSet) Get(id string) (domain.ExportSheet, bool) {
	for _, sheet := range s.sheets {
		if sheet.ID == id {
			return cloneSheet(*sheet), true
		}
	}
	return domain.ExportSheet{}, false
}

// Sheets returns a deep copy of all sheets in order
func (s *SheetSet) Sheets() []domain.ExportSheet {
	src := make([]domain.ExportSheet, len(s.sheets))
	for i, sheet := range s.sheets {
		src[i] = *sheet
	}
	var out []domain.ExportSheet
	if err := deepcopy.Copy(&out, &src); err != nil {
		out = make([]domain.ExportSheet, len(src))
		for i, sheet := range src {
			out[i] = cloneSheet(sheet)
		}
	}
	return out
}

// Len returns the number of sheets
func (s *SheetSet) Len() int {
	return len(s.sheets)
}

// mutableIndex returns the index of an unlocked sheet or -1
func (s *SheetSet) mutableIndex(id string) int {
	for i, sheet := range s.sheets {
		if sheet.ID == id {
			if sheet.Locked {
				return -1
			}
			return i
		}
	}
	return -1
}

func cloneSheet(sheet domain.ExportSheet) domain.ExportSheet {
	out := sheet
	out.FieldNames = append([]string{}, sheet.FieldNames...)
	return out
}
