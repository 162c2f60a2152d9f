package catalog

import (
	"sort"

	"github.com/hashicorp/go-set/v2"
	"github.com/tiendc/go-deepcopy"
)

// Use case identifiers
const (
	UseCaseGeneral    = "general"
	UseCaseGesundheit = "gesundheit"
	UseCaseFinanzen   = "finanzen"
	UseCaseLogistik   = "logistik"
)

// FieldDef describes one field type of the registry
type FieldDef struct {
	Value          string   `json:"value"`
	Label          string   `json:"label"`
	Tooltip        string   `json:"tooltip,omitempty"`
	EditableValues bool     `json:"editableValues,omitempty"`
	DefaultValues  []string `json:"defaultValues,omitempty"`
	Distributions  []string `json:"distributions"`
}

// FieldGroup is a labelled group of field types inside a use case
type FieldGroup struct {
	GroupLabel string     `json:"groupLabel"`
	Fields     []FieldDef `json:"fields"`
}

// UseCase is a domain bundle of field types
type UseCase struct {
	ID          string       `json:"id"`
	Label       string       `json:"label"`
	Description string       `json:"description"`
	Icon        string       `json:"icon"`
	Fields      []FieldDef   `json:"fields,omitempty"`
	FieldGroups []FieldGroup `json:"fieldGroups,omitempty"`
}

// entry is a resolved registry lookup
type entry struct {
	def       *FieldDef
	useCaseID string
}

// index holds the first owner of every type, built once at init
var index = map[string]entry{}

func init() {
	for ui := range useCases {
		uc := &useCases[ui]
		for fi := range uc.Fields {
			register(&uc.Fields[fi], uc.ID)
		}
		for gi := range uc.FieldGroups {
			g := &uc.FieldGroups[gi]
			for fi := range g.Fields {
				register(&g.Fields[fi], uc.ID)
			}
		}
	}
}

func register(def *FieldDef, useCaseID string) {
	def.Distributions = typeDistributions[def.Value]
	if def.Distributions == nil {
		def.Distributions = []string{}
	}
	if _, exists := index[def.Value]; exists {
		return
	}
	index[def.Value] = entry{def: def, useCaseID: useCaseID}
}

// Lookup returns a copy of the definition for a field type
func Lookup(fieldType string) (FieldDef, bool) {
	e, ok := index[fieldType]
	if !ok {
		return FieldDef{}, false
	}
	var out FieldDef
	if err := deepcopy.Copy(&out, e.def); err != nil {
		return FieldDef{}, false
	}
	return out, true
}

// LabelOf returns the display label of a type, falling back to the type itself
func LabelOf(fieldType string) string {
	if e, ok := index[fieldType]; ok && e.def.Label != "" {
		return e.def.Label
	}
	return fieldType
}

// TooltipOf returns the tooltip of a type or an empty string
func TooltipOf(fieldType string) string {
	if e, ok := index[fieldType]; ok {
		return e.def.Tooltip
	}
	return ""
}

// AllowedDistributionsOf returns the distribution kinds legal for a type
func AllowedDistributionsOf(fieldType string) []string {
	kinds := typeDistributions[fieldType]
	out := make([]string, len(kinds))
	copy(out, kinds)
	return out
}

// DefaultValuesOf returns a copy of the default value list of a type
func DefaultValuesOf(fieldType string) []string {
	e, ok := index[fieldType]
	if !ok || len(e.def.DefaultValues) == 0 {
		return []string{}
	}
	out := make([]string, len(e.def.DefaultValues))
	copy(out, e.def.DefaultValues)
	return out
}

// HasEditableValues reports whether a type owns a user-editable value list
func HasEditableValues(fieldType string) bool {
	e, ok := index[fieldType]
	return ok && e.def.EditableValues
}

// UseCaseOf returns the first use case that claims a type
func UseCaseOf(fieldType string) (string, bool) {
	e, ok := index[fieldType]
	if !ok {
		return "", false
	}
	return e.useCaseID, true
}

// InferUsedUseCases maps field types to the set of use cases they need.
// Types claimed by no use case are ignored. The result is sorted.
func InferUsedUseCases(fieldTypes []string) []string {
	used := set.New[string](len(fieldTypes))
	for _, t := range fieldTypes {
		if id, ok := UseCaseOf(t); ok {
			used.Insert(id)
		}
	}
	ids := used.Slice()
	sort.Strings(ids)
	return ids
}

// UseCases returns a deep copy of the whole registry
func UseCases() []UseCase {
	var out []UseCase
	if err := deepcopy.Copy(&out, &useCases); err != nil {
		return []UseCase{}
	}
	return out
}

// UseCaseByID returns a deep copy of a single use case
func UseCaseByID(id string) (UseCase, bool) {
	for i := range useCases {
		if useCases[i].ID != id {
			continue
		}
		var out UseCase
		if err := deepcopy.Copy(&out, &useCases[i]); err != nil {
			return UseCase{}, false
		}
		return out, true
	}
	return UseCase{}, false
}
