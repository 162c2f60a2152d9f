package domain

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// DistributionMode is the method currently used to define a field's distribution
type DistributionMode string

// DistributionMode constants
const (
	ModeNone       DistributionMode = "none"
	ModeStandard   DistributionMode = "standard"
	ModeUpload     DistributionMode = "upload"
	ModeCustom     DistributionMode = "custom"
	ModeDependency DistributionMode = "dependency"
)

// LockingModes are the modes that lock a field
var LockingModes = []DistributionMode{ModeStandard, ModeUpload, ModeCustom, ModeDependency}

// Valid reports whether m is a known mode
func (m DistributionMode) Valid() bool {
	switch m {
	case ModeNone, ModeStandard, ModeUpload, ModeCustom, ModeDependency:
		return true
	}
	return false
}

// ValueSource selects between a type's default value list and a custom one
type ValueSource string

// ValueSource constants
const (
	ValueSourceDefault ValueSource = "default"
	ValueSourceCustom  ValueSource = "custom"
)

// Valid reports whether s is a known value source
func (s ValueSource) Valid() bool {
	return s == ValueSourceDefault || s == ValueSourceCustom
}

// Dependency is the ordered list of field names a field depends on.
// On the wire it is a single comma-joined string.
type Dependency []string

// ParseDependency splits a comma-joined dependency string
func ParseDependency(raw string) Dependency {
	dep := Dependency{}
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			dep = append(dep, name)
		}
	}
	return dep
}

// Primary returns the first dependency name or ""
func (d Dependency) Primary() string {
	if len(d) == 0 {
		return ""
	}
	return d[0]
}

// IsEmpty reports whether no dependency is set
func (d Dependency) IsEmpty() bool {
	return len(d) == 0
}

func (d Dependency) String() string {
	return strings.Join(d, ",")
}

// MarshalJSON encodes the list as a comma-joined string
func (d Dependency) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts a comma-joined string, a string array or null
func (d *Dependency) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Dependency{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		*d = ParseDependency(raw)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("dependency must be a string or a list of strings: %w", err)
	}
	*d = ParseDependency(strings.Join(list, ","))
	return nil
}

// DistributionConfig is the distribution definition of a field.
// Parameters are opaque strings validated by the generator backend.
type DistributionConfig struct {
	Distribution string   `json:"distribution"`
	ParameterA   string   `json:"parameterA"`
	ParameterB   string   `json:"parameterB"`
	ExtraParams  []string `json:"extraParams"`
	Dependency   string   `json:"dependency,omitempty"`
	NameSource   string   `json:"name_source,omitempty"`
	Country      string   `json:"country,omitempty"`
}

// MarshalJSON always emits extraParams as a list
func (c DistributionConfig) MarshalJSON() ([]byte, error) {
	type alias DistributionConfig
	out := alias(c)
	if out.ExtraParams == nil {
		out.ExtraParams = []string{}
	}
	return json.Marshal(out)
}

// DistributionUpdate is a partial DistributionConfig; nil fields are absent
type DistributionUpdate struct {
	Distribution *string   `json:"distribution,omitempty"`
	ParameterA   *string   `json:"parameterA,omitempty"`
	ParameterB   *string   `json:"parameterB,omitempty"`
	ExtraParams  *[]string `json:"extraParams,omitempty"`
	Dependency   *string   `json:"dependency,omitempty"`
	NameSource   *string   `json:"name_source,omitempty"`
	Country      *string   `json:"country,omitempty"`
}

// Merge returns c with every key present in u overwritten
func (c DistributionConfig) Merge(u DistributionUpdate) DistributionConfig {
	out := c
	out.ExtraParams = append([]string{}, c.ExtraParams...)
	if u.Distribution != nil {
		out.Distribution = *u.Distribution
	}
	if u.ParameterA != nil {
		out.ParameterA = *u.ParameterA
	}
	if u.ParameterB != nil {
		out.ParameterB = *u.ParameterB
	}
	if u.ExtraParams != nil {
		out.ExtraParams = append([]string{}, (*u.ExtraParams)...)
	}
	if u.Dependency != nil {
		out.Dependency = *u.Dependency
	}
	if u.NameSource != nil {
		out.NameSource = *u.NameSource
	}
	if u.Country != nil {
		out.Country = *u.Country
	}
	return out
}

// FieldSpec is one row of the wizard
type FieldSpec struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	Type               string             `json:"type"`
	Dependency         Dependency         `json:"dependency"`
	DistributionConfig DistributionConfig `json:"distributionConfig"`
	ValueSource        ValueSource        `json:"valueSource"`
	CustomValues       []string           `json:"customValues"`
}

// NewFieldSpec returns an empty row with the given id
func NewFieldSpec(id string) FieldSpec {
	return FieldSpec{
		ID:         id,
		Dependency: Dependency{},
		DistributionConfig: DistributionConfig{
			ExtraParams: []string{},
		},
		ValueSource:  ValueSourceDefault,
		CustomValues: []string{},
	}
}

// Normalize fills in defaults for rows loaded from older payloads
func (f *FieldSpec) Normalize() {
	if f.Dependency == nil {
		f.Dependency = Dependency{}
	}
	if f.DistributionConfig.ExtraParams == nil {
		f.DistributionConfig.ExtraParams = []string{}
	}
	if !f.ValueSource.Valid() {
		f.ValueSource = ValueSourceDefault
	}
	if f.CustomValues == nil {
		f.CustomValues = []string{}
	}
}

// FieldPatch is a partial update of a FieldSpec
type FieldPatch struct {
	Name               *string             `json:"name,omitempty"`
	Type               *string             `json:"type,omitempty"`
	Dependency         *Dependency         `json:"dependency,omitempty"`
	DistributionConfig *DistributionConfig `json:"distributionConfig,omitempty"`
	ValueSource        *ValueSource        `json:"valueSource,omitempty"`
	CustomValues       *[]string           `json:"customValues,omitempty"`
	DistributionMode   *DistributionMode   `json:"distributionMode,omitempty"`
}

// Apply merges the patch into f. DistributionMode is not part of the
// row and is left to the caller.
func (p FieldPatch) Apply(f *FieldSpec) {
	if p.Name != nil {
		f.Name = *p.Name
	}
	if p.Type != nil {
		f.Type = *p.Type
	}
	if p.Dependency != nil {
		f.Dependency = append(Dependency{}, (*p.Dependency)...)
	}
	if p.DistributionConfig != nil {
		cfg := *p.DistributionConfig
		cfg.ExtraParams = append([]string{}, cfg.ExtraParams...)
		f.DistributionConfig = cfg
	}
	if p.ValueSource != nil {
		f.ValueSource = *p.ValueSource
	}
	if p.CustomValues != nil {
		f.CustomValues = append([]string{}, (*p.CustomValues)...)
	}
}
