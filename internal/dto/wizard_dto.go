package dto

import (
	"strings"

	"synthdata-wizard-api/internal/catalog"
	"synthdata-wizard-api/internal/domain"
	"synthdata-wizard-api/internal/wizard"
)

// CreateSessionRequest represents the request to open a wizard session
// @Description profileId is optional; without it the session is not persisted
type CreateSessionRequest struct {
	ProfileID string `json:"profileId" example:"7d0f9a52-2f55-4ae4-9a3b-3b1c8f1e0a11"`
}

// MoveFieldRequest represents the request to move a field to a new position
type MoveFieldRequest struct {
	Index *int `json:"index" binding:"required" example:"0"`
}

// EnterModeRequest represents the request to lock a field to a distribution mode
type EnterModeRequest struct {
	Mode domain.DistributionMode `json:"mode" binding:"required" example:"standard"`
}

// ModeResponse represents the lock state of a field
type ModeResponse struct {
	FieldID      string                           `json:"fieldId"`
	Mode         domain.DistributionMode          `json:"mode"`
	Availability map[domain.DistributionMode]bool `json:"availability"`
}

// SaveDistributionRequest represents a standard, upload or custom distribution save
type SaveDistributionRequest struct {
	Mode   domain.DistributionMode   `json:"mode" binding:"required" example:"standard"`
	Config domain.DistributionConfig `json:"config"`
}

// ValueListRequest represents a value-list save. Lines may be sent as a
// list or as newline separated text.
type ValueListRequest struct {
	ValueSource domain.ValueSource `json:"valueSource" binding:"required" example:"custom"`
	Values      []string           `json:"values,omitempty"`
	Text        string             `json:"text,omitempty"`
}

// Lines returns the submitted lines
func (r ValueListRequest) Lines() []string {
	if len(r.Values) > 0 {
		return r.Values
	}
	if r.Text == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(r.Text, "\r\n", "\n"), "\n")
}

// UseCaseValuesRequest represents setting a type together with its values
type UseCaseValuesRequest struct {
	Type   string   `json:"type" binding:"required" example:"currency"`
	Values []string `json:"values"`
}

// ValuesResponse represents the effective values of a field
type ValuesResponse struct {
	FieldID string   `json:"fieldId"`
	Values  []string `json:"values"`
}

// CurveRequest represents hand-drawn curve points
type CurveRequest struct {
	Points []float64 `json:"points" binding:"required"`
}

// SheetFieldRequest represents a sheet membership toggle
type SheetFieldRequest struct {
	FieldName string `json:"fieldName" binding:"required" example:"alter"`
}

// RenameSheetRequest represents a sheet rename
type RenameSheetRequest struct {
	Name string `json:"name" binding:"required" example:"Personen"`
}

// MoveFieldResponse represents the reordered field list
type MoveFieldResponse struct {
	Fields []wizard.FieldView `json:"fields"`
}

// CreateProfileRequest represents the request to create a profile
type CreateProfileRequest struct {
	Name string `json:"name" binding:"required" example:"Kundenstamm"`
}

// TypeInfoResponse represents the registry entry of a field type
type TypeInfoResponse struct {
	Type                 string   `json:"type"`
	Label                string   `json:"label"`
	Tooltip              string   `json:"tooltip"`
	AllowedDistributions []string `json:"allowedDistributions"`
	DefaultValues        []string `json:"defaultValues"`
	UseCaseID            string   `json:"useCaseId,omitempty"`
	Known                bool     `json:"known"`
}

// NameSourcesResponse represents the name generator sources
type NameSourcesResponse struct {
	Regions   []catalog.NameRegion `json:"regions"`
	Countries []string             `json:"countries"`
}
