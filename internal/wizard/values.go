package wizard

import (
	"context"
	"strings"

	"synthdata-wizard-api/internal/catalog"
	"synthdata-wizard-api/internal/domain"
	"synthdata-wizard-api/internal/response"
)

// SaveDistribution locks the field to mode and replaces its distribution
// config. A previous name source and country survive when cfg leaves them
// empty; a dependency carried by cfg becomes the field's dependency.
func (s *Session) SaveDistribution(ctx context.Context, id string, mode domain.DistributionMode, cfg domain.DistributionConfig) (FieldView, error) {
	switch mode {
	case domain.ModeStandard, domain.ModeUpload, domain.ModeCustom:
	default:
		return FieldView{}, response.NewValidationError("Unsupported distribution mode", string(mode))
	}

	s.mu.Lock()
	if _, ok := s.fields.Get(id); !ok {
		s.mu.Unlock()
		return FieldView{}, fieldNotFound(id)
	}
	if err := s.modeFor(id).Enter(ctx, mode); err != nil {
		s.mu.Unlock()
		return FieldView{}, err
	}
	s.fields.Update(id, func(r *domain.FieldSpec) {
		next := cfg
		next.ExtraParams = append([]string{}, cfg.ExtraParams...)
		if next.NameSource == "" {
			next.NameSource = r.DistributionConfig.NameSource
		}
		if next.Country == "" {
			next.Country = r.DistributionConfig.Country
		}
		r.DistributionConfig = next
		if dep := domain.ParseDependency(cfg.Dependency); !dep.IsEmpty() {
			r.Dependency = dep
		}
	})
	s.changed()
	view, _ := s.fieldView(id)
	s.mu.Unlock()

	s.emit(EventFieldUpdated, id, view)
	return view, nil
}

// ApplyDetection stores a column detection result in upload mode
func (s *Session) ApplyDetection(ctx context.Context, id string, detection domain.ColumnDetection) (FieldView, error) {
	if detection.BestDistribution == "" {
		return FieldView{}, response.NewValidationError("Detection returned no distribution", "")
	}
	return s.SaveDistribution(ctx, id, domain.ModeUpload, domain.FittedConfig(detection.BestDistribution, detection.Parameters))
}

// ApplyCurveFit stores a fitted hand-drawn curve in custom mode
func (s *Session) ApplyCurveFit(ctx context.Context, id string, fit domain.CurveFit) (FieldView, error) {
	if fit.BestDistribution == "" {
		return FieldView{}, response.NewValidationError("Curve fit returned no distribution", "")
	}
	return s.SaveDistribution(ctx, id, domain.ModeCustom, domain.FittedConfig(fit.BestDistribution, fit.Parameters))
}

// SaveValueList sets the value source of a field. A custom list keeps the
// trimmed non-empty lines; the default source clears the custom list.
func (s *Session) SaveValueList(id string, source domain.ValueSource, lines []string) (FieldView, error) {
	if !source.Valid() {
		return FieldView{}, response.NewValidationError("Unknown value source", string(source))
	}
	values := []string{}
	if source == domain.ValueSourceCustom {
		values = cleanLines(lines)
	}
	return s.update(id, func(r *domain.FieldSpec) {
		r.ValueSource = source
		r.CustomValues = values
	})
}

// EditValuesFromUseCase sets the field type together with its value list.
// The source is custom exactly when values are given.
func (s *Session) EditValuesFromUseCase(id, fieldType string, values []string) (FieldView, error) {
	cleaned := cleanLines(values)
	source := domain.ValueSourceDefault
	if len(cleaned) > 0 {
		source = domain.ValueSourceCustom
	}
	return s.update(id, func(r *domain.FieldSpec) {
		r.Type = fieldType
		r.ValueSource = source
		r.CustomValues = cleaned
	})
}

// EffectiveValues returns the custom values of a field when its source is
// custom, otherwise the registry defaults for its type
func (s *Session) EffectiveValues(id string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.fields.Get(id)
	if !ok {
		return nil, fieldNotFound(id)
	}
	return effectiveValues(row), nil
}

func effectiveValues(row domain.FieldSpec) []string {
	if row.ValueSource == domain.ValueSourceCustom {
		return append([]string{}, row.CustomValues...)
	}
	return catalog.DefaultValuesOf(row.Type)
}

func (s *Session) update(id string, fn func(r *domain.FieldSpec)) (FieldView, error) {
	s.mu.Lock()
	if !s.fields.Update(id, fn) {
		s.mu.Unlock()
		return FieldView{}, fieldNotFound(id)
	}
	s.changed()
	view, _ := s.fieldView(id)
	s.mu.Unlock()

	s.emit(EventFieldUpdated, id, view)
	return view, nil
}

func cleanLines(lines []string) []string {
	out := []string{}
	for _, l := range lines {
		if v := strings.TrimSpace(l); v != "" {
			out = append(out, v)
		}
	}
	return out
}
