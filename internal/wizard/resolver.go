package wizard

import (
	"context"
	"strings"

	"synthdata-wizard-api/internal/catalog"
	"synthdata-wizard-api/internal/domain"
	"synthdata-wizard-api/internal/response"
)

// DependencyFlow is what the dependency editor needs to gather a new
// distribution for the target of a field's primary dependency
type DependencyFlow struct {
	TargetName  string                    `json:"targetName"`
	TargetType  string                    `json:"targetType"`
	TargetLabel string                    `json:"targetLabel"`
	Found       bool                      `json:"found"`
	Initial     domain.DistributionConfig `json:"initial"`
}

// DependencyResult describes where a dependency distribution was written
type DependencyResult struct {
	Requester FieldView  `json:"requester"`
	Target    *FieldView `json:"target,omitempty"`
	Fallback  bool       `json:"fallback"`
}

// ResolveTarget returns the first field named like the primary dependency of id
func (s *Session) ResolveTarget(id string) (domain.FieldSpec, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.fields.Get(id)
	if !ok {
		return domain.FieldSpec{}, fieldNotFound(id)
	}
	return s.resolveTarget(row)
}

func (s *Session) resolveTarget(row domain.FieldSpec) (domain.FieldSpec, error) {
	name := row.Dependency.Primary()
	if name == "" {
		return domain.FieldSpec{}, response.NewNotFoundError("No dependency selected", row.ID)
	}
	target, ok := s.fields.FindByName(name)
	if !ok {
		return domain.FieldSpec{}, response.NewNotFoundError("Dependency target not found", name)
	}
	return target, nil
}

// OpenDependencyFlow prepares the dependency editor for field id. The target
// may be missing; the flow then reports found=false.
func (s *Session) OpenDependencyFlow(id string) (DependencyFlow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	row, ok := s.fields.Get(id)
	if !ok {
		return DependencyFlow{}, fieldNotFound(id)
	}
	name := row.Dependency.Primary()
	if name == "" {
		return DependencyFlow{}, response.NewValidationError("No dependency selected", "choose a dependency before defining its distribution")
	}

	flow := DependencyFlow{
		TargetName: name,
		Initial:    domain.DistributionConfig{ExtraParams: []string{}},
	}
	if target, err := s.resolveTarget(row); err == nil {
		flow.Found = true
		flow.TargetType = target.Type
		flow.TargetLabel = catalog.LabelOf(target.Type)
		flow.Initial = target.DistributionConfig
	}
	if flow.Initial.Distribution == "" {
		flow.Initial.Distribution = catalog.DistributionCategorical
	}
	return flow, nil
}

// ApplyDependencyDistribution merges update into the config of the field's
// dependency target and locks the requesting field to dependency mode. When
// the target does not resolve the update is merged into the requesting
// field instead and the result reports fallback=true.
func (s *Session) ApplyDependencyDistribution(ctx context.Context, id string, update domain.DistributionUpdate) (DependencyResult, error) {
	if update.Distribution == nil {
		categorical := catalog.DistributionCategorical
		update.Distribution = &categorical
	}
	if strings.TrimSpace(*update.Distribution) == "" {
		return DependencyResult{}, response.NewValidationError("Distribution is required", "")
	}
	if *update.Distribution == catalog.DistributionCategorical &&
		(update.ParameterA == nil || strings.TrimSpace(*update.ParameterA) == "") {
		return DependencyResult{}, response.NewValidationError("Categorical distribution needs values", "parameterA must list the categories")
	}

	s.mu.Lock()
	row, ok := s.fields.Get(id)
	if !ok {
		s.mu.Unlock()
		return DependencyResult{}, fieldNotFound(id)
	}
	name := row.Dependency.Primary()
	if name == "" {
		s.mu.Unlock()
		return DependencyResult{}, response.NewValidationError("No dependency selected", "choose a dependency before defining its distribution")
	}

	lock := s.modeFor(id)
	if !lock.CanEnter(domain.ModeDependency) {
		s.mu.Unlock()
		return DependencyResult{}, response.NewModeLockedError("Field is locked to "+string(lock.Current())+" mode", "reset the field before defining a dependency")
	}
	if err := lock.Enter(ctx, domain.ModeDependency); err != nil {
		s.mu.Unlock()
		return DependencyResult{}, err
	}

	result := DependencyResult{}
	target, err := s.resolveTarget(row)
	if err == nil {
		s.fields.Update(target.ID, func(t *domain.FieldSpec) {
			t.DistributionConfig = t.DistributionConfig.Merge(update)
		})
		s.fields.Update(id, func(r *domain.FieldSpec) {
			r.Dependency = domain.Dependency{target.Name}
		})
		tv, _ := s.fieldView(target.ID)
		result.Target = &tv
	} else {
		s.fields.Update(id, func(r *domain.FieldSpec) {
			r.DistributionConfig = r.DistributionConfig.Merge(update)
			r.Dependency = domain.Dependency{name}
		})
		result.Fallback = true
	}
	result.Requester, _ = s.fieldView(id)
	s.changed()
	s.mu.Unlock()

	s.emit(EventDependencyApplied, id, result)
	return result, nil
}
