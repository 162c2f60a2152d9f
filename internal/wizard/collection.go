package wizard

import (
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-set/v2"
	"github.com/tiendc/go-deepcopy"

	"synthdata-wizard-api/internal/domain"
)

// Collection is the ordered, identity-stable list of field specs.
// Rows live in an arena keyed by id; order is a separate list of ids.
// Collection is not safe for concurrent use, the owning Session locks it.
type Collection struct {
	rows  map[string]*domain.FieldSpec
	order []string
}

// NewCollection creates an empty collection
func NewCollection() *Collection {
	return &Collection{
		rows:  make(map[string]*domain.FieldSpec),
		order: []string{},
	}
}

// Add appends a fresh row and returns a copy of it
func (c *Collection) Add() domain.FieldSpec {
	row := domain.NewFieldSpec(uuid.New().String())
	c.rows[row.ID] = &row
	c.order = append(c.order, row.ID)
	return cloneRow(row)
}

// Remove deletes the row with the given id
func (c *Collection) Remove(id string) bool {
	if _, ok := c.rows[id]; !ok {
		return false
	}
	delete(c.rows, id)
	idx := c.indexOf(id)
	c.order = append(c.order[:idx], c.order[idx+1:]...)
	return true
}

// Move relocates the row to newIndex. The index is clamped into range.
func (c *Collection) Move(id string, newIndex int) bool {
	from := c.indexOf(id)
	if from < 0 {
		return false
	}
	if newIndex < 0 {
		newIndex = 0
	}
	if newIndex > len(c.order)-1 {
		newIndex = len(c.order) - 1
	}
	if from == newIndex {
		return true
	}

	rest := make([]string, 0, len(c.order)-1)
	rest = append(rest, c.order[:from]...)
	rest = append(rest, c.order[from+1:]...)

	moved := make([]string, 0, len(c.order))
	moved = append(moved, rest[:newIndex]...)
	moved = append(moved, id)
	moved = append(moved, rest[newIndex:]...)
	c.order = moved
	return true
}

// Patch merges a partial update into the row
func (c *Collection) Patch(id string, patch domain.FieldPatch) bool {
	row, ok := c.rows[id]
	if !ok {
		return false
	}
	patch.Apply(row)
	return true
}

// Update replaces the row in place through fn
func (c *Collection) Update(id string, fn func(row *domain.FieldSpec)) bool {
	row, ok := c.rows[id]
	if !ok {
		return false
	}
	fn(row)
	return true
}

// Get returns a copy of the row with the given id
func (c *Collection) Get(id string) (domain.FieldSpec, bool) {
	row, ok := c.rows[id]
	if !ok {
		return domain.FieldSpec{}, false
	}
	return cloneRow(*row), true
}

// FindByName returns the first row, in order, whose name equals name
func (c *Collection) FindByName(name string) (domain.FieldSpec, bool) {
	if name == "" {
		return domain.FieldSpec{}, false
	}
	for _, id := range c.order {
		if row := c.rows[id]; row.Name == name {
			return cloneRow(*row), true
		}
	}
	return domain.FieldSpec{}, false
}

// IndexOf returns the position of the row or -1
func (c *Collection) IndexOf(id string) int {
	return c.indexOf(id)
}

// Fields returns a deep copy of all rows in order
func (c *Collection) Fields() []domain.FieldSpec {
	out := make([]domain.FieldSpec, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.rows[id])
	}
	var snapshot []domain.FieldSpec
	if err := deepcopy.Copy(&snapshot, &out); err != nil {
		// fall back to per-row copies
		snapshot = make([]domain.FieldSpec, len(out))
		for i, row := range out {
			snapshot[i] = cloneRow(row)
		}
	}
	if snapshot == nil {
		snapshot = []domain.FieldSpec{}
	}
	return snapshot
}

// Names returns the unique, trimmed, non-empty field names in first-seen order
func (c *Collection) Names() []string {
	seen := set.New[string](len(c.order))
	names := []string{}
	for _, id := range c.order {
		name := strings.TrimSpace(c.rows[id].Name)
		if name == "" || seen.Contains(name) {
			continue
		}
		seen.Insert(name)
		names = append(names, name)
	}
	return names
}

// Types returns the field types in order
func (c *Collection) Types() []string {
	types := make([]string, 0, len(c.order))
	for _, id := range c.order {
		types = append(types, c.rows[id].Type)
	}
	return types
}

// Replace swaps the content for rows, keeping their order.
// Rows without an id, or with a duplicate id, get a fresh one.
func (c *Collection) Replace(rows []domain.FieldSpec) {
	c.rows = make(map[string]*domain.FieldSpec, len(rows))
	c.order = make([]string, 0, len(rows))
	for _, r := range rows {
		row := cloneRow(r)
		row.Normalize()
		if _, dup := c.rows[row.ID]; row.ID == "" || dup {
			row.ID = uuid.New().String()
		}
		c.rows[row.ID] = &row
		c.order = append(c.order, row.ID)
	}
}

// IDs returns the row ids in order
func (c *Collection) IDs() []string {
	return append([]string{}, c.order...)
}

// Len returns the number of rows
func (c *Collection) Len() int {
	return len(c.order)
}

func (c *Collection) indexOf(id string) int {
	for i, v := range c.order {
		if v == id {
			return i
		}
	}
	return -1
}

func cloneRow(row domain.FieldSpec) domain.FieldSpec {
	out := row
	out.Dependency = append(domain.Dependency{}, row.Dependency...)
	out.DistributionConfig.ExtraParams = append([]string{}, row.DistributionConfig.ExtraParams...)
	out.CustomValues = append([]string{}, row.CustomValues...)
	return out
}
