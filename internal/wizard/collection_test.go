package wizard

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"synthdata-wizard-api/internal/domain"
)

func newNamedCollection(names ...string) (*Collection, []string) {
	c := NewCollection()
	ids := make([]string, len(names))
	for i, name := range names {
		row := c.Add()
		n := name
		c.Patch(row.ID, domain.FieldPatch{Name: &n})
		ids[i] = row.ID
	}
	return c, ids
}

func TestCollection_Add(t *testing.T) {
	c := NewCollection()
	a := c.Add()
	b := c.Add()

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, []string{a.ID, b.ID}, c.IDs())
	assert.Equal(t, domain.ValueSourceDefault, a.ValueSource)
	assert.Empty(t, a.CustomValues)
}

func TestCollection_Move(t *testing.T) {
	tests := []struct {
		name     string
		from     int
		newIndex int
		want     []string
	}{
		{"성공: 앞으로 이동", 2, 0, []string{"c", "a", "b", "d"}},
		{"성공: 뒤로 이동", 0, 2, []string{"b", "c", "a", "d"}},
		{"성공: 같은 위치", 1, 1, []string{"a", "b", "c", "d"}},
		{"성공: 범위 초과 인덱스는 마지막으로", 0, 99, []string{"b", "c", "d", "a"}},
		{"성공: 음수 인덱스는 처음으로", 3, -4, []string{"d", "a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given
			c, ids := newNamedCollection("a", "b", "c", "d")

			// When
			ok := c.Move(ids[tt.from], tt.newIndex)

			// Then
			require.True(t, ok)
			names := []string{}
			for _, f := range c.Fields() {
				names = append(names, f.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestCollection_UnknownIDsAreNoOps(t *testing.T) {
	c, _ := newNamedCollection("a", "b")
	before := c.Fields()
	name := "x"

	assert.False(t, c.Remove("missing"))
	assert.False(t, c.Move("missing", 0))
	assert.False(t, c.Patch("missing", domain.FieldPatch{Name: &name}))
	_, ok := c.Get("missing")
	assert.False(t, ok)

	assert.Equal(t, before, c.Fields())
}

func TestCollection_Remove(t *testing.T) {
	c, ids := newNamedCollection("a", "b", "c")

	assert.True(t, c.Remove(ids[1]))
	assert.Equal(t, []string{ids[0], ids[2]}, c.IDs())
	assert.Equal(t, 2, c.Len())
}

func TestCollection_PatchAndFindByName(t *testing.T) {
	c, ids := newNamedCollection("alter", "geschlecht", "geschlecht")
	fieldType := "gender"
	dep := domain.ParseDependency("alter")

	assert.True(t, c.Patch(ids[1], domain.FieldPatch{Type: &fieldType, Dependency: &dep}))

	row, ok := c.FindByName("geschlecht")
	require.True(t, ok)
	assert.Equal(t, ids[1], row.ID, "first match wins")
	assert.Equal(t, "gender", row.Type)
	assert.Equal(t, domain.Dependency{"alter"}, row.Dependency)

	_, ok = c.FindByName("")
	assert.False(t, ok)
}

func TestCollection_FieldsIsDeepCopy(t *testing.T) {
	c, ids := newNamedCollection("a")
	values := []string{"x", "y"}
	c.Patch(ids[0], domain.FieldPatch{CustomValues: &values})

	fields := c.Fields()
	fields[0].CustomValues[0] = "changed"
	fields[0].Name = "changed"

	row, _ := c.Get(ids[0])
	assert.Equal(t, "a", row.Name)
	assert.Equal(t, []string{"x", "y"}, row.CustomValues)
}

func TestCollection_Names(t *testing.T) {
	c, _ := newNamedCollection(" alter ", "", "alter", "vorname", "   ")
	assert.Equal(t, []string{"alter", "vorname"}, c.Names())
}

func TestCollection_Replace(t *testing.T) {
	c := NewCollection()
	c.Add()

	c.Replace([]domain.FieldSpec{
		{ID: "keep", Name: "a"},
		{Name: "b"},
		{ID: "keep", Name: "c"},
	})

	fields := c.Fields()
	require.Len(t, fields, 3)
	assert.Equal(t, "keep", fields[0].ID)
	assert.NotEmpty(t, fields[1].ID)
	assert.NotEqual(t, "keep", fields[2].ID, "duplicate ids are reassigned")
	assert.Equal(t, domain.ValueSourceDefault, fields[1].ValueSource)
}

// Property: for any sequence of moves every row keeps its id, name, type
// and distribution config; only positions change
func TestProperty_IdentityUnderReorder(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	type move struct {
		From int
		To   int
	}
	genMove := gopter.CombineGens(gen.IntRange(0, 5), gen.IntRange(-2, 8)).Map(func(v []interface{}) move {
		return move{From: v[0].(int), To: v[1].(int)}
	})

	properties.Property("moves preserve row identity", prop.ForAll(
		func(moves []move) bool {
			c := NewCollection()
			want := map[string]domain.FieldSpec{}
			for i := 0; i < 6; i++ {
				row := c.Add()
				name := string(rune('a' + i))
				fieldType := "number"
				cfg := domain.DistributionConfig{
					Distribution: "normal",
					ParameterA:   name,
					ParameterB:   "1",
					ExtraParams:  []string{name},
				}
				c.Patch(row.ID, domain.FieldPatch{Name: &name, Type: &fieldType, DistributionConfig: &cfg})
				want[row.ID], _ = c.Get(row.ID)
			}

			for _, m := range moves {
				ids := c.IDs()
				if !c.Move(ids[m.From], m.To) {
					return false
				}
			}

			fields := c.Fields()
			if len(fields) != len(want) {
				return false
			}
			for _, f := range fields {
				w, ok := want[f.ID]
				if !ok {
					return false
				}
				if f.Name != w.Name || f.Type != w.Type {
					return false
				}
				if f.DistributionConfig.ParameterA != w.DistributionConfig.ParameterA ||
					f.DistributionConfig.Distribution != w.DistributionConfig.Distribution ||
					f.DistributionConfig.ExtraParams[0] != w.DistributionConfig.ExtraParams[0] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genMove),
	))

	properties.TestingRun(t)
}
