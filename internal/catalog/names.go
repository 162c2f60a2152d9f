package catalog

// Name source regions for name generators
const (
	NameRegionWestern  = "western"
	NameRegionRegional = "regional"
)

// NameRegion is a selectable name source
type NameRegion struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var nameRegions = []NameRegion{
	{Value: NameRegionWestern, Label: "Westliche Namen"},
	{Value: NameRegionRegional, Label: "Regionale Namen"},
}

var nameCountries = []string{
	"Deutschland",
	"Österreich",
	"Schweiz",
	"Türkei",
	"Nigeria",
	"Singapur",
	"Spanien",
	"USA",
	"Vietnam",
	"Frankreich",
	"Italien",
	"Brasilien",
	"Indien",
	"Japan",
}

// NameRegions returns the selectable name regions
func NameRegions() []NameRegion {
	out := make([]NameRegion, len(nameRegions))
	copy(out, nameRegions)
	return out
}

// NameCountries returns the countries available for regional names
func NameCountries() []string {
	out := make([]string, len(nameCountries))
	copy(out, nameCountries)
	return out
}

// IsNameRegion reports whether v is a known name region
func IsNameRegion(v string) bool {
	return v == NameRegionWestern || v == NameRegionRegional
}
