package catalog

// Distribution kinds understood by the generator backend
const (
	DistributionNormal      = "normal"
	DistributionUniform     = "uniform"
	DistributionGamma       = "gamma"
	DistributionLognormal   = "lognormal"
	DistributionExponential = "exponential"
	DistributionPoisson     = "poisson"
	DistributionCategorical = "categorical"
)

// DistributionKind is a distribution with its display label
type DistributionKind struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var distributionKinds = []DistributionKind{
	{Value: DistributionNormal, Label: "Normalverteilung"},
	{Value: DistributionUniform, Label: "Gleichverteilung"},
	{Value: DistributionGamma, Label: "Gammaverteilung"},
	{Value: DistributionLognormal, Label: "Log-Normalverteilung"},
	{Value: DistributionExponential, Label: "Exponentialverteilung"},
	{Value: DistributionPoisson, Label: "Poisson-Verteilung"},
	{Value: DistributionCategorical, Label: "Kategoriale Verteilung"},
}

var (
	continuousDistributions = []string{
		DistributionNormal,
		DistributionUniform,
		DistributionGamma,
		DistributionLognormal,
		DistributionExponential,
		DistributionPoisson,
	}
	temporalDistributions    = []string{DistributionUniform, DistributionNormal}
	categoricalDistributions = []string{DistributionCategorical, DistributionUniform}
	allDistributions         = []string{
		DistributionNormal,
		DistributionUniform,
		DistributionGamma,
		DistributionLognormal,
		DistributionExponential,
		DistributionPoisson,
		DistributionCategorical,
	}
)

// DistributionKinds returns all known distribution kinds
func DistributionKinds() []DistributionKind {
	out := make([]DistributionKind, len(distributionKinds))
	copy(out, distributionKinds)
	return out
}

// DistributionLabel returns the display label of a distribution kind,
// or the kind itself when it is unknown
func DistributionLabel(kind string) string {
	for _, k := range distributionKinds {
		if k.Value == kind {
			return k.Label
		}
	}
	return kind
}
