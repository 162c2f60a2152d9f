package domain

import "strconv"

// ColumnList is the detection service's answer for an uploaded file
type ColumnList struct {
	Columns []string `json:"columns"`
}

// ColumnDetection is the best-fitting distribution for one uploaded column
type ColumnDetection struct {
	BestDistribution string    `json:"best_distribution"`
	Parameters       []float64 `json:"parameters"`
	Values           []float64 `json:"values"`
	PValue           float64   `json:"p_value"`
}

// CurveFitRequest carries normalised points of a hand-drawn curve
type CurveFitRequest struct {
	Points []float64 `json:"points"`
}

// CurveFit is the best-fitting distribution for a hand-drawn curve
type CurveFit struct {
	BestDistribution string    `json:"best_distribution"`
	PValue           float64   `json:"p_value"`
	Parameters       []float64 `json:"parameters"`
	FitCurve         []float64 `json:"fit_curve"`
}

// FittedConfig maps a fitted distribution onto a DistributionConfig:
// the first two parameters become parameterA/B, the rest extraParams.
func FittedConfig(distribution string, parameters []float64) DistributionConfig {
	cfg := DistributionConfig{Distribution: distribution, ExtraParams: []string{}}
	for i, p := range parameters {
		v := strconv.FormatFloat(p, 'f', -1, 64)
		switch i {
		case 0:
			cfg.ParameterA = v
		case 1:
			cfg.ParameterB = v
		default:
			cfg.ExtraParams = append(cfg.ExtraParams, v)
		}
	}
	return cfg
}
