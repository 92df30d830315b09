package aggregate

import "math"

const (
	StateOK           = "ok"
	StateInsufficient = "insufficient_data"
)

// Metric is a measured value, or an explicit marker that nothing was measured.
type Metric struct {
	Value *float64 `json:"value"`
	State string   `json:"state"`
}

func Measured(v float64) Metric { return Metric{Value: &v, State: StateOK} }

func Insufficient() Metric { return Metric{State: StateInsufficient} }

func (m Metric) Sufficient() bool { return m.State == StateOK && m.Value != nil }

func (m Metric) ValueOr(def float64) float64 {
	if !m.Sufficient() {
		return def
	}
	return *m.Value
}

// Round rounds half away from zero to the given number of decimals.
func Round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
