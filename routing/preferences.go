package routing

//*******************************************
// preference profiles
//*******************************************

// Coefficients weight the cost terms of the edge weight function.
// All coefficients must be non-negative; they need not sum to one.
type Coefficients struct {
	Alpha   float64 `json:"alpha"`   // travel time + predicted delay
	Beta    float64 `json:"beta"`    // distance
	Gamma   float64 `json:"gamma"`   // safety deficit (100 - score)
	Delta   float64 `json:"delta"`   // fare
	Epsilon float64 `json:"epsilon"` // transfer penalty
}

func (self Coefficients) Valid() bool {
	return self.Alpha >= 0 && self.Beta >= 0 && self.Gamma >= 0 &&
		self.Delta >= 0 && self.Epsilon >= 0
}

// The three fixed search vectors. Path search always runs all three
// over the same snapshot to approximate the Pareto front.
func FastestCoefficients() Coefficients {
	return Coefficients{Alpha: 0.5, Beta: 0.1, Gamma: 0.2, Delta: 0.1, Epsilon: 0.1}
}

func SafestCoefficients() Coefficients {
	return Coefficients{Alpha: 0.2, Beta: 0.1, Gamma: 0.5, Delta: 0.1, Epsilon: 0.1}
}

func BalancedCoefficients() Coefficients {
	return Coefficients{Alpha: 0.3, Beta: 0.1, Gamma: 0.3, Delta: 0.2, Epsilon: 0.1}
}

// Preferences is the per-request profile: ranking coefficients plus
// the hard constraints the route assembler enforces. Created per
// request, never persisted.
type Preferences struct {
	Weights Coefficients

	MaxDurationSeconds int32
	MaxBudget          float64
	MinSafety          float64
	Accessible         bool
}

func DefaultPreferences() Preferences {
	return Preferences{
		Weights: BalancedCoefficients(),
	}
}
