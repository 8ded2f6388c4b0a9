package models

// GoalType categorizes a goal. Currently advisory only — it does not change
// how progress is computed.
type GoalType string

const (
	GoalWeightLoss GoalType = "weight_loss"
	GoalMuscleGain GoalType = "muscle_gain"
	GoalStrength   GoalType = "strength"
	GoalEndurance  GoalType = "endurance"
)

// Valid reports whether t is one of the known goal types.
func (t GoalType) Valid() bool {
	switch t {
	case GoalWeightLoss, GoalMuscleGain, GoalStrength, GoalEndurance:
		return true
	}
	return false
}

// Goal is a user-defined numeric target with current progress and an optional
// deadline. Goals are created and deleted whole; Current is not revised in
// place after creation.
type Goal struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Type        GoalType `json:"type"`
	Target      float64  `json:"target"`
	Current     float64  `json:"current"`
	Unit        string   `json:"unit"`
	Deadline    string   `json:"deadline,omitempty"` // ISO date (YYYY-MM-DD), empty when unset
}
