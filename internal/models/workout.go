package models

import "time"

// WorkoutSet is one reps-and-weight unit within an exercise. Sets have no
// identity of their own; they exist only inside a WorkoutExercise.
type WorkoutSet struct {
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
}

// Volume returns the training load of the set.
func (s WorkoutSet) Volume() float64 {
	return float64(s.Reps) * s.Weight
}

// WorkoutExercise is a named exercise with its ordered sets. The name is free
// text; there is no foreign key into any exercise catalog.
type WorkoutExercise struct {
	Name string       `json:"name"`
	Sets []WorkoutSet `json:"sets"`
}

// WorkoutSession is one finished workout. Once persisted it is immutable:
// exercises, volume and calories are computed at save time and the only
// supported mutation afterwards is whole-record deletion.
type WorkoutSession struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Date        time.Time         `json:"date"`
	Duration    int               `json:"duration"` // seconds
	Exercises   []WorkoutExercise `json:"exercises"`
	TotalVolume float64           `json:"totalVolume"`
	Calories    int               `json:"calories"`
}
