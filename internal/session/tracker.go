// Package session holds the ephemeral workout-in-progress editor state.
// Nothing here touches storage: a session becomes durable only when Finish
// produces an immutable WorkoutSession for the caller to persist.
package session

import (
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/fittrack/internal/models"
)

// ErrNoExercises is returned by Finish when the session has nothing to save.
var ErrNoExercises = errors.New("session has no exercises")

// New sets start with these defaults; the reps guess makes the common
// straight-sets flow a single tap per set.
const (
	defaultReps     = 10
	caloriesPerSet  = 5
	defaultSessName = "Workout"
)

// Set is an editable set within the in-progress session.
type Set struct {
	Reps      int     `json:"reps"`
	Weight    float64 `json:"weight"`
	Completed bool    `json:"completed"`
}

// Exercise is an editable exercise with its ordered sets. An exercise always
// holds at least one set.
type Exercise struct {
	Name string `json:"name"`
	Sets []Set  `json:"sets"`
}

// Tracker is the single in-progress workout. It carries an elapsed-seconds
// counter driven by a one-second ticker while started, and the editable
// exercise list. All methods are safe for concurrent use.
type Tracker struct {
	mu        sync.Mutex
	elapsed   int
	running   bool
	stop      chan struct{}
	exercises []Exercise

	now func() time.Time
}

// NewTracker returns an idle tracker with no exercises.
func NewTracker() *Tracker {
	return &Tracker{now: time.Now}
}

// Start begins (or resumes) the elapsed-time counter. Starting an already
// running tracker is a no-op.
func (t *Tracker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return
	}
	t.running = true
	if t.stop == nil {
		t.stop = make(chan struct{})
		go t.run(t.stop)
	}
}

// Pause suspends the counter without tearing down the ticker.
func (t *Tracker) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
}

// Stop halts the counter and tears down the ticker goroutine. Must be called
// when the session ends or the owning surface goes away, so no orphaned
// periodic callback keeps running.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

func (t *Tracker) stopLocked() {
	t.running = false
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

func (t *Tracker) run(stop chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			t.tick()
		case <-stop:
			return
		}
	}
}

func (t *Tracker) tick() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		t.elapsed++
	}
}

// Elapsed returns the counted seconds.
func (t *Tracker) Elapsed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.elapsed
}

// Running reports whether the counter is currently advancing.
func (t *Tracker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// AddExercise appends a new exercise with one default set. Blank or
// whitespace-only names are silently ignored.
func (t *Tracker) AddExercise(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.exercises = append(t.exercises, Exercise{
		Name: name,
		Sets: []Set{{Reps: defaultReps}},
	})
}

// RemoveExercise deletes the exercise at index and all its sets.
func (t *Tracker) RemoveExercise(index int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if index < 0 || index >= len(t.exercises) {
		return
	}
	t.exercises = append(t.exercises[:index], t.exercises[index+1:]...)
}

// AddSet appends a default set to the exercise at index.
func (t *Tracker) AddSet(index int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if index < 0 || index >= len(t.exercises) {
		return
	}
	ex := &t.exercises[index]
	ex.Sets = append(ex.Sets, Set{Reps: defaultReps})
}

// SetReps updates a set's rep count from raw user input. Values that fail to
// parse coerce to 0 rather than erroring.
func (t *Tracker) SetReps(exercise, set int, raw string) {
	t.withSet(exercise, set, func(s *Set) {
		s.Reps = int(coerceNumber(raw))
	})
}

// SetWeight updates a set's weight from raw user input, coercing parse
// failures to 0.
func (t *Tracker) SetWeight(exercise, set int, raw string) {
	t.withSet(exercise, set, func(s *Set) {
		s.Weight = coerceNumber(raw)
	})
}

// ToggleSet flips a set's completed flag.
func (t *Tracker) ToggleSet(exercise, set int) {
	t.withSet(exercise, set, func(s *Set) {
		s.Completed = !s.Completed
	})
}

// withSet runs fn against the addressed set under the lock. Out-of-range
// indexes are silent no-ops like the other editing methods.
func (t *Tracker) withSet(exercise, set int, fn func(*Set)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if exercise < 0 || exercise >= len(t.exercises) {
		return
	}
	ex := &t.exercises[exercise]
	if set < 0 || set >= len(ex.Sets) {
		return
	}
	fn(&ex.Sets[set])
}

// RemoveSet deletes a set from an exercise. The last remaining set of an
// exercise cannot be removed.
func (t *Tracker) RemoveSet(exercise, set int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if exercise < 0 || exercise >= len(t.exercises) {
		return
	}
	ex := &t.exercises[exercise]
	if len(ex.Sets) <= 1 || set < 0 || set >= len(ex.Sets) {
		return
	}
	ex.Sets = append(ex.Sets[:set], ex.Sets[set+1:]...)
}

// Exercises returns a deep copy of the current exercise list.
func (t *Tracker) Exercises() []Exercise {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Exercise, len(t.exercises))
	for i, ex := range t.exercises {
		out[i] = Exercise{Name: ex.Name, Sets: append([]Set(nil), ex.Sets...)}
	}
	return out
}

// Counts returns completed and total set counts across all exercises.
func (t *Tracker) Counts() (completed, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, ex := range t.exercises {
		total += len(ex.Sets)
		for _, s := range ex.Sets {
			if s.Completed {
				completed++
			}
		}
	}
	return completed, total
}

// Finish freezes the session into an immutable WorkoutSession. Only completed
// sets are retained. Volume is the sum of reps times weight over completed
// sets; calories use the fixed 5 kcal-per-completed-set heuristic. A session
// with zero exercises cannot be finished. The editor state is left intact so
// a failed save can be retried; callers invoke Reset once the record is
// durably stored.
func (t *Tracker) Finish(name string) (*models.WorkoutSession, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.exercises) == 0 {
		return nil, ErrNoExercises
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultSessName
	}

	var totalVolume float64
	var completedSets int
	exercises := make([]models.WorkoutExercise, len(t.exercises))
	for i, ex := range t.exercises {
		kept := []models.WorkoutSet{}
		for _, s := range ex.Sets {
			if !s.Completed {
				continue
			}
			kept = append(kept, models.WorkoutSet{Reps: s.Reps, Weight: s.Weight})
			totalVolume += float64(s.Reps) * s.Weight
			completedSets++
		}
		exercises[i] = models.WorkoutExercise{Name: ex.Name, Sets: kept}
	}

	w := &models.WorkoutSession{
		ID:          uuid.NewString(),
		Name:        name,
		Date:        t.now(),
		Duration:    t.elapsed,
		Exercises:   exercises,
		TotalVolume: totalVolume,
		Calories:    completedSets * caloriesPerSet,
	}

	return w, nil
}

// Reset stops the timer and clears the session state. Called after a finished
// record has been saved; keeping it separate from Finish means a failed save
// leaves the session editable.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
	t.elapsed = 0
	t.exercises = nil
}

// coerceNumber parses raw as a number, returning 0 on failure. Mirrors the
// forgiving numeric inputs of the original tracker UI.
func coerceNumber(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return v
}
