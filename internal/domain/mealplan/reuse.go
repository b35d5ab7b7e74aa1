package mealplan

// MaxRepeatDays is the largest allowed value for allow repeat days
const MaxRepeatDays = 7

// ReuseWindow is how many trailing day positions a reused day is drawn from
const ReuseWindow = 7

// ReuseController decides whether a day position repeats an earlier day
type ReuseController struct {
	rand            Rand
	allowRepeatDays int
}

// NewReuseController creates a controller reusing with probability allowRepeatDays/7
func NewReuseController(rnd Rand, allowRepeatDays int) (*ReuseController, error) {
	if allowRepeatDays < 0 || allowRepeatDays > MaxRepeatDays {
		return nil, ErrInvalidRepeatDays
	}
	return &ReuseController{rand: rnd, allowRepeatDays: allowRepeatDays}, nil
}

// Pick returns the position of an earlier day to reuse, drawn uniformly from
// the last ReuseWindow positions, or false when a fresh day should be built.
// A single uniform draw decides reuse.
func (c *ReuseController) Pick(days *DayArena) (int, bool) {
	n := days.Len()
	if c.allowRepeatDays == 0 || n == 0 {
		return 0, false
	}

	if c.rand.Float64() >= float64(c.allowRepeatDays)/MaxRepeatDays {
		return 0, false
	}

	window := min(ReuseWindow, n)
	return n - window + c.rand.IntN(window), true
}

// DayArena is the append-only sequence of day positions in a plan run.
// Reused positions point at the same *DayPlan as their source.
type DayArena struct {
	days   []*DayPlan
	source []int
}

// NewDayArena creates an arena sized for n positions
func NewDayArena(n int) *DayArena {
	return &DayArena{days: make([]*DayPlan, 0, n), source: make([]int, 0, n)}
}

// AppendBuilt records a freshly built day
func (a *DayArena) AppendBuilt(d *DayPlan) {
	a.source = append(a.source, len(a.days))
	a.days = append(a.days, d)
}

// AppendReuse records a position repeating the day at position pos
func (a *DayArena) AppendReuse(pos int) {
	a.source = append(a.source, a.source[pos])
	a.days = append(a.days, a.days[pos])
}

// Len returns the number of positions
func (a *DayArena) Len() int { return len(a.days) }

// At returns the day at a position
func (a *DayArena) At(pos int) *DayPlan { return a.days[pos] }

// SourceOf returns the position where the day at pos was first built
func (a *DayArena) SourceOf(pos int) int { return a.source[pos] }
