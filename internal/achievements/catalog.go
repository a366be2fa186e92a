package achievements

// Kind groups achievements by the statistic their unlock rule reads.
type Kind string

const (
	KindStreak    Kind = "streak"
	KindMilestone Kind = "milestone"
	KindSpecial   Kind = "special"
)

// Definition is one catalog entry. Target carries the threshold for
// streak and milestone kinds; specials encode their predicate by ID.
type Definition struct {
	ID          string
	Name        string
	Kind        Kind
	Target      int
	Description string
}

const (
	FirstCompletion = "first_completion"
	EarlyBird       = "early_bird"
	NightOwl        = "night_owl"
)

// Catalog returns the fixed achievement set in display order.
func Catalog() []Definition {
	return []Definition{
		{ID: "streak_3", Name: "On a Roll", Kind: KindStreak, Target: 3,
			Description: "Complete tasks three days in a row"},
		{ID: "streak_7", Name: "Week Warrior", Kind: KindStreak, Target: 7,
			Description: "Keep a seven day completion streak"},
		{ID: "streak_30", Name: "Habit Master", Kind: KindStreak, Target: 30,
			Description: "Keep a thirty day completion streak"},
		{ID: "milestone_1", Name: "First Step", Kind: KindMilestone, Target: 1,
			Description: "Complete your first task"},
		{ID: "milestone_10", Name: "Getting Things Done", Kind: KindMilestone, Target: 10,
			Description: "Complete ten tasks"},
		{ID: "milestone_50", Name: "Half Century", Kind: KindMilestone, Target: 50,
			Description: "Complete fifty tasks"},
		{ID: "milestone_100", Name: "Centurion", Kind: KindMilestone, Target: 100,
			Description: "Complete one hundred tasks"},
		{ID: FirstCompletion, Name: "Off the Mark", Kind: KindSpecial, Target: 1,
			Description: "Mark any task as done"},
		{ID: EarlyBird, Name: "Early Bird", Kind: KindSpecial, Target: 1,
			Description: "Complete a task between 5 and 8 in the morning"},
		{ID: NightOwl, Name: "Night Owl", Kind: KindSpecial, Target: 1,
			Description: "Complete a task after 10 at night"},
	}
}
