package store

// Item is a single on-disk record, addressed by (type, name). The same
// record shape serves every item type; unused fields stay zero and are
// omitted from YAML.
type Item struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type,omitempty"`
	Duration any    `yaml:"duration,omitempty"`
	Priority string `yaml:"priority,omitempty"`
	Category string `yaml:"category,omitempty"`
	Status   string `yaml:"status,omitempty"`
	Window   string `yaml:"window,omitempty"`

	StartTime string `yaml:"start_time,omitempty"`

	StatusRequirements map[string]string `yaml:"status_requirements,omitempty"`
	Items              []ChildSpec       `yaml:"items,omitempty"`
	Variants           []Variant         `yaml:"variants,omitempty"`

	// Repetition and adherence tracking.
	Frequency       *Frequency `yaml:"frequency,omitempty"`
	CompletionDates []string   `yaml:"completion_dates,omitempty"`
	MissedDates     []string   `yaml:"missed_dates,omitempty"`
	LastCompleted   string     `yaml:"last_completed,omitempty"`
	CurrentStreak   int        `yaml:"current_streak,omitempty"`
	LongestStreak   int        `yaml:"longest_streak,omitempty"`
	Totals          Totals     `yaml:"totals,omitempty"`

	// Commitment fields.
	AssociatedItems []ItemRef `yaml:"associated_items,omitempty"`
	Never           bool      `yaml:"never,omitempty"`
	ForbiddenItems  []ItemRef `yaml:"forbidden_items,omitempty"`
	Triggers        *Triggers `yaml:"triggers,omitempty"`
	LastMet         string    `yaml:"last_met,omitempty"`
	LastViolation   string    `yaml:"last_violation,omitempty"`

	// Milestone fields.
	Goal       string    `yaml:"goal,omitempty"`
	Criteria   *Criteria `yaml:"criteria,omitempty"`
	Progress   *Progress `yaml:"progress,omitempty"`
	Weight     float64   `yaml:"weight,omitempty"`
	OnComplete []Action  `yaml:"on_complete,omitempty"`

	// Alarm/reminder fields read by the listener.
	Time        string  `yaml:"time,omitempty"`
	Recurrence  string  `yaml:"recurrence,omitempty"`
	Target      *Action `yaml:"target,omitempty"`
	SnoozeUntil string  `yaml:"snooze_until,omitempty"`
	ResetTime   string  `yaml:"reset_time,omitempty"`

	// Filesystem metadata, derived at load time.
	Slug string `yaml:"-"`
	Path string `yaml:"-"`
}

// ItemRef addresses another item by (type, name).
type ItemRef struct {
	Type string `yaml:"type"`
	Name string `yaml:"name"`
}

// ChildSpec is one entry in an item's or template's ordered child list.
// It is either a bare reference or an inline node carrying its own timing.
type ChildSpec struct {
	Type               string            `yaml:"type,omitempty"`
	Name               string            `yaml:"name"`
	Duration           any               `yaml:"duration,omitempty"`
	StartTime          string            `yaml:"start_time,omitempty"`
	Priority           string            `yaml:"priority,omitempty"`
	Category           string            `yaml:"category,omitempty"`
	StatusRequirements map[string]string `yaml:"status_requirements,omitempty"`
	Items              []ChildSpec       `yaml:"items,omitempty"`
}

// Inline reports whether the entry carries its own content instead of
// referring to a stored item.
func (c ChildSpec) Inline() bool {
	return len(c.Items) > 0 || c.Duration != nil || c.StartTime != ""
}

// Variant is an alternative child set gated by status requirements.
type Variant struct {
	Name               string            `yaml:"name"`
	StatusRequirements map[string]string `yaml:"status_requirements,omitempty"`
	Items              []ChildSpec       `yaml:"items,omitempty"`
}

// Frequency describes how often a repeating item or commitment applies.
type Frequency struct {
	Times  int    `yaml:"times"`
	Period string `yaml:"period"` // day | week | month
}

// Totals accumulates lifetime counters for an item.
type Totals struct {
	Completed int `yaml:"completed,omitempty"`
	Missed    int `yaml:"missed,omitempty"`
	NoShows   int `yaml:"no_shows,omitempty"`
}

// Triggers holds the actions a commitment fires.
type Triggers struct {
	OnMet       []Action `yaml:"on_met,omitempty"`
	OnViolation []Action `yaml:"on_violation,omitempty"`
}

// Action is a trigger payload: run a script through the dispatcher, or
// create an achievement/reward item.
type Action struct {
	Type    string `yaml:"type"` // script | achievement | reward | complete | edit | set
	Name    string `yaml:"name,omitempty"`
	Command string `yaml:"command,omitempty"`
	Value   string `yaml:"value,omitempty"`
}

// Criteria is a milestone's completion rule.
type Criteria struct {
	Count     *CountCriterion     `yaml:"count,omitempty"`
	Checklist *ChecklistCriterion `yaml:"checklist,omitempty"`
}

// CountCriterion counts completions of referenced items within a period.
type CountCriterion struct {
	Of     []ItemRef `yaml:"of"`
	Times  int       `yaml:"times"`
	Period string    `yaml:"period,omitempty"` // empty means all time
}

// ChecklistCriterion requires a number of referenced items to be done.
type ChecklistCriterion struct {
	Items   []ItemRef `yaml:"items"`
	Require int       `yaml:"require,omitempty"` // 0 means all
}

// Progress is a milestone's computed progress snapshot.
type Progress struct {
	Current int     `yaml:"current"`
	Target  int     `yaml:"target"`
	Percent float64 `yaml:"percent"`
}

// Repeating reports whether the item tracks streaks across days.
func (it *Item) Repeating() bool {
	return it.Frequency != nil || it.Type == "habit" || it.Type == "ritual"
}
