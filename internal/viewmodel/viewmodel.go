package viewmodel

// WidgetPage holds data for the main widget page template.
type WidgetPage struct {
	Title string
	Timer TimerFragment
}

// TimerFragment holds data for the timer UI fragment. Attribute values are
// pre-rendered strings so the template stays declarative.
type TimerFragment struct {
	Clock      string
	StateLabel string
	Running    bool
	Done       bool
	StateClass string // full class attribute for the fragment root
	DeadlineMs string // unix millis of the deadline, "0" while stopped
	Total      string // session length in seconds
	Remaining  string // remaining whole seconds
	RunningStr string // "true" / "false" for the data attribute
	ClipPath   string // clip-path polygon for the progress overlay
}
