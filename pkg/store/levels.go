package store

import "strings"

// Item types form a containment hierarchy: a type may nest only types of
// a strictly higher level number.
const (
	TypeWeek         = "week"
	TypeDay          = "day"
	TypeRoutine      = "routine"
	TypeSubroutine   = "subroutine"
	TypeMicroroutine = "microroutine"

	TypeTask        = "task"
	TypeAppointment = "appointment"
	TypeHabit       = "habit"
	TypeReminder    = "reminder"
	TypeAlarm       = "alarm"
	TypeCommitment  = "commitment"
	TypeGoal        = "goal"
	TypeMilestone   = "milestone"
	TypeProject     = "project"
	TypeRitual      = "ritual"
)

const leafLevel = 5

var typeLevels = map[string]int{
	TypeWeek:         0,
	TypeDay:          1,
	TypeRoutine:      2,
	TypeSubroutine:   3,
	TypeMicroroutine: 4,
	TypeTask:         leafLevel,
	TypeAppointment:  leafLevel,
	TypeHabit:        leafLevel,
	TypeReminder:     leafLevel,
	TypeAlarm:        leafLevel,
	TypeCommitment:   leafLevel,
	TypeGoal:         leafLevel,
	TypeMilestone:    leafLevel,
	TypeProject:      leafLevel,
	TypeRitual:       leafLevel,
}

// Level returns the hierarchy level of a type. Unknown types are treated
// as leaves so they can still be scheduled.
func Level(typ string) int {
	if lvl, ok := typeLevels[strings.ToLower(typ)]; ok {
		return lvl
	}
	return leafLevel
}

// CanContain reports whether a parent type may nest a child type.
func CanContain(parent, child string) bool {
	return Level(parent) < Level(child)
}

// KnownType reports whether typ is one of the declared item types.
func KnownType(typ string) bool {
	_, ok := typeLevels[strings.ToLower(typ)]
	return ok
}

// TypeDir returns the directory name used for a type's records, e.g.
// "routine" -> "Routines".
func TypeDir(typ string) string {
	plural := strings.ToLower(typ) + "s"
	return strings.ToUpper(plural[:1]) + plural[1:]
}
