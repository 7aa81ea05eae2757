package models

import "strings"

// Race goals offered by the plan builder and coaching form.
const (
	Goal5K   = "5k"
	Goal10K  = "10k"
	GoalHalf = "half"
	GoalFull = "full"
)

// Experience levels.
const (
	ExperienceBeginner     = "beginner"
	ExperienceIntermediate = "intermediate"
	ExperienceAdvanced     = "advanced"
)

var goalKilometers = map[string]int{
	Goal5K:   5,
	Goal10K:  10,
	GoalHalf: 21,
	GoalFull: 42,
}

var experienceLevels = map[string]int{
	ExperienceBeginner:     1,
	ExperienceIntermediate: 2,
	ExperienceAdvanced:     3,
}

// IsGoal reports whether g is one of the fixed race goals.
func IsGoal(g string) bool {
	_, ok := goalKilometers[normalize(g)]
	return ok
}

// GoalToKilometers maps a goal label to its race distance.
// Unknown labels fall back to 5.
func GoalToKilometers(g string) int {
	if km, ok := goalKilometers[normalize(g)]; ok {
		return km
	}
	return 5
}

// KilometersToGoal is the inverse of GoalToKilometers.
func KilometersToGoal(km int) string {
	for g, v := range goalKilometers {
		if v == km {
			return g
		}
	}
	return Goal5K
}

// ExperienceToLevel maps an experience label to 1-3, defaulting to beginner.
func ExperienceToLevel(e string) int {
	if lvl, ok := experienceLevels[normalize(e)]; ok {
		return lvl
	}
	return 1
}

// LevelToExperience is the inverse of ExperienceToLevel.
func LevelToExperience(level int) string {
	for e, v := range experienceLevels {
		if v == level {
			return e
		}
	}
	return ExperienceBeginner
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
