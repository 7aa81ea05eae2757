package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGoalToKilometers(t *testing.T) {
	tests := map[string]int{
		"5k":     5,
		"10k":    10,
		"half":   21,
		"full":   42,
		" HALF ": 21,
		"ultra":  5,
		"":       5,
	}
	for in, want := range tests {
		assert.Equal(t, want, GoalToKilometers(in), in)
	}
}

func TestKilometersRoundTrip(t *testing.T) {
	for _, g := range []string{Goal5K, Goal10K, GoalHalf, GoalFull} {
		assert.Equal(t, g, KilometersToGoal(GoalToKilometers(g)))
	}
	assert.Equal(t, Goal5K, KilometersToGoal(100))
}

func TestExperienceLevels(t *testing.T) {
	assert.Equal(t, 1, ExperienceToLevel("beginner"))
	assert.Equal(t, 2, ExperienceToLevel("Intermediate"))
	assert.Equal(t, 3, ExperienceToLevel("advanced"))
	assert.Equal(t, 1, ExperienceToLevel("elite"))

	for _, e := range []string{ExperienceBeginner, ExperienceIntermediate, ExperienceAdvanced} {
		assert.Equal(t, e, LevelToExperience(ExperienceToLevel(e)))
	}
	assert.Equal(t, ExperienceBeginner, LevelToExperience(0))
}

func TestIsGoal(t *testing.T) {
	assert.True(t, IsGoal("10k"))
	assert.True(t, IsGoal("Full"))
	assert.False(t, IsGoal("marathon"))
}
