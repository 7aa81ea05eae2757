package main

import (
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommands(t *testing.T) {
	parser, err := kong.New(&CLI, kong.Name("runspirectl"), kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	require.NoError(t, err)

	ctx, err := parser.Parse([]string{"migrate-legacy", "--entity", "testimonials"})
	require.NoError(t, err)
	assert.Equal(t, "migrate-legacy", ctx.Command())
	assert.Equal(t, "testimonials", CLI.MigrateLegacy.Entity)

	ctx, err = parser.Parse([]string{"reset", "--yes"})
	require.NoError(t, err)
	assert.Equal(t, "reset", ctx.Command())
	assert.True(t, CLI.Reset.Yes)

	_, err = parser.Parse([]string{"add-admin", "--username", "coach"})
	assert.Error(t, err)
}
