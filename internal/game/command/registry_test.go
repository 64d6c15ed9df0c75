package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryResolves(t *testing.T) {
	r := DefaultRegistry()

	for _, name := range []string{"reforge", "rf", "unreforge", "urf", "attributes", "attrs", "help", "?"} {
		cmd, ok := r.Resolve(name)
		require.True(t, ok, "resolving %q", name)
		assert.NotEmpty(t, cmd.Handler)
	}

	_, ok := r.Resolve("smelt")
	assert.False(t, ok)
}

func TestRegistryAliasResolvesToCanonical(t *testing.T) {
	r := DefaultRegistry()
	byAlias, ok := r.Resolve("rf")
	require.True(t, ok)
	byName, ok := r.Resolve("reforge")
	require.True(t, ok)
	assert.Same(t, byName, byAlias)
}

func TestRegistryCommandsOrdered(t *testing.T) {
	r := DefaultRegistry()
	cmds := r.Commands()
	require.Len(t, cmds, len(BuiltinCommands()))
	assert.Equal(t, "reforge", cmds[0].Name)
	assert.Equal(t, "help", cmds[len(cmds)-1].Name)
}

func TestNewRegistryDuplicateName(t *testing.T) {
	_, err := NewRegistry([]Command{
		{Name: "reforge"},
		{Name: "reforge"},
	})
	assert.Error(t, err)
}

func TestNewRegistryDuplicateAlias(t *testing.T) {
	_, err := NewRegistry([]Command{
		{Name: "reforge", Aliases: []string{"rf"}},
		{Name: "refit", Aliases: []string{"rf"}},
	})
	assert.Error(t, err)
}

func TestNewRegistryAliasCollidesWithName(t *testing.T) {
	_, err := NewRegistry([]Command{
		{Name: "reforge"},
		{Name: "refit", Aliases: []string{"reforge"}},
	})
	assert.Error(t, err)
}
