// Package command provides the command registry, parser, and the text
// handlers for the reforging feature.
package command

// Categories for organizing commands.
const (
	CategoryReforge = "reforge"
	CategorySystem  = "system"
)

// Handler identifiers mapping commands to handler methods.
const (
	HandlerReforge    = "reforge"
	HandlerUnreforge  = "unreforge"
	HandlerAttributes = "attributes"
	HandlerHelp       = "help"
)

// Command defines a player-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Help is the short help text displayed to players.
	Help string
	// Category groups the command.
	Category string
	// Handler maps to the handler method.
	Handler string
}

// BuiltinCommands returns all built-in commands for the reforging feature.
func BuiltinCommands() []Command {
	return []Command{
		{Name: "reforge", Aliases: []string{"rf"}, Help: "Reforge an equipped item (reforge [slot] [from] [to])", Category: CategoryReforge, Handler: HandlerReforge},
		{Name: "unreforge", Aliases: []string{"urf"}, Help: "Remove a reforge from an equipped item (unreforge <slot>)", Category: CategoryReforge, Handler: HandlerUnreforge},
		{Name: "attributes", Aliases: []string{"attrs"}, Help: "List reforgeable attributes and the reforge cost", Category: CategoryReforge, Handler: HandlerAttributes},
		{Name: "help", Aliases: []string{"?"}, Help: "List available commands", Category: CategorySystem, Handler: HandlerHelp},
	}
}
