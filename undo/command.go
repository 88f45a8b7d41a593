package undo

import "time"

// Command is an ordered, named group of actions committed to a History as
// a single undo/redo unit. Identifier is an opaque value used to decide
// merge eligibility (see History.EndCommand); it must be comparable with
// == (the engine will panic if it is not, e.g. a slice or map — use a
// string, int, or other comparable value).
type Command struct {
	identifier any
	actions    []Action

	// CommittedAt records when the command was finalized by EndCommand.
	// It is metadata only; it plays no role in apply/revert semantics.
	CommittedAt time.Time
}

// Identifier returns the command's opaque identifier.
func (c *Command) Identifier() any {
	return c.identifier
}

// Len returns the number of actions in the command.
func (c *Command) Len() int {
	return len(c.actions)
}

// addAction appends a to the command's action list. The caller is
// responsible for having already called a.Apply() — History.AddAction
// does so immediately after recording, per spec.
func (c *Command) addAction(a Action) {
	c.actions = append(c.actions, a)
}

// lastAction returns the last-inserted action, or nil if the command has
// none yet.
func (c *Command) lastAction() Action {
	if len(c.actions) == 0 {
		return nil
	}
	return c.actions[len(c.actions)-1]
}

// Label returns a_description for the command built from the actions it
// contains: the first action that implements Describer wins, falling back
// to a generic "%v" rendering of the identifier.
func (c *Command) Label() string {
	for _, a := range c.actions {
		if d, ok := a.(Describer); ok {
			if desc := d.Description(); desc != "" {
				return desc
			}
		}
	}
	return formatIdentifier(c.identifier)
}

func formatIdentifier(id any) string {
	if id == nil {
		return "(unnamed command)"
	}
	if s, ok := id.(string); ok {
		return s
	}
	if s, ok := id.(interface{ String() string }); ok {
		return s.String()
	}
	return anyToString(id)
}

// execute replays the command's actions forward, in insertion order. If
// Apply fails at index k, actions k-1..0 are reverted in reverse order and
// the original failure is propagated; on success, all actions end up
// applied and on failure the command's net effect on observable state is
// nil (the rollback restores everything the partial execute had done).
func (c *Command) execute() error {
	for k, a := range c.actions {
		if err := a.Apply(); err != nil {
			for j := k - 1; j >= 0; j-- {
				_ = c.actions[j].Revert()
			}
			return err
		}
	}
	return nil
}

// rollback is the symmetric inverse of execute: it reverts actions from
// last to first. If Revert fails at index k, actions k+1..last are
// re-applied forward to restore the fully-applied state, and the original
// failure is propagated.
func (c *Command) rollback() error {
	for k := len(c.actions) - 1; k >= 0; k-- {
		if err := c.actions[k].Revert(); err != nil {
			for j := k + 1; j < len(c.actions); j++ {
				_ = c.actions[j].Apply()
			}
			return err
		}
	}
	return nil
}

// merge appends other's actions to this command's action list. Used by
// History.EndCommand when finalizing a mergeable command whose identifier
// matches the command already on top of the cursor.
func (c *Command) merge(other *Command) {
	c.actions = append(c.actions, other.actions...)
}
