package undoinspect

import (
	"fmt"
	"time"

	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/halden-systems/undoengine/undo"
)

// Describe builds a JSON report of h's current state: cursor, count, size
// limit, save-point status, and one entry per committed command
// (identifier, label, action count, commit time). It never mutates h.
func Describe(h *undo.History) (string, error) {
	doc := "{}"
	var err error

	set := func(path string, value any) {
		if err != nil {
			return
		}
		doc, err = sjson.Set(doc, path, value)
	}

	set("cursor", h.Position())
	set("count", h.Count())
	set("size", h.Size())
	set("canUndo", h.CanUndo())
	set("canRedo", h.CanRedo())
	set("hasUnsavedChanges", h.HasUnsavedChanges())
	set("commandInProgress", h.IsCommandStarted())
	if err != nil {
		return "", fmt.Errorf("undoinspect: describe: %w", err)
	}

	n := h.Count()
	for i := 0; i < n; i++ {
		cmd, cerr := h.CommandAt(i)
		if cerr != nil {
			return "", fmt.Errorf("undoinspect: describe: %w", cerr)
		}
		label, lerr := h.CommandLabel(i)
		if lerr != nil {
			return "", fmt.Errorf("undoinspect: describe: %w", lerr)
		}
		base := fmt.Sprintf("commands.%d", i)
		set(base+".identifier", fmt.Sprintf("%v", cmd.Identifier()))
		set(base+".label", label)
		set(base+".actions", cmd.Len())
		set(base+".committedAt", cmd.CommittedAt.Format(time.RFC3339Nano))
		if err != nil {
			return "", fmt.Errorf("undoinspect: describe: %w", err)
		}
	}

	return doc, nil
}

// Pretty reformats a JSON report for human-readable terminal output.
func Pretty(report string) string {
	return string(pretty.Pretty([]byte(report)))
}
