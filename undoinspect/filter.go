package undoinspect

import (
	"fmt"
	"time"

	"github.com/tidwall/match"

	"github.com/halden-systems/undoengine/undo"
)

// CommandView is a read-only summary of one committed command, as
// returned by FilterByIdentifier.
type CommandView struct {
	Index       int
	Identifier  string
	Label       string
	Actions     int
	CommittedAt time.Time
}

// FilterByIdentifier returns a view of every committed command in h whose
// identifier (rendered with %v) matches the glob pattern (e.g. "edit.*").
func FilterByIdentifier(h *undo.History, pattern string) ([]CommandView, error) {
	var views []CommandView
	n := h.Count()
	for i := 0; i < n; i++ {
		id, err := h.IdentifierAt(i)
		if err != nil {
			return nil, fmt.Errorf("undoinspect: filter: %w", err)
		}
		s := fmt.Sprintf("%v", id)
		if !match.Match(s, pattern) {
			continue
		}
		label, err := h.CommandLabel(i)
		if err != nil {
			return nil, fmt.Errorf("undoinspect: filter: %w", err)
		}
		cmd, err := h.CommandAt(i)
		if err != nil {
			return nil, fmt.Errorf("undoinspect: filter: %w", err)
		}
		views = append(views, CommandView{
			Index:       i,
			Identifier:  s,
			Label:       label,
			Actions:     cmd.Len(),
			CommittedAt: cmd.CommittedAt,
		})
	}
	return views, nil
}
