package undoinspect_test

import (
	"testing"

	"github.com/tidwall/gjson"

	"github.com/halden-systems/undoengine/undo"
	"github.com/halden-systems/undoengine/undocell"
	"github.com/halden-systems/undoengine/undoinspect"
)

func commit(t *testing.T, h *undo.History, id any, c *undocell.Cell[int], v int, mergeable bool) {
	t.Helper()
	if err := h.BeginCommand(id); err != nil {
		t.Fatalf("BeginCommand(%v): %v", id, err)
	}
	if err := c.Set(v); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := h.EndCommand(mergeable); err != nil {
		t.Fatalf("EndCommand(%v): %v", id, err)
	}
}

func TestDescribe(t *testing.T) {
	h := undo.New()
	c := undocell.New(0, 0)

	commit(t, h, "edit.1", c, 1, false)
	commit(t, h, "edit.2", c, 2, false)
	h.SetSavePoint()

	report, err := undoinspect.Describe(h)
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}

	if got := gjson.Get(report, "count").Int(); got != 2 {
		t.Fatalf("count = %d, want 2", got)
	}
	if got := gjson.Get(report, "cursor").Int(); got != 1 {
		t.Fatalf("cursor = %d, want 1", got)
	}
	if got := gjson.Get(report, "hasUnsavedChanges").Bool(); got {
		t.Fatalf("hasUnsavedChanges = true, want false right after SetSavePoint")
	}
	if got := gjson.Get(report, "commands.0.identifier").String(); got != "edit.1" {
		t.Fatalf("commands.0.identifier = %q, want edit.1", got)
	}
	if got := gjson.Get(report, "commands.1.actions").Int(); got != 1 {
		t.Fatalf("commands.1.actions = %d, want 1", got)
	}

	pretty := undoinspect.Pretty(report)
	if len(pretty) < len(report) {
		t.Fatalf("Pretty output shorter than compact report")
	}
}

func TestFilterByIdentifier(t *testing.T) {
	h := undo.New()
	c := undocell.New(0, 0)

	commit(t, h, "edit.title", c, 1, false)
	commit(t, h, "edit.body", c, 2, false)
	commit(t, h, "layout.resize", c, 3, false)

	views, err := undoinspect.FilterByIdentifier(h, "edit.*")
	if err != nil {
		t.Fatalf("FilterByIdentifier: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("len(views) = %d, want 2", len(views))
	}
	for _, v := range views {
		if v.Identifier != "edit.title" && v.Identifier != "edit.body" {
			t.Fatalf("unexpected identifier %q matched pattern edit.*", v.Identifier)
		}
	}
}
