package undo_test

import (
	"errors"
	"testing"

	"github.com/halden-systems/undoengine/undo"
)

// failOnApplyAction fails Apply once applyFails is true; Revert always
// succeeds. Used to exercise Command's crash-rollback on a partial Execute.
type recordingAction struct {
	name       string
	log        *[]string
	applyFails bool
}

func (a *recordingAction) Apply() error {
	*a.log = append(*a.log, "apply:"+a.name)
	if a.applyFails {
		return errors.New(a.name + " failed")
	}
	return nil
}

func (a *recordingAction) Revert() error {
	*a.log = append(*a.log, "revert:"+a.name)
	return nil
}

func TestCrashRollbackOnPartialApply(t *testing.T) {
	h := undo.New()
	var log []string

	if err := h.BeginCommand("grouped"); err != nil {
		t.Fatalf("BeginCommand: %v", err)
	}
	_ = h.AddAction(&recordingAction{name: "a", log: &log})
	_ = h.AddAction(&recordingAction{name: "b", log: &log})
	if err := h.EndCommand(false); err != nil {
		t.Fatalf("EndCommand: %v", err)
	}

	// Now redo-replay the command with a third action that fails, via a
	// second command appended right after, to exercise execute()'s
	// mid-sequence rollback through SetPosition.
	if err := h.BeginCommand("grouped"); err != nil {
		t.Fatalf("BeginCommand: %v", err)
	}
	_ = h.AddAction(&recordingAction{name: "c", log: &log})
	_ = h.AddAction(&recordingAction{name: "d", log: &log, applyFails: true})
	if err := h.EndCommand(false); err != nil {
		t.Fatalf("EndCommand: %v", err)
	}

	log = nil
	if err := h.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	want := []string{"revert:d", "revert:c"}
	if !equalSlices(log, want) {
		t.Fatalf("log after undoing the failing command's sibling command = %v, want %v", log, want)
	}

	log = nil
	if err := h.Redo(); err == nil {
		t.Fatalf("Redo: want an error surfacing action d's Apply failure")
	}
	want = []string{"apply:c", "apply:d", "revert:c"}
	if !equalSlices(log, want) {
		t.Fatalf("log after redo = %v, want %v", log, want)
	}
}

func TestCrashRollbackOnPartialRevert(t *testing.T) {
	h := undo.New()
	var log []string

	if err := h.BeginCommand("grouped"); err != nil {
		t.Fatalf("BeginCommand: %v", err)
	}
	_ = h.AddAction(&recordingAction{name: "a", log: &log})
	_ = h.AddAction(&failingRevertAction{name: "b", log: &log})
	_ = h.AddAction(&recordingAction{name: "c", log: &log})
	if err := h.EndCommand(false); err != nil {
		t.Fatalf("EndCommand: %v", err)
	}

	log = nil
	if err := h.Undo(); err == nil {
		t.Fatalf("Undo: want an error surfacing action b's Revert failure")
	}
	want := []string{"revert:c", "revert:b", "apply:c"}
	if !equalSlices(log, want) {
		t.Fatalf("log = %v, want %v", log, want)
	}
}

type failingRevertAction struct {
	name string
	log  *[]string
}

func (a *failingRevertAction) Apply() error {
	*a.log = append(*a.log, "apply:"+a.name)
	return nil
}

func (a *failingRevertAction) Revert() error {
	*a.log = append(*a.log, "revert:"+a.name)
	return errors.New(a.name + " revert failed")
}

func equalSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
