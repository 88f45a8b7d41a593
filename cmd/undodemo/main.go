// Command undodemo is a tiny terminal line editor that exercises the
// undo engine end to end: every edit becomes a command on a real
// undo.History, Ctrl-Z/Ctrl-Y drive Undo/Redo, and the document is a
// live undoseq.Sequence[string] with an undocell.Cell[string] status
// line shown in the footer.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/halden-systems/undoengine/undo"
	"github.com/halden-systems/undoengine/undocell"
	"github.com/halden-systems/undoengine/undoinspect"
	"github.com/halden-systems/undoengine/undoseq"
)

func main() {
	os.Exit(run())
}

func run() int {
	printJSON := flag.Bool("json", false, "on exit, print an undoinspect JSON report of the session's history")
	pretty := flag.Bool("pretty", false, "pretty-print the --json report")
	flag.Parse()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "undodemo: create screen: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "undodemo: init screen: %v\n", err)
		return 1
	}
	defer screen.Fini()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		screen.Fini()
		os.Exit(0)
	}()

	ed := newEditor()

	for {
		ed.draw(screen)
		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			if ed.handleKey(ev) == actionQuit {
				screen.Fini()
				if *printJSON {
					report, err := undoinspect.Describe(ed.history)
					if err == nil {
						if *pretty {
							report = undoinspect.Pretty(report)
						}
						fmt.Println(report)
					}
				}
				return 0
			}
		}
	}
}

type keyAction int

const (
	actionNone keyAction = iota
	actionQuit
)

// editor is the demo's whole application state: a history, the document
// lines, a status cell, and the line currently being typed.
type editor struct {
	history *undo.History
	lines   *undoseq.Sequence[string]
	status  *undocell.Cell[string]

	input    []rune
	selected int
}

func newEditor() *editor {
	h := undo.New(undo.WithSizeLimit(200))
	return &editor{
		history: h,
		lines:   undoseq.New[string](nil, false),
		status:  undocell.New("ready", 0),
	}
}

func (e *editor) handleKey(ev *tcell.EventKey) keyAction {
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		return actionQuit
	case tcell.KeyCtrlZ:
		e.undo()
	case tcell.KeyCtrlY:
		e.redo()
	case tcell.KeyCtrlS:
		e.history.SetSavePoint()
		e.setStatus("saved")
	case tcell.KeyCtrlK:
		e.deleteSelected()
	case tcell.KeyUp:
		if e.selected > 0 {
			e.selected--
		}
	case tcell.KeyDown:
		if e.selected < e.lines.Len()-1 {
			e.selected++
		}
	case tcell.KeyEnter:
		e.commitLine()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(e.input) > 0 {
			e.input = e.input[:len(e.input)-1]
		}
	case tcell.KeyRune:
		e.input = append(e.input, ev.Rune())
	}
	return actionNone
}

func (e *editor) commitLine() {
	if len(e.input) == 0 {
		return
	}
	text := string(e.input)
	e.input = nil

	if err := e.history.BeginCommand("insert-line"); err != nil {
		e.setStatus(fmt.Sprintf("error: %v", err))
		return
	}
	if err := e.lines.Add(text); err != nil {
		_ = e.history.CancelCommand()
		e.setStatus(fmt.Sprintf("error: %v", err))
		return
	}
	if err := e.history.EndCommand(false); err != nil {
		e.setStatus(fmt.Sprintf("error: %v", err))
		return
	}
	e.selected = e.lines.Len() - 1
	e.setStatus("line added")
}

func (e *editor) deleteSelected() {
	if e.lines.Len() == 0 {
		return
	}
	if err := e.history.BeginCommand("delete-line"); err != nil {
		e.setStatus(fmt.Sprintf("error: %v", err))
		return
	}
	if err := e.lines.RemoveAt(e.selected); err != nil {
		_ = e.history.CancelCommand()
		e.setStatus(fmt.Sprintf("error: %v", err))
		return
	}
	if err := e.history.EndCommand(false); err != nil {
		e.setStatus(fmt.Sprintf("error: %v", err))
		return
	}
	if e.selected >= e.lines.Len() {
		e.selected = e.lines.Len() - 1
	}
	e.setStatus("line deleted")
}

// setStatus writes the status cell through its own tiny command so it
// participates in undo like everything else the user does.
func (e *editor) setStatus(s string) {
	if err := e.history.BeginCommand("status"); err != nil {
		return
	}
	_ = e.status.Set(s)
	_ = e.history.EndCommand(true)
}

func (e *editor) undo() {
	if err := e.history.Undo(); err != nil {
		e.setStatus(fmt.Sprintf("undo: %v", err))
		return
	}
	e.setStatus("undone")
}

func (e *editor) redo() {
	if err := e.history.Redo(); err != nil {
		e.setStatus(fmt.Sprintf("redo: %v", err))
		return
	}
	e.setStatus("redone")
}

func (e *editor) draw(screen tcell.Screen) {
	screen.Clear()
	width, height := screen.Size()

	lines := e.lines.ToSlice()
	for i, line := range lines {
		style := tcell.StyleDefault
		if i == e.selected {
			style = style.Reverse(true)
		}
		drawString(screen, 0, i, line, style)
	}

	inputRow := height - 2
	drawString(screen, 0, inputRow, "> "+string(e.input), tcell.StyleDefault)

	footer := fmt.Sprintf("%s | cmds=%d pos=%d undo=%v redo=%v | ^Z undo ^Y redo ^K delete ^S save Enter add Esc quit",
		e.status.Get(), e.history.Count(), e.history.Position(), e.history.CanUndo(), e.history.CanRedo())
	if len(footer) > width {
		footer = footer[:width]
	}
	drawString(screen, 0, height-1, footer, tcell.StyleDefault.Reverse(true))

	screen.ShowCursor(2+len(e.input), inputRow)
	screen.Show()
}

func drawString(screen tcell.Screen, x, y int, s string, style tcell.Style) {
	for i, r := range s {
		screen.SetContent(x+i, y, r, nil, style)
	}
}
