//go:build gui

package main

import (
	"context"
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/metcalfc/nightreader/internal/config"
	"github.com/metcalfc/nightreader/internal/controller"
	"github.com/metcalfc/nightreader/internal/document"
	"github.com/metcalfc/nightreader/internal/logging"
)

// scrollPane adapts a container.Scroll to controller.Pane.
type scrollPane struct {
	scroll *container.Scroll
	moved  bool
}

func (p *scrollPane) ScrollHeight() int { return int(p.scroll.Content.Size().Height) }
func (p *scrollPane) ClientHeight() int { return int(p.scroll.Size().Height) }
func (p *scrollPane) ScrollTop() int    { return int(p.scroll.Offset.Y) }

func (p *scrollPane) SetScrollTop(top int) {
	if int(p.scroll.Offset.Y) == top {
		return
	}
	p.scroll.Offset = fyne.NewPos(p.scroll.Offset.X, float32(top))
	p.scroll.Refresh()
	p.moved = true
}

// fyneClipboard writes through the app clipboard on the UI goroutine.
func fyneClipboard(a fyne.App) controller.Clipboard {
	return controller.ClipboardFunc(func(text string) error {
		// fyne's clipboard API reports no errors.
		fyne.DoAndWait(func() { a.Clipboard().SetContent(text) })
		return nil
	})
}

type window struct {
	ctrl *controller.Controller
	pane *scrollPane
	win  fyne.Window

	list      *widget.List
	title     *widget.Label
	body      *widget.Label
	slider    *widget.Slider
	copyBtn   *widget.Button
	exportBtn *widget.Button
	status    *widget.Label
	entries   []controller.Entry

	// rendering is set while widgets are updated from state so their
	// change callbacks are not mistaken for user input.
	rendering bool
}

func echoScroll() tea.Msg { return controller.ScrollMsg{} }

// send applies msg on the UI goroutine, redraws and schedules follow-up work.
func (w *window) send(msg tea.Msg) {
	cmd := w.ctrl.Update(msg)
	if w.pane.moved {
		w.pane.moved = false
		cmd = tea.Batch(echoScroll, cmd)
	}
	w.render()
	w.run(cmd)
}

// run executes cmd off the UI goroutine and delivers its result back on it.
func (w *window) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	go func() {
		switch msg := cmd().(type) {
		case nil:
		case tea.BatchMsg:
			for _, c := range msg {
				w.run(c)
			}
		default:
			fyne.Do(func() { w.send(msg) })
		}
	}()
}

func (w *window) render() {
	w.rendering = true
	defer func() { w.rendering = false }()

	state := w.ctrl.State()
	w.entries = w.ctrl.Entries()
	w.list.Refresh()
	if state.ActiveIndex < 0 {
		w.list.UnselectAll()
	}

	w.title.SetText(state.Title)
	if w.body.Text != state.Body {
		w.body.SetText(state.Body)
	}
	w.slider.SetValue(float64(state.SliderValue))

	for _, d := range []fyne.Disableable{w.copyBtn, w.exportBtn, w.slider} {
		if state.ControlsEnabled {
			d.Enable()
		} else {
			d.Disable()
		}
	}

	w.status.SetText(state.Status.Text)
	switch state.Status.Tone {
	case controller.ToneError:
		w.status.Importance = widget.DangerImportance
	case controller.ToneInfo:
		w.status.Importance = widget.SuccessImportance
	default:
		w.status.Importance = widget.MediumImportance
	}
	w.status.Refresh()
}

func (w *window) openFile() {
	open := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, w.win)
			return
		}
		if r == nil {
			return
		}
		path := r.URI().Path()
		r.Close()
		w.send(controller.FileSelectedMsg{Path: path})
	}, w.win)
	open.SetFilter(storage.NewExtensionFileFilter(document.SupportedExtensions()))
	open.Show()
}

func (w *window) build() fyne.CanvasObject {
	w.list = widget.NewList(
		func() int { return len(w.entries) },
		func() fyne.CanvasObject {
			return container.NewVBox(widget.NewLabel("Title"), widget.NewLabel("Preview"))
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			e := w.entries[id]
			vbox := obj.(*fyne.Container)
			label := vbox.Objects[0].(*widget.Label)
			preview := vbox.Objects[1].(*widget.Label)

			label.SetText(e.Label)
			label.TextStyle.Bold = e.Active
			label.Refresh()
			preview.SetText(e.Preview)
			preview.Truncation = fyne.TextTruncateEllipsis
		},
	)
	w.list.OnSelected = func(id widget.ListItemID) {
		if w.rendering || id >= len(w.entries) || w.entries[id].Placeholder {
			return
		}
		w.send(controller.SelectChapterMsg{Index: id})
	}

	w.title = widget.NewLabel("")
	w.title.TextStyle.Bold = true
	w.body = widget.NewLabel("")
	w.body.Wrapping = fyne.TextWrapWord

	scroll := container.NewVScroll(w.body)
	scroll.OnScrolled = func(fyne.Position) { w.send(controller.ScrollMsg{}) }
	w.pane.scroll = scroll

	w.slider = widget.NewSlider(0, 100)
	w.slider.Step = 1
	w.slider.OnChanged = func(v float64) {
		if w.rendering {
			return
		}
		w.send(controller.SliderInputMsg{Value: int(v)})
	}

	w.copyBtn = widget.NewButton("Copy", func() { w.send(controller.CopyMsg{}) })
	w.exportBtn = widget.NewButton("Export", func() { w.send(controller.ExportMsg{}) })
	w.status = widget.NewLabel("")
	w.status.Wrapping = fyne.TextWrapWord

	toolbar := container.NewHBox(
		widget.NewButton("Open...", w.openFile),
		w.copyBtn,
		w.exportBtn,
	)
	reader := container.NewBorder(w.title, w.slider, nil, nil, scroll)

	split := container.NewHSplit(container.NewBorder(widget.NewLabel("Chapters"), nil, nil, nil, w.list), reader)
	split.Offset = 0.3

	return container.NewBorder(toolbar, w.status, nil, nil, split)
}

func read(_ context.Context, cfg *config.Config) int {
	logger, closeLog, err := logging.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()

	opts, err := readerOptions(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	a := app.NewWithID("com.metcalfc.nightreader")
	opts.Clipboard = fyneClipboard(a)

	w := &window{pane: &scrollPane{}, win: a.NewWindow("nightreader")}
	content := w.build()
	opts.Pane = w.pane
	w.ctrl = controller.New(opts)

	w.win.Canvas().SetOnTypedRune(func(r rune) {
		switch r {
		case 'c':
			w.send(controller.CopyMsg{})
		case 'e':
			w.send(controller.ExportMsg{})
		case '[':
			w.send(controller.SliderInputMsg{Value: w.ctrl.State().SliderValue - 10})
		case ']':
			w.send(controller.SliderInputMsg{Value: w.ctrl.State().SliderValue + 10})
		case 'q':
			a.Quit()
		}
	})

	w.win.SetContent(content)
	w.win.Resize(fyne.NewSize(1000, 700))
	w.render()

	if cfg.File != "" {
		w.send(controller.FileSelectedMsg{Path: cfg.File})
	}

	w.win.ShowAndRun()
	return 0
}
