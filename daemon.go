package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/tischda/chordkeys/internal/dispatch"
	"github.com/tischda/chordkeys/internal/dom"
	"github.com/tischda/chordkeys/internal/dom/memdom"
	"github.com/tischda/chordkeys/internal/logging"
	"github.com/tischda/chordkeys/internal/registry"
	"github.com/tischda/chordkeys/internal/target"
)

// commandAttribute names the command an element runs when clicked.
const commandAttribute = "data-command"

// daemon owns the document the key sources feed and the registry bound to it.
type daemon struct {
	path   string
	page   bool
	launch func(cmd []string) (int, error)

	// docMu serializes key delivery and reloads; memdom is single-threaded.
	docMu sync.Mutex
	doc   *memdom.Document
	reg   *registry.Registry

	lastMu sync.Mutex
	last   dispatch.Activation
}

// newDaemon builds a daemon over doc. page marks a document loaded from
// markup, whose data-hotkey elements are bound on every reload.
func newDaemon(path string, doc *memdom.Document, page bool, launch func([]string) (int, error)) *daemon {
	d := &daemon{
		path:   path,
		page:   page,
		launch: launch,
		doc:    doc,
	}
	d.reg = registry.New(doc,
		registry.WithLogger(logger.With().Str("component", "registry").Logger()),
		registry.WithActivationHook(d.activated),
	)
	if page {
		d.wireClicks()
	}
	return d
}

// loadDocument returns the in-memory document, parsed from page when set.
func loadDocument(page string) (*memdom.Document, error) {
	if page == "" {
		return memdom.New(), nil
	}
	f, err := os.Open(page)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck
	doc, err := memdom.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", page, err)
	}
	return doc, nil
}

// wireClicks makes page elements react to clicks: elements with a
// data-command launch it, the others are logged.
func (d *daemon) wireClicks() {
	for _, el := range d.doc.QueryAll(dom.HotkeyAttribute) {
		e, ok := el.(*memdom.Element)
		if !ok {
			continue
		}
		e.OnClick(func(e *memdom.Element) {
			cmd, ok := e.Attr(commandAttribute)
			if !ok || strings.TrimSpace(cmd) == "" {
				logger.Info().Str("element", describeElement(e)).Msg("Clicked")
				return
			}
			d.run(strings.Fields(cmd))
		})
	}
}

func describeElement(e *memdom.Element) string {
	s := "<" + e.Tag()
	if id := e.ID(); id != "" {
		s += "#" + id
	}
	s += ">"
	if text := strings.TrimSpace(e.Text()); text != "" {
		s += " " + text
	}
	return s
}

// commandAction returns the target launching cmd.
func (d *daemon) commandAction(cmd []string) *target.Action {
	return target.NewAction(strings.Join(cmd, " "), func() { d.run(cmd) })
}

func (d *daemon) run(cmd []string) {
	pid, err := d.launch(cmd)
	if err != nil {
		logger.Error().Err(err).Strs("action", cmd).Msg("Command failed")
		return
	}
	logger.Info().Strs("action", cmd).Int("pid", pid).Msg("Executing")
}

func (d *daemon) activated(a dispatch.Activation) {
	d.lastMu.Lock()
	d.last = a
	d.lastMu.Unlock()
	ipcSendf("activated %s -> %s", a.Sequence, a.Target)
}

// lastActivation returns the most recent activation, zero if none.
func (d *daemon) lastActivation() dispatch.Activation {
	d.lastMu.Lock()
	defer d.lastMu.Unlock()
	return d.last
}

// reload replaces every binding with the content of the binding file and,
// for a page document, its data-hotkey elements. A file that cannot be
// decoded leaves the current bindings in place.
func (d *daemon) reload() error {
	file, err := loadConfig(d.path)
	if err != nil {
		return err
	}

	d.docMu.Lock()
	defer d.docMu.Unlock()

	d.reg.Reset()
	bound, errs := applyBindings(d.reg, file, d.commandAction)
	for _, err := range errs {
		logger.Warn().Err(err).Msg("Skipping invalid binding")
	}
	if d.page {
		if err := d.reg.ProcessAll(false); err != nil {
			for _, err := range splitJoined(err) {
				logger.Warn().Err(err).Msg("Skipping invalid page binding")
			}
		}
	}
	logger.Info().Int("bindings", bound).Int("sequences", d.reg.Len()).Str("path", d.path).Msg("Loaded and registered bindings")
	return nil
}

// keyDown delivers one key press to the document.
func (d *daemon) keyDown(code int, mods memdom.Mods) *memdom.KeyEvent {
	d.docMu.Lock()
	defer d.docMu.Unlock()
	return d.doc.KeyDown(code, mods)
}

// withDocument runs fn with exclusive access to the document.
func (d *daemon) withDocument(fn func(doc *memdom.Document)) {
	d.docMu.Lock()
	defer d.docMu.Unlock()
	fn(d.doc)
}

// splitJoined flattens an errors.Join result.
func splitJoined(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}

// runDaemon loads the bindings and feeds key events from the configured
// source until the context is cancelled, the process is interrupted or the
// source stops.
func runDaemon(ctx context.Context, s Settings) error {
	source, err := newKeySource(s.Source)
	if err != nil {
		return err
	}

	var logOut io.Writer
	if pane, ok := source.(interface{ logWriter() io.Writer }); ok && s.LogFile == "" {
		logOut = pane.logWriter()
	}
	closer, err := setupLogging(s, logOut)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	if closer != nil {
		defer closer.Close() //nolint:errcheck
	}

	logger.Info().Str("source", s.Source).Msg("Starting hotkey daemon...")

	doc, err := loadDocument(s.Page)
	if err != nil {
		return err
	}
	d := newDaemon(s.File, doc, s.Page != "", executeCommand)

	ipcInitFromEnv()
	defer ipcClose()

	if err := d.reload(); err != nil {
		return fmt.Errorf("load config %s: %w", s.File, err)
	}
	d.reg.Enable()
	defer d.reg.Dispose()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	ctx = logging.WithContext(ctx, logger)
	watcher, err := startConfigWatcherWithNotifier(logging.WithComponent(ctx, "watcher"), s.File, func() {
		if err := d.reload(); err != nil {
			logger.Error().Err(err).Str("path", s.File).Msg("Failed to load config")
		}
	})
	if err != nil {
		logger.Warn().Err(err).Msg("Config watcher disabled")
	} else {
		g.Go(func() error {
			<-ctx.Done()
			return watcher.Close()
		})
	}

	g.Go(func() error {
		defer cancel()
		return source.Run(ctx, d)
	})

	err = g.Wait()
	logger.Info().Msg("Exiting...")
	return err
}
