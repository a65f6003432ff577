package editor

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/eoauman/sylman/internal/form"
	"github.com/eoauman/sylman/internal/form/assemble"
	"github.com/eoauman/sylman/internal/form/richtext"
	"github.com/eoauman/sylman/internal/syllabus"
	"github.com/eoauman/sylman/pkg/logger"
	"github.com/eoauman/sylman/pkg/metrics"
)

// ErrSaveInFlight rejects a manual save while another save is still talking
// to the server. Autosave ticks hitting the same window are dropped silently.
var ErrSaveInFlight = errors.New("a save is already in progress")

// ValidationError aborts a manual save before any network call. Autosave
// never validates; drafts persist with empty required fields.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "required fields are empty: " + strings.Join(e.Missing, ", ")
}

// State is the engine's sync status.
type State int

const (
	StateIdle State = iota
	StateAutosavePending
	StateSaving
)

// Options tunes the engine; zero values fall back to the defaults below.
type Options struct {
	Interval    time.Duration // autosave period
	StatusReset time.Duration // how long a success message stays up
}

const (
	defaultInterval    = 60 * time.Second
	defaultStatusReset = 4 * time.Second
)

// Engine drives the save lifecycle: assemble, create-or-update, snapshot.
// At most one save is in flight at a time. The cached syllabus id and the
// last-saved snapshot are written only after the server confirms, so a failed
// save leaves the next attempt with the same decision to make.
type Engine struct {
	root      *form.Node
	bridge    *richtext.Bridge
	populator *assemble.Populator
	gw        *Gateway

	mu         sync.Mutex
	session    SessionContext
	lastSaved  *syllabus.Document
	saving     bool
	armed      bool
	stop       chan struct{}
	status     func(string)
	resetTimer *time.Timer

	interval    time.Duration
	statusReset time.Duration
	now         func() time.Time
}

func NewEngine(root *form.Node, bridge *richtext.Bridge, populator *assemble.Populator, gw *Gateway, session SessionContext, opts Options) *Engine {
	if opts.Interval <= 0 {
		opts.Interval = defaultInterval
	}
	if opts.StatusReset <= 0 {
		opts.StatusReset = defaultStatusReset
	}
	e := &Engine{
		root:        root,
		bridge:      bridge,
		populator:   populator,
		gw:          gw,
		session:     session,
		interval:    opts.Interval,
		statusReset: opts.StatusReset,
		now:         time.Now,
	}
	if bridge != nil {
		bridge.SetChangeListener(func(string) { e.NotifyChange() })
	}
	return e
}

// SetStatusListener registers the status-line callback ("Autosaving...",
// "Autosaved at 15:04:05", error text). Success messages clear themselves.
func (e *Engine) SetStatusListener(fn func(string)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.status = fn
}

// Session returns the current session context.
func (e *Engine) Session() SessionContext {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session
}

// State reports the engine's sync status.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch {
	case e.saving:
		return StateSaving
	case e.armed:
		return StateAutosavePending
	default:
		return StateIdle
	}
}

// Load fetches the session's document and populates the form. The post-load
// assembly becomes the change-gate snapshot, so an autosave tick right after
// loading is a no-op. A draft session populates an empty document instead.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	id := e.session.SyllabusID
	e.mu.Unlock()

	doc := &syllabus.Document{}
	if id != "" {
		fetched, err := e.gw.FetchByID(ctx, id)
		if err != nil {
			return err
		}
		doc = fetched
	}
	doc.Normalize()
	e.populator.Populate(doc)
	e.bridge.SyncAll()

	snapshot := assemble.Assemble(e.root)
	snapshot.LastEdited = ""
	e.mu.Lock()
	e.lastSaved = snapshot
	e.mu.Unlock()
	return nil
}

// NotifyChange arms autosave. The first edit after construction (or after a
// confirmed submit) starts the ticker; later calls are no-ops.
func (e *Engine) NotifyChange() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.armed {
		return
	}
	e.armed = true
	e.stop = make(chan struct{})
	go e.autosaveLoop(e.stop)
	logger.Debugf("editor: autosave armed, interval %s", e.interval)
}

// Stop halts the autosave loop. Safe to call when never armed.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.armed {
		return
	}
	e.armed = false
	close(e.stop)
}

func (e *Engine) autosaveLoop(stop chan struct{}) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), e.interval)
			if err := e.save(ctx, true); err != nil {
				logger.Warnf("editor: autosave failed: %v", err)
			}
			cancel()
		}
	}
}

// ManualSave assembles, validates the required scalars, and saves now. Unlike
// autosave it is not change-gated; an unchanged document still round-trips.
// A confirmed manual save also stops the autosave loop until the next edit.
func (e *Engine) ManualSave(ctx context.Context) error {
	return e.save(ctx, false)
}

func (e *Engine) save(ctx context.Context, autosave bool) error {
	trigger := "manual"
	if autosave {
		trigger = "auto"
	}

	e.mu.Lock()
	if e.saving {
		e.mu.Unlock()
		if autosave {
			metrics.AutosaveDropped.Inc()
			logger.Debugf("editor: autosave tick dropped, save in flight")
			return nil
		}
		return ErrSaveInFlight
	}
	e.saving = true
	session := e.session
	last := e.lastSaved
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.saving = false
		e.mu.Unlock()
	}()

	e.bridge.SyncAll()
	doc := assemble.Assemble(e.root)

	if autosave && last != nil && reflect.DeepEqual(doc, last) {
		metrics.AutosaveSkipped.Inc()
		logger.Debugf("editor: document unchanged, autosave skipped")
		return nil
	}

	if !autosave {
		if missing := doc.MissingRequired(); len(missing) > 0 {
			verr := &ValidationError{Missing: missing}
			e.setStatus("Save failed: " + verr.Error())
			return verr
		}
	}

	if autosave {
		e.setStatus("Autosaving...")
	} else {
		e.setStatus("Saving...")
	}

	stamped := doc.Clone()
	stamped.LastEdited = e.now().Format(time.RFC3339)

	op := "update"
	var err error
	newID := session.SyllabusID
	if session.Draft() {
		op = "create"
		newID, err = e.gw.Create(ctx, session.UserID, stamped, autosave)
	} else {
		err = e.gw.Update(ctx, session.SyllabusID, stamped, autosave)
	}

	if err != nil {
		metrics.SaveFailures.WithLabelValues(trigger).Inc()
		if errors.Is(err, ErrStaleID) {
			// The document was deleted out from under us; forget the id so
			// the next save creates a fresh one.
			e.mu.Lock()
			e.session.SyllabusID = ""
			e.mu.Unlock()
			logger.Warnf("editor: cached syllabus id rejected by server, reverting to draft")
		}
		e.setStatus("Save failed: " + err.Error())
		return err
	}

	e.mu.Lock()
	e.session.SyllabusID = newID
	e.lastSaved = doc
	if !autosave && e.armed {
		// A confirmed submit ends the autosave cycle; the next edit re-arms.
		e.armed = false
		close(e.stop)
	}
	e.mu.Unlock()

	metrics.SavesTotal.WithLabelValues(op, trigger).Inc()
	stampTime := e.now().Format("15:04:05")
	if autosave {
		e.setStatusTransient("Autosaved at " + stampTime)
	} else {
		e.setStatusTransient("Saved at " + stampTime)
	}
	return nil
}

// SaveProgramOnly sends the narrow program partial used when only the
// selector changed. Drafts have nothing server-side to patch and return nil.
func (e *Engine) SaveProgramOnly(ctx context.Context, program string) error {
	e.mu.Lock()
	session := e.session
	e.mu.Unlock()
	if session.Draft() {
		return nil
	}
	err := e.gw.UpdateProgram(ctx, session.SyllabusID, program)
	if errors.Is(err, ErrStaleID) {
		e.mu.Lock()
		e.session.SyllabusID = ""
		e.mu.Unlock()
	}
	return err
}

func (e *Engine) setStatus(msg string) {
	e.mu.Lock()
	fn := e.status
	if e.resetTimer != nil {
		e.resetTimer.Stop()
		e.resetTimer = nil
	}
	e.mu.Unlock()
	if fn != nil {
		fn(msg)
	}
}

// setStatusTransient shows a message, then clears it after the reset delay
// unless something replaces it first.
func (e *Engine) setStatusTransient(msg string) {
	e.setStatus(msg)
	e.mu.Lock()
	e.resetTimer = time.AfterFunc(e.statusReset, func() {
		e.mu.Lock()
		fn := e.status
		e.resetTimer = nil
		e.mu.Unlock()
		if fn != nil {
			fn("")
		}
	})
	e.mu.Unlock()
}

// LastSaved returns a copy of the last confirmed snapshot, nil before any
// successful save or load.
func (e *Engine) LastSaved() *syllabus.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.lastSaved == nil {
		return nil
	}
	return e.lastSaved.Clone()
}
