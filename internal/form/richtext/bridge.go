package richtext

import (
	"sort"
	"sync"

	"github.com/eoauman/sylman/internal/form"
	"github.com/eoauman/sylman/pkg/logger"
)

// Editor is the rich-text editor surface the bridge manages. Real deployments
// bind a browser editor; tests and the CLI use PlainEditor.
type Editor interface {
	Content() string
	SetContent(string)
	OnChange(func())
}

// Config describes one attachment: the visible container the editor mounts
// on, the hidden value-of-record node, and a constructor for the editor.
type Config struct {
	ContainerID string
	HiddenID    string
	New         func() Editor
}

type binding struct {
	editor      Editor
	containerID string
	hiddenID    string
}

// Bridge maintains the one-to-one mapping from logical field ids to editor
// instances and their hidden value-of-record nodes. Assembly never reads an
// editor directly; SyncAll must run first so the hidden nodes are current.
type Bridge struct {
	mu       sync.Mutex
	root     *form.Node
	bindings map[string]*binding
	onChange func(fieldID string)
}

func NewBridge(root *form.Node) *Bridge {
	return &Bridge{root: root, bindings: map[string]*binding{}}
}

// SetChangeListener registers a callback fired when any attached editor
// reports a change (the engine uses this to start autosave on first
// interaction).
func (b *Bridge) SetChangeListener(fn func(fieldID string)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onChange = fn
}

// Attach creates (or returns) the editor for a field id. Attaching an
// already-attached id is deliberately idempotent: repeated initialization
// passes, e.g. after instructor-list regeneration, must not stack duplicate
// editors. The new editor is seeded from the hidden node's current value.
func (b *Bridge) Attach(fieldID string, cfg Config) (Editor, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if existing, ok := b.bindings[fieldID]; ok {
		logger.Warnf("richtext: %q already attached, returning existing editor", fieldID)
		return existing.editor, nil
	}

	container := b.root.FindByID(cfg.ContainerID)
	if container == nil {
		logger.Warnf("richtext: container %q missing, skipping attach of %q", cfg.ContainerID, fieldID)
		return nil, ErrMissingNode
	}
	hidden := b.root.FindByID(cfg.HiddenID)
	if hidden == nil {
		logger.Warnf("richtext: hidden field %q missing, skipping attach of %q", cfg.HiddenID, fieldID)
		return nil, ErrMissingNode
	}

	ed := cfg.New()
	ed.SetContent(hidden.Value)
	ed.OnChange(func() {
		b.mu.Lock()
		fn := b.onChange
		b.mu.Unlock()
		if fn != nil {
			fn(fieldID)
		}
	})
	b.bindings[fieldID] = &binding{editor: ed, containerID: cfg.ContainerID, hiddenID: cfg.HiddenID}
	return ed, nil
}

// Detach removes the mapping and releases the change listener. Callers must
// detach instructor-indexed editors before regenerating a shrunken list, or
// the orphaned editors keep firing change events.
func (b *Bridge) Detach(fieldID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	bind, ok := b.bindings[fieldID]
	if !ok {
		return
	}
	bind.editor.OnChange(nil)
	delete(b.bindings, fieldID)
}

// Seed writes content into both the attached editor and its hidden node
// without firing the change listener, the way population must not count as a
// user edit.
func (b *Bridge) Seed(fieldID, content string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	bind, ok := b.bindings[fieldID]
	if !ok {
		logger.Warnf("richtext: %q not attached, skipping seed", fieldID)
		return
	}
	bind.editor.SetContent(content)
	if hidden := b.root.FindByID(bind.hiddenID); hidden != nil {
		hidden.Value = content
	}
}

// Attached reports whether a field id currently has an editor.
func (b *Bridge) Attached(fieldID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.bindings[fieldID]
	return ok
}

// SyncAll copies every attached editor's content into its hidden node,
// synchronously. Ids whose hidden node has left the tree are warned about
// and skipped; one bad id never aborts the pass.
func (b *Bridge) SyncAll() {
	b.mu.Lock()
	defer b.mu.Unlock()

	ids := make([]string, 0, len(b.bindings))
	for id := range b.bindings {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		bind := b.bindings[id]
		hidden := b.root.FindByID(bind.hiddenID)
		if hidden == nil {
			logger.Warnf("richtext: hidden field %q gone, skipping sync of %q", bind.hiddenID, id)
			continue
		}
		hidden.Value = bind.editor.Content()
	}
}
