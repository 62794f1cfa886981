package gui

import (
	"fmt"

	"github.com/sambeau/tansy/pkg/tansy/runtime"
)

// DefaultWindowTitle is used when a window declaration carries no title.
const DefaultWindowTitle = "Tansy Window"

// Window is a top-level container. It starts hidden; show makes it
// visible and close destroys it. Operations on a destroyed window are
// discarded rather than erroring, matching how scripts treat windows
// the user already dismissed.
type Window struct {
	name      string
	title     string
	width     int
	height    int
	visible   bool
	destroyed bool
	children  []runtime.Element
}

// NewWindow creates a hidden window.
func NewWindow(name, title string, width, height int) *Window {
	return &Window{name: name, title: title, width: width, height: height}
}

func (w *Window) Name() string { return w.name }

// Title returns the current window title.
func (w *Window) Title() string { return w.title }

// Size returns the current width and height.
func (w *Window) Size() (int, int) { return w.width, w.height }

// Visible reports whether the window is shown.
func (w *Window) Visible() bool { return w.visible && !w.destroyed }

// Destroyed reports whether the window has been closed for good.
func (w *Window) Destroyed() bool { return w.destroyed }

// Children returns the widgets attached to this window.
func (w *Window) Children() []runtime.Element { return w.children }

// AddChild attaches a widget to this window.
func (w *Window) AddChild(el runtime.Element) {
	w.children = append(w.children, el)
}

// Show makes the window visible, creating it on first call.
func (w *Window) Show() {
	if w.destroyed {
		return
	}
	w.visible = true
}

// Hide withdraws the window without destroying it.
func (w *Window) Hide() {
	if w.destroyed {
		return
	}
	w.visible = false
}

// Close destroys the window. A closed window ignores later operations.
func (w *Window) Close() {
	w.visible = false
	w.destroyed = true
}

// SetTitle updates the window title.
func (w *Window) SetTitle(title string) {
	if w.destroyed {
		return
	}
	w.title = title
}

// SetSize updates the window geometry. A non-positive height reuses the
// width, so a single-valued size attribute sets a square window.
func (w *Window) SetSize(width, height int) {
	if w.destroyed {
		return
	}
	if height <= 0 {
		height = width
	}
	w.width = width
	w.height = height
}

// SetProperty implements runtime.Settable for title and size.
func (w *Window) SetProperty(name string, value any) bool {
	switch name {
	case "title":
		w.SetTitle(toText(value))
		return true
	case "size":
		if width, height, ok := dimensions(value); ok {
			w.SetSize(width, height)
		}
		return true
	}
	return false
}

// Invoke implements runtime.Actionable for the window verbs.
func (w *Window) Invoke(verb string, arg any) bool {
	switch verb {
	case "show":
		w.Show()
	case "hide":
		w.Hide()
	case "close", "exit":
		w.Close()
	case "title":
		return w.SetProperty("title", arg)
	case "size":
		return w.SetProperty("size", arg)
	default:
		return false
	}
	return true
}

func (w *Window) String() string {
	return fmt.Sprintf("<window name=%q title=%q size=\"%dx%d\">", w.name, w.title, w.width, w.height)
}

// WindowStore keeps every declared window by name. Creating the first
// window brings up the shared surface and installs it in the
// environment, which is what switches the run into windowed mode.
type WindowStore struct {
	env     *runtime.Env
	windows map[string]*Window
	order   []string
	surface *Surface
}

// NewWindowStore creates an empty store bound to env.
func NewWindowStore(env *runtime.Env) *WindowStore {
	return &WindowStore{env: env, windows: make(map[string]*Window)}
}

func (s *WindowStore) ensureSurface() *Surface {
	if s.surface == nil {
		s.surface = NewSurface()
		if s.env != nil && s.env.Surface == nil {
			s.env.Surface = s.surface
		}
	}
	return s.surface
}

// Surface returns the shared surface, creating it if needed.
func (s *WindowStore) Surface() *Surface {
	return s.ensureSurface()
}

// Create declares a window. Redeclaring a name replaces the window.
func (s *WindowStore) Create(name, title string, width, height int) *Window {
	s.ensureSurface()
	if title == "" {
		title = DefaultWindowTitle
	}
	if width <= 0 {
		width = 300
	}
	if height <= 0 {
		height = 300
	}
	w := NewWindow(name, title, width, height)
	if _, exists := s.windows[name]; !exists {
		s.order = append(s.order, name)
	}
	s.windows[name] = w
	return w
}

// Get returns the named window, or nil.
func (s *WindowStore) Get(name string) *Window {
	return s.windows[name]
}

// Exists reports whether a window with this name was declared.
func (s *WindowStore) Exists(name string) bool {
	_, ok := s.windows[name]
	return ok
}

// Names returns the declared window names in declaration order.
func (s *WindowStore) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Find implements runtime.Lookup.
func (s *WindowStore) Find(name string) (runtime.Element, bool) {
	w, ok := s.windows[name]
	if !ok {
		return nil, false
	}
	return w, true
}

// CloseAll destroys every window and the surface with them.
func (s *WindowStore) CloseAll() {
	for _, name := range s.order {
		s.windows[name].Close()
	}
	if s.surface != nil {
		s.surface.Close()
	}
}
