package ast

import (
	"testing"

	"github.com/sambeau/tansy/pkg/tansy/gui"
	"github.com/sambeau/tansy/pkg/tansy/registry"
	"github.com/sambeau/tansy/pkg/tansy/runtime"
)

func TestWindowDeclarationCreatesWindow(t *testing.T) {
	env, _ := newTestEnv()

	NewWindow("wnd1", "Main", []string{"400", "300"}).Execute(env)

	w := gui.Windows(env).Get("wnd1")
	if w == nil {
		t.Fatal("window wnd1 should exist")
	}
	if w.Title() != "Main" {
		t.Errorf("title = %q, want \"Main\"", w.Title())
	}
	width, height := w.Size()
	if width != 400 || height != 300 {
		t.Errorf("size = %dx%d, want 400x300", width, height)
	}
	if env.Surface == nil {
		t.Error("declaring a window should bring the surface up")
	}
	if w.Visible() {
		t.Error("a declared window starts hidden until shown")
	}
}

func TestWindowDeclarationSingleSizeIsSquare(t *testing.T) {
	env, _ := newTestEnv()

	NewWindow("wnd1", "", []string{"250"}).Execute(env)

	width, height := gui.Windows(env).Get("wnd1").Size()
	if width != 250 || height != 250 {
		t.Errorf("size = %dx%d, want 250x250", width, height)
	}
}

func TestWindowDeclarationDefaults(t *testing.T) {
	env, _ := newTestEnv()

	NewWindow("wnd1", "", nil).Execute(env)

	w := gui.Windows(env).Get("wnd1")
	if w.Title() != gui.DefaultWindowTitle {
		t.Errorf("title = %q, want the default", w.Title())
	}
	width, height := w.Size()
	if width != 300 || height != 300 {
		t.Errorf("size = %dx%d, want 300x300", width, height)
	}
}

func TestWindowDeclarationResolvesTitleReference(t *testing.T) {
	env, _ := newTestEnv()
	env.Vars.Set("t", "Hello")

	NewWindow("wnd1", "<t_value>", nil).Execute(env)

	if got := gui.Windows(env).Get("wnd1").Title(); got != "Hello" {
		t.Errorf("title = %q, want \"Hello\"", got)
	}
}

func TestWindowDeclarationWithoutNameDoesNothing(t *testing.T) {
	env, _ := newTestEnv()

	NewWindow("", "Main", nil).Execute(env)

	if _, ok := env.Store(runtime.StoreWindows); ok {
		t.Error("no window store should be installed without a name")
	}
	if env.Surface != nil {
		t.Error("no surface should come up without a window")
	}
}

func TestWindowActions(t *testing.T) {
	env, _ := newTestEnv()
	NewWindow("wnd1", "Main", nil).Execute(env)
	w := gui.Windows(env).Get("wnd1")

	NewWindowAction("wnd1", "show").Execute(env)
	if !w.Visible() {
		t.Fatal("window should be visible after show")
	}

	NewWindowAction("wnd1", "hide").Execute(env)
	if w.Visible() {
		t.Fatal("window should be hidden after hide")
	}

	title := NewWindowAction("wnd1", "title")
	title.Value = "Renamed"
	title.Execute(env)
	if w.Title() != "Renamed" {
		t.Errorf("title = %q, want \"Renamed\"", w.Title())
	}

	size := NewWindowAction("wnd1", "size")
	size.Size = []string{"640", "480"}
	size.Execute(env)
	if width, height := w.Size(); width != 640 || height != 480 {
		t.Errorf("size = %dx%d, want 640x480", width, height)
	}

	square := NewWindowAction("wnd1", "size")
	square.Size = []string{"500"}
	square.Execute(env)
	if width, height := w.Size(); width != 500 || height != 500 {
		t.Errorf("size = %dx%d, want 500x500", width, height)
	}

	NewWindowAction("wnd1", "close").Execute(env)
	if !w.Destroyed() {
		t.Error("window should be destroyed after close")
	}
}

func TestWindowActionResolvesTitle(t *testing.T) {
	env, _ := newTestEnv()
	env.Vars.Set("t", "From Var")
	NewWindow("wnd1", "Main", nil).Execute(env)

	node := NewWindowAction("wnd1", "title")
	node.Value = "<t_value>"
	node.Execute(env)

	if got := gui.Windows(env).Get("wnd1").Title(); got != "From Var" {
		t.Errorf("title = %q, want \"From Var\"", got)
	}
}

func TestWindowActionWithoutStoreIsNoOp(t *testing.T) {
	env, _ := newTestEnv()

	NewWindowAction("wnd1", "show").Execute(env)

	if _, ok := env.Store(runtime.StoreWindows); ok {
		t.Error("acting on an undeclared window must not install the store")
	}
}

func TestWindowActionUnknownWindowIsNoOp(t *testing.T) {
	env, _ := newTestEnv()
	NewWindow("wnd1", "Main", nil).Execute(env)

	NewWindowAction("ghost", "show").Execute(env)

	if gui.Windows(env).Get("wnd1").Visible() {
		t.Error("the wrong window must stay untouched")
	}
}

func TestButtonDeclarationAttachesToParent(t *testing.T) {
	env, _ := newTestEnv()
	NewWindow("wnd1", "Main", nil).Execute(env)

	NewButton(map[string]string{
		"name":   "btn1",
		"text":   "Go",
		"parent": "wnd1",
		"x":      "10",
		"y":      "20",
	}).Execute(env)

	b := gui.Buttons(env).Get("btn1")
	if b == nil {
		t.Fatal("button btn1 should exist")
	}
	if b.Text() != "Go" {
		t.Errorf("text = %q, want \"Go\"", b.Text())
	}
	if x, y := b.Position(); x != 10 || y != 20 {
		t.Errorf("position = %d,%d, want 10,20", x, y)
	}
	if children := gui.Windows(env).Get("wnd1").Children(); len(children) != 1 {
		t.Errorf("window children = %d, want 1", len(children))
	}

	b.Click()
	if !env.Events.Peek("btn1_click") {
		t.Error("clicking an attached button should fire its event")
	}
}

func TestButtonDeclarationWithoutParentStaysDetached(t *testing.T) {
	env, _ := newTestEnv()

	NewButton(map[string]string{"name": "btn1", "text": "Go"}).Execute(env)

	b := gui.Buttons(env).Get("btn1")
	if b == nil {
		t.Fatal("button should exist without a parent")
	}
	b.Click()
	if env.Events.Peek("btn1_click") {
		t.Error("a detached button click should not fire events")
	}
}

func TestButtonDeclarationAppliesStyleExtras(t *testing.T) {
	env, _ := newTestEnv()
	NewWindow("wnd1", "Main", nil).Execute(env)

	NewButton(map[string]string{
		"name":       "btn1",
		"parent":     "wnd1",
		"background": "red",
		"clickcolor": "blue",
	}).Execute(env)

	b := gui.Buttons(env).Get("btn1")
	if v, ok := b.Style("background"); !ok || v != "red" {
		t.Errorf("background = %q (%v), want \"red\"", v, ok)
	}
	if v, ok := b.Style("clickcolor"); !ok || v != "blue" {
		t.Errorf("clickcolor = %q (%v), want \"blue\"", v, ok)
	}
}

func TestButtonDeclarationResolvesText(t *testing.T) {
	env, _ := newTestEnv()
	env.Vars.Set("caption", "Press me")

	NewButton(map[string]string{"name": "btn1", "text": "<caption_value>"}).Execute(env)

	if got := gui.Buttons(env).Get("btn1").Text(); got != "Press me" {
		t.Errorf("text = %q, want \"Press me\"", got)
	}
}

func TestButtonEnabledAction(t *testing.T) {
	env, _ := newTestEnv()
	NewButton(map[string]string{"name": "btn1"}).Execute(env)
	b := gui.Buttons(env).Get("btn1")

	NewButtonAction("btn1", "enabled", "false").Execute(env)
	if b.Enabled() {
		t.Fatal("button should be disabled")
	}

	NewButtonAction("btn1", "enabled", "TRUE").Execute(env)
	if !b.Enabled() {
		t.Error("enabled compare should be case-insensitive")
	}
}

func TestButtonActionWithoutStoreIsNoOp(t *testing.T) {
	env, _ := newTestEnv()

	NewButtonAction("btn1", "text", "X").Execute(env)

	if _, ok := env.Store(runtime.StoreButtons); ok {
		t.Error("acting on an undeclared button must not install the store")
	}
}

func TestLabelDeclaration(t *testing.T) {
	env, _ := newTestEnv()
	NewWindow("wnd1", "Main", nil).Execute(env)

	NewLabel(map[string]string{
		"name":   "lbl1",
		"parent": "wnd1",
	}).Execute(env)

	l := gui.Labels(env).Get("lbl1")
	if l == nil {
		t.Fatal("label lbl1 should exist")
	}
	if l.Text() != "Label" {
		t.Errorf("text = %q, want the \"Label\" default", l.Text())
	}
	if children := gui.Windows(env).Get("wnd1").Children(); len(children) != 1 {
		t.Errorf("window children = %d, want 1", len(children))
	}
}

func TestEntryDeclarationWithPlaceholder(t *testing.T) {
	env, _ := newTestEnv()

	NewEntry(map[string]string{
		"name":        "field",
		"placeholder": "Type here",
	}).Execute(env)

	e := gui.Entries(env).Get("field")
	if e == nil {
		t.Fatal("entry field should exist")
	}
	if e.Placeholder() != "Type here" {
		t.Errorf("placeholder = %q, want \"Type here\"", e.Placeholder())
	}
	if e.Value() != "" {
		t.Errorf("value = %q, want empty while only the placeholder shows", e.Value())
	}
}

func TestEntryActions(t *testing.T) {
	env, _ := newTestEnv()
	NewEntry(map[string]string{"name": "field"}).Execute(env)
	e := gui.Entries(env).Get("field")

	NewEntryAction("field", "value", "typed").Execute(env)
	if e.Value() != "typed" {
		t.Fatalf("value = %q, want \"typed\"", e.Value())
	}

	NewEntryAction("field", "placeholder", "hint").Execute(env)
	if e.Placeholder() != "hint" {
		t.Errorf("placeholder = %q, want \"hint\"", e.Placeholder())
	}

	NewEntryAction("field", "readonly", "true").Execute(env)
	if !e.Readonly() {
		t.Error("entry should be readonly")
	}
}

func TestWidgetTextPrefersButtonOverLabel(t *testing.T) {
	env, _ := newTestEnv()
	NewButton(map[string]string{"name": "thing", "text": "B"}).Execute(env)
	NewLabel(map[string]string{"name": "thing", "text": "L"}).Execute(env)

	NewWidgetText("thing", "Updated").Execute(env)

	if got := gui.Buttons(env).Get("thing").Text(); got != "Updated" {
		t.Errorf("button text = %q, want \"Updated\"", got)
	}
	if got := gui.Labels(env).Get("thing").Text(); got != "L" {
		t.Errorf("label text = %q, want it untouched", got)
	}
}

func TestWidgetTextUpdatesLabel(t *testing.T) {
	env, _ := newTestEnv()
	env.Vars.Set("score", 12)
	NewLabel(map[string]string{"name": "lbl1", "text": "Score: 0"}).Execute(env)

	NewWidgetText("lbl1", "Score: <score_value>").Execute(env)

	if got := gui.Labels(env).Get("lbl1").Text(); got != "Score: 12" {
		t.Errorf("label text = %q, want \"Score: 12\"", got)
	}
}

func TestWidgetTextFillsEntryValue(t *testing.T) {
	env, _ := newTestEnv()
	NewEntry(map[string]string{"name": "field"}).Execute(env)

	NewWidgetText("field", "typed").Execute(env)

	if got := gui.Entries(env).Get("field").Value(); got != "typed" {
		t.Errorf("entry value = %q, want \"typed\"", got)
	}
}

func TestWidgetTextUnknownWidgetIsNoOp(t *testing.T) {
	env, _ := newTestEnv()

	NewWidgetText("ghost", "X").Execute(env)

	if _, ok := env.Store(runtime.StoreButtons); ok {
		t.Error("probing must not install stores")
	}
}

func TestDynamicActionInvokesWindowMethod(t *testing.T) {
	env, _ := newTestEnv()
	reg := registry.NewBuiltin()
	NewWindow("wnd1", "Main", nil).Execute(env)
	NewWindowAction("wnd1", "show").Execute(env)

	node := NewDynamicAction(reg, "wnd1")
	node.Action = "hide"
	node.Execute(env)

	if gui.Windows(env).Get("wnd1").Visible() {
		t.Error("dynamic hide should reach the window")
	}
}

func TestDynamicActionInvokesButtonVerbWithValue(t *testing.T) {
	env, _ := newTestEnv()
	reg := registry.NewBuiltin()
	NewButton(map[string]string{"name": "btn1", "text": "Old"}).Execute(env)

	node := NewDynamicAction(reg, "btn1")
	node.Action = "text"
	node.Value = "New"
	node.HasValue = true
	node.Execute(env)

	if got := gui.Buttons(env).Get("btn1").Text(); got != "New" {
		t.Errorf("text = %q, want \"New\"", got)
	}
}

func TestDynamicActionSetsProperty(t *testing.T) {
	env, _ := newTestEnv()
	reg := registry.NewBuiltin()
	NewLabel(map[string]string{"name": "lbl1"}).Execute(env)

	node := NewDynamicAction(reg, "lbl1")
	node.Property = "foreground"
	node.Value = "#ff0000"
	node.HasValue = true
	node.Execute(env)

	if got := gui.Labels(env).Get("lbl1").Foreground(); got != "#ff0000" {
		t.Errorf("foreground = %q, want \"#ff0000\"", got)
	}
}

func TestDynamicActionResolvesValue(t *testing.T) {
	env, _ := newTestEnv()
	reg := registry.NewBuiltin()
	env.Vars.Set("msg", "Hi")
	NewButton(map[string]string{"name": "btn1"}).Execute(env)

	node := NewDynamicAction(reg, "btn1")
	node.Action = "text"
	node.Value = "<msg_value>"
	node.HasValue = true
	node.Execute(env)

	if got := gui.Buttons(env).Get("btn1").Text(); got != "Hi" {
		t.Errorf("text = %q, want \"Hi\"", got)
	}
}

func TestDynamicActionUnknownElementIsNoOp(t *testing.T) {
	env, _ := newTestEnv()
	reg := registry.NewBuiltin()

	node := NewDynamicAction(reg, "zzz9")
	node.Action = "show"
	node.Execute(env)

	if _, ok := env.Store(runtime.StoreWindows); ok {
		t.Error("unknown elements must not install stores")
	}
}

func TestDynamicActionMissingElementIsNoOp(t *testing.T) {
	env, _ := newTestEnv()
	reg := registry.NewBuiltin()
	NewWindow("wnd1", "Main", nil).Execute(env)

	node := NewDynamicAction(reg, "wnd9")
	node.Action = "show"
	node.Execute(env)

	if gui.Windows(env).Get("wnd1").Visible() {
		t.Error("a missing element must not act on another window")
	}
}
