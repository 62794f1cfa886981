package registry

import (
	"strings"
	"testing"
)

func TestGetByNameAndAlias(t *testing.T) {
	r := NewBuiltin()

	tests := []struct {
		lookup   string
		expected string
	}{
		{"window", "window"},
		{"wnd", "window"},
		{"win", "window"},
		{"button", "button"},
		{"btn", "button"},
		{"variable", "var"},
		{"txt", "entry"},
		{"print", "output"},
		{"noquit", "noterminate"},
	}

	for _, tt := range tests {
		def, ok := r.Get(tt.lookup)
		if !ok {
			t.Errorf("Get(%q): expected a definition", tt.lookup)
			continue
		}
		if def.Name != tt.expected {
			t.Errorf("Get(%q): expected %q, got %q", tt.lookup, tt.expected, def.Name)
		}
	}

	if _, ok := r.Get("nosuchtag"); ok {
		t.Error("Get(nosuchtag): expected no definition")
	}
}

func TestCanonicalName(t *testing.T) {
	r := NewBuiltin()

	if got := r.CanonicalName("btn"); got != "button" {
		t.Errorf("expected %q, got %q", "button", got)
	}
	if got := r.CanonicalName("window"); got != "window" {
		t.Errorf("expected %q, got %q", "window", got)
	}
	if got := r.CanonicalName("mystery"); got != "mystery" {
		t.Errorf("expected %q, got %q", "mystery", got)
	}
}

func TestInferElementType(t *testing.T) {
	r := NewBuiltin()

	tests := []struct {
		name     string
		expected string
	}{
		{"btn7", "button"},
		{"wnd1", "window"},
		{"win_main", "window"},
		{"ent2", "entry"},
		{"txt_field", "entry"},
		{"lbl_status", "label"},
		{"button", "button"},
		{"btn", "button"},
	}

	for _, tt := range tests {
		def, ok := r.InferElementType(tt.name)
		if !ok {
			t.Errorf("InferElementType(%q): expected a definition", tt.name)
			continue
		}
		if def.Name != tt.expected {
			t.Errorf("InferElementType(%q): expected %q, got %q", tt.name, tt.expected, def.Name)
		}
	}

	if _, ok := r.InferElementType("zzz9"); ok {
		t.Error("InferElementType(zzz9): expected no match")
	}
	// frm maps to frame, which has no registered definition.
	if _, ok := r.InferElementType("frm2"); ok {
		t.Error("InferElementType(frm2): expected no match")
	}
}

func TestCanBeChildOf(t *testing.T) {
	r := NewBuiltin()

	tests := []struct {
		child    string
		parent   string
		expected bool
	}{
		{"button", "window", true},
		{"button", "gui", true},
		{"button", "label", false},
		{"entry", "window", true},
		{"var", "window", true},
		{"unknowntag", "window", true},
	}

	for _, tt := range tests {
		if got := r.CanBeChildOf(tt.child, tt.parent); got != tt.expected {
			t.Errorf("CanBeChildOf(%q, %q): expected %v, got %v",
				tt.child, tt.parent, tt.expected, got)
		}
	}
}

func TestByCategory(t *testing.T) {
	r := NewBuiltin()

	widgets := r.ByCategory(CategoryWidget)
	if len(widgets) != 3 {
		t.Fatalf("expected 3 widget tags, got %d", len(widgets))
	}
	names := make([]string, len(widgets))
	for i, w := range widgets {
		names[i] = w.Name
	}
	joined := strings.Join(names, ",")
	if joined != "button,entry,label" {
		t.Errorf("expected button,entry,label in registration order, got %s", joined)
	}
}

func TestAllPatternsCaching(t *testing.T) {
	r := NewBuiltin()

	first := r.AllPatterns()
	if len(first) == 0 {
		t.Fatal("expected compiled patterns")
	}

	second := r.AllPatterns()
	if len(second) != len(first) {
		t.Errorf("cached call changed length: %d vs %d", len(first), len(second))
	}

	// Registering invalidates the cache.
	r.Register(&TagDef{
		Name:     "sprite",
		Category: CategoryWidget,
		Patterns: []Pattern{{Expr: `<sprite\s+(.+)>`, Handler: "sprite.declare"}},
	})
	third := r.AllPatterns()
	if len(third) != len(first)+1 {
		t.Errorf("expected %d patterns after register, got %d", len(first)+1, len(third))
	}
}

func TestAllPatternsSkipsBadRegex(t *testing.T) {
	r := New()
	r.Register(&TagDef{
		Name:     "broken",
		Category: CategoryMeta,
		Patterns: []Pattern{
			{Expr: `<broken(`, Handler: "broken.open"},
			{Expr: `<broken>`, Handler: "broken.ok"},
		},
	})

	patterns := r.AllPatterns()
	if len(patterns) != 1 {
		t.Fatalf("expected 1 compiled pattern, got %d", len(patterns))
	}
	if patterns[0].Handler != "broken.ok" {
		t.Errorf("expected the valid pattern to survive, got %q", patterns[0].Handler)
	}
}

func TestPropertyAndMethodLookup(t *testing.T) {
	r := NewBuiltin()

	prop, ok := r.PropertyFor("btn1", "text")
	if !ok {
		t.Fatal("expected btn1 text property")
	}
	if prop.Default != "Button" {
		t.Errorf("expected default %q, got %v", "Button", prop.Default)
	}

	if _, ok := r.PropertyFor("btn1", "volume"); ok {
		t.Error("expected no volume property on button")
	}

	m, ok := r.MethodFor("wnd1", "show")
	if !ok {
		t.Fatal("expected wnd1 show method")
	}
	if m.Name != "show" {
		t.Errorf("expected method show, got %q", m.Name)
	}

	if !r.HasEvent("btn1", "click") {
		t.Error("expected button click event")
	}
	if r.HasEvent("lbl1", "click") {
		t.Error("expected no click event on label")
	}
}

func TestAnalyzeLinePropertySet(t *testing.T) {
	a := NewAnalyzer(NewBuiltin())

	result := a.AnalyzeLine(`<btn1_text="Hello">`)
	if result.ElementName != "btn1" {
		t.Errorf("expected element btn1, got %q", result.ElementName)
	}
	if result.Property != "text" {
		t.Errorf("expected property text, got %q", result.Property)
	}
	if result.Value != "Hello" || !result.HasValue {
		t.Errorf("expected value Hello, got %q (has=%v)", result.Value, result.HasValue)
	}
	if result.Action != "" {
		t.Errorf("expected no action, got %q", result.Action)
	}
}

func TestAnalyzeLineAction(t *testing.T) {
	a := NewAnalyzer(NewBuiltin())

	result := a.AnalyzeLine("<wnd1_show>")
	if result.ElementName != "wnd1" {
		t.Errorf("expected element wnd1, got %q", result.ElementName)
	}
	if result.Action != "show" {
		t.Errorf("expected action show, got %q", result.Action)
	}
	if result.HasValue {
		t.Error("expected no value")
	}

	result = a.AnalyzeLine("<btn1_click>")
	if result.Action != "click" {
		t.Errorf("expected event treated as action, got %q", result.Action)
	}
}

func TestAnalyzeLineUnknownElementGuesses(t *testing.T) {
	a := NewAnalyzer(NewBuiltin())

	result := a.AnalyzeLine(`<zzz_color="red">`)
	if result.Property != "color" {
		t.Errorf("expected value form to guess property, got %q", result.Property)
	}

	result = a.AnalyzeLine("<zzz_poke>")
	if result.Action != "poke" {
		t.Errorf("expected bare form to guess action, got %q", result.Action)
	}
}

func TestAnalyzeLineDeclaration(t *testing.T) {
	a := NewAnalyzer(NewBuiltin())

	result := a.AnalyzeLine(`<window title="T" name="w1" size="300","200">`)
	if result.Tag != "window" {
		t.Errorf("expected tag window, got %q", result.Tag)
	}
	if result.ElementName != "w1" {
		t.Errorf("expected element w1, got %q", result.ElementName)
	}

	symbols := a.Symbols()
	if sym, ok := symbols["w1"]; !ok || sym.Tag != "window" {
		t.Errorf("expected w1 recorded as window, got %+v", symbols)
	}
}

func TestAnalyzeLineReferences(t *testing.T) {
	a := NewAnalyzer(NewBuiltin())

	result := a.AnalyzeLine(`<var name="x" value="<y_value> and <z_value>">`)
	if len(result.References) != 2 || result.References[0] != "y" || result.References[1] != "z" {
		t.Errorf("expected references [y z], got %v", result.References)
	}
}

func TestAnalyzeLineSkipsCommentsAndBlanks(t *testing.T) {
	a := NewAnalyzer(NewBuiltin())

	for _, line := range []string{"", "   ", "# comment", "// comment"} {
		result := a.AnalyzeLine(line)
		if result.Tag != "" || result.ElementName != "" {
			t.Errorf("AnalyzeLine(%q): expected zero analysis, got %+v", line, result)
		}
	}
}

func TestCheckPlacement(t *testing.T) {
	a := NewAnalyzer(NewBuiltin())

	a.CheckPlacement("button", "window")
	if len(a.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", a.Warnings)
	}

	a.CheckPlacement("button", "label")
	if len(a.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(a.Warnings))
	}
	if !strings.Contains(a.Warnings[0], "button") {
		t.Errorf("warning should name the tag: %q", a.Warnings[0])
	}
}

func TestCompletions(t *testing.T) {
	a := NewAnalyzer(NewBuiltin())

	completions := a.Completions("btn1")
	want := map[string]bool{
		"btn1_text":    false,
		"btn1_click":   false,
		"btn1_enabled": false,
	}
	for _, c := range completions {
		if _, ok := want[c]; ok {
			want[c] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("expected completion %q in %v", name, completions)
		}
	}

	if got := a.Completions("zzz"); got != nil {
		t.Errorf("expected no completions for unknown element, got %v", got)
	}
}
