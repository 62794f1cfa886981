package compiler

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sambeau/tansy/pkg/tansy/ast"
	"github.com/sambeau/tansy/pkg/tansy/gui"
	"github.com/sambeau/tansy/pkg/tansy/runtime"
)

type captureLogger struct {
	lines []string
}

func (l *captureLogger) Log(values ...interface{}) {
	l.lines = append(l.lines, fmt.Sprint(values...))
}

func (l *captureLogger) LogLine(values ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintln(values...))
}

// printed returns the logged lines without trailing newlines.
func (l *captureLogger) printed() []string {
	out := make([]string, 0, len(l.lines))
	for _, line := range l.lines {
		out = append(out, strings.TrimRight(line, "\n"))
	}
	return out
}

func newTestEnv() (*runtime.Env, *captureLogger) {
	env := runtime.NewEnv()
	log := &captureLogger{}
	env.Log = log
	return env, log
}

// runSource parses and executes a script against a fresh context.
func runSource(t *testing.T, source string) (*runtime.Env, *captureLogger) {
	t.Helper()
	env, log := newTestEnv()
	New(nil).Parse(source).Execute(env)
	return env, log
}

func wantPrinted(t *testing.T, log *captureLogger, want ...string) {
	t.Helper()
	got := strings.Join(log.printed(), "|")
	if got != strings.Join(want, "|") {
		t.Errorf("printed %q, want %q", log.printed(), want)
	}
}

func TestParseRunsStatementsInOrder(t *testing.T) {
	_, log := runSource(t, `
<output "one">
<output "two">
<output "three">
`)
	wantPrinted(t, log, "one", "two", "three")
}

func TestParseSkipsBlanksAndComments(t *testing.T) {
	root := New(nil).Parse(`
# a comment
// another comment

<output "kept">
`)
	if len(root.Children()) != 1 {
		t.Fatalf("root has %d children, want 1", len(root.Children()))
	}
}

func TestMatchIgnoresTrailingText(t *testing.T) {
	// Rules match from the start of the line only; whatever follows a
	// complete statement is ignored.
	_, log := runSource(t, `<output "hi"> and some trailing words`)
	wantPrinted(t, log, "hi")
}

func TestQuotedConditionOpensBlock(t *testing.T) {
	// The increment leaves x as a number, so the comparison is numeric.
	_, log := runSource(t, `
<var name="x" value="4">
<x_value++>
<if condition="<x_value> == 5">
<output "matched">
</if>
<output "after">
`)
	wantPrinted(t, log, "matched", "after")
}

func TestQuotedConditionFalseSkipsBlock(t *testing.T) {
	_, log := runSource(t, `
<var name="x" value="4">
<x_value++>
<if condition="<x_value> == 6">
<output "skipped">
</if>
<output "after">
`)
	wantPrinted(t, log, "after")
}

func TestUnquotedConditionOpensBlock(t *testing.T) {
	_, log := runSource(t, `
<var name="answer" value="yes">
<if condition=<answer_value>=="yes">
<output "confirmed">
</if>
`)
	wantPrinted(t, log, "confirmed")
}

func TestNestedBlocksRestoreCursor(t *testing.T) {
	_, log := runSource(t, `
<loop count="2" var="i">
<if condition="<i_value> == 1">
<output "second pass">
</if>
<output "tick <i_value>">
</loop>
<output "done">
`)
	wantPrinted(t, log, "tick 0", "second pass", "tick 1", "done")
}

func TestEventConditionalThroughParser(t *testing.T) {
	c := New(nil)
	root := c.Parse(`
<if event="<btn1_click>">
<output "clicked">
</if>
`)
	env, log := newTestEnv()
	env.Events.Fire("btn1_click")

	root.Execute(env)

	wantPrinted(t, log, "clicked")
	if env.Events.Peek("btn1_click") {
		t.Error("event flag should be consumed")
	}
}

func TestLoopRangeThroughParser(t *testing.T) {
	_, log := runSource(t, `
<loop from="2" to="4" var="n">
<output "<n_value>">
</loop>
`)
	wantPrinted(t, log, "2", "3", "4")
}

func TestForeverBlockParsesWithoutRunning(t *testing.T) {
	root := New(nil).Parse(`
<forever interval="50">
<output "tick">
</forever>
<output "done">
`)

	children := root.Children()
	if len(children) != 2 {
		t.Fatalf("root has %d children, want 2", len(children))
	}
	forever, ok := children[0].(*ast.ForeverNode)
	if !ok {
		t.Fatalf("first child is %T, want ForeverNode", children[0])
	}
	if forever.Interval != 50 {
		t.Errorf("interval = %d, want 50", forever.Interval)
	}
	if len(forever.Children()) != 1 {
		t.Errorf("forever has %d children, want 1", len(forever.Children()))
	}
	if !ast.HasForever(root) {
		t.Error("HasForever should spot the loop")
	}
}

func TestForeverCloseReturnsToTopLevel(t *testing.T) {
	root := New(nil).Parse(`
<forever>
<output "inside">
</forever>
<output "outside">
`)
	if len(root.Children()) != 2 {
		t.Fatalf("root has %d children, want 2; the close should leave the block", len(root.Children()))
	}
}

func TestNamedConditional(t *testing.T) {
	_, log := runSource(t, `
<if_name="check">
<var name="x" value="0">
<x_value++>
<check condition="<x_value> == 1">
<output "hit">
</check>
`)
	wantPrinted(t, log, "hit")
}

func TestNamedLoop(t *testing.T) {
	_, log := runSource(t, `
<loop_name="thrice">
<thrice count="3">
<output "go">
</thrice>
`)
	wantPrinted(t, log, "go", "go", "go")
}

func TestNamedLoopRange(t *testing.T) {
	_, log := runSource(t, `
<loop_name="countdown">
<countdown from="-1" to="1" var="n">
<output "<n_value>">
</countdown>
`)
	wantPrinted(t, log, "-1", "0", "1")
}

func TestNamedBlock(t *testing.T) {
	c := New(nil)
	root := c.Parse(`
<block_name="setup">
<setup>
<output "inside">
</setup>
<output "outside">
`)
	env, log := newTestEnv()
	root.Execute(env)

	wantPrinted(t, log, "inside", "outside")
	if len(root.Children()) != 2 {
		t.Errorf("root has %d children, want block + output", len(root.Children()))
	}
	if kind, ok := c.Named("setup"); !ok || kind != "block" {
		t.Errorf("Named(setup) = %q, %v; want block, true", kind, ok)
	}
}

func TestUndeclaredNameDoesNotNest(t *testing.T) {
	// Using a never-declared name consumes the line without opening a
	// block, so the body runs unconditionally at the current level.
	_, log := runSource(t, `
<mystery condition="1 == 0">
<output "printed anyway">
</mystery>
`)
	wantPrinted(t, log, "printed anyway")
}

func TestPlainBlockGroupsStatements(t *testing.T) {
	root := New(nil).Parse(`
<block>
<output "a">
<output "b">
</block>
<output "c">
`)
	if len(root.Children()) != 2 {
		t.Fatalf("root has %d children, want 2", len(root.Children()))
	}
	if len(root.Children()[0].Children()) != 2 {
		t.Errorf("block has %d children, want 2", len(root.Children()[0].Children()))
	}
}

func TestNamedTableSurvivesAcrossParses(t *testing.T) {
	c := New(nil)
	c.Parse(`<if_name="chk">`)

	root := c.Parse(`
<chk condition="1 == 1">
<output "still declared">
</chk>
`)
	env, log := newTestEnv()
	root.Execute(env)
	wantPrinted(t, log, "still declared")

	c.Reset()
	if _, ok := c.Named("chk"); ok {
		t.Error("Reset should clear the named table")
	}
}

func TestCloseAtRootIsIgnored(t *testing.T) {
	_, log := runSource(t, `
</if>
<output "still here">
`)
	wantPrinted(t, log, "still here")
}

func TestUnknownCloseStaysPut(t *testing.T) {
	_, log := runSource(t, `
<loop count="2">
</zzz>
<output "looped">
</loop>
`)
	// </zzz> closes nothing, so the output stays inside the loop.
	wantPrinted(t, log, "looped", "looped")
}

func TestDynamicFallbackSetsUnruledProperty(t *testing.T) {
	env, _ := runSource(t, `
<window title="W" size="200" name="wnd1">
<label name="lbl1" text="Hi" parent="wnd1">
<lbl1_foreground="#ff0000">
`)
	label := gui.Labels(env).Get("lbl1")
	if label == nil {
		t.Fatal("label lbl1 not created")
	}
	if got := label.Foreground(); got != "#ff0000" {
		t.Errorf("foreground = %q, want #ff0000", got)
	}
}

func TestStrictModeRecordsDroppedLines(t *testing.T) {
	c := New(nil)
	c.SetStrict(true)
	c.Parse(`
<output "fine">
<bogus $$$>
`)

	diags := c.Diagnostics()
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %v", len(diags), diags)
	}
	if diags[0].Code != "PARSE-0001" {
		t.Errorf("code = %q, want PARSE-0001", diags[0].Code)
	}
	if diags[0].Line != 3 {
		t.Errorf("line = %d, want 3", diags[0].Line)
	}
}

func TestStrictModeFlagsUndeclaredNames(t *testing.T) {
	c := New(nil)
	c.SetStrict(true)
	c.Parse(`<mystery condition="1 == 1">`)

	diags := c.Diagnostics()
	if len(diags) != 1 || diags[0].Code != "PARSE-0003" {
		t.Fatalf("diagnostics = %v, want one PARSE-0003", diags)
	}
}

func TestStrictModeFlagsDanglingClose(t *testing.T) {
	c := New(nil)
	c.SetStrict(true)
	c.Parse(`</if>`)

	diags := c.Diagnostics()
	if len(diags) != 1 || diags[0].Code != "PARSE-0002" {
		t.Fatalf("diagnostics = %v, want one PARSE-0002", diags)
	}
}

func TestLenientModeCollectsNothing(t *testing.T) {
	c := New(nil)
	c.Parse(`
<bogus $$$>
</if>
`)
	if diags := c.Diagnostics(); len(diags) != 0 {
		t.Errorf("lenient parse recorded %v", diags)
	}
}

func TestDiagnosticsResetPerParse(t *testing.T) {
	c := New(nil)
	c.SetStrict(true)
	c.Parse(`<bogus $$$>`)
	c.Parse(`<output "clean">`)

	if diags := c.Diagnostics(); len(diags) != 0 {
		t.Errorf("second parse kept old diagnostics: %v", diags)
	}
}

func TestParseSurvivesGarbage(t *testing.T) {
	root := New(nil).Parse(`
<<<>>>
<window
random text without brackets
<if condition=
</>
`)
	if len(root.Children()) != 0 {
		t.Errorf("garbage produced %d nodes", len(root.Children()))
	}
}
