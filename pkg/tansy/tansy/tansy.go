// Package tansy provides a public API for embedding the Tansy language
// interpreter. Compile parses source into a reusable Program; running
// one executes the tree against a fresh environment and returns a
// Result describing what the run left behind. The package also carries
// the stock Logger implementations hosts plug into a run.
package tansy

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sambeau/tansy/pkg/tansy/ast"
	"github.com/sambeau/tansy/pkg/tansy/compiler"
	"github.com/sambeau/tansy/pkg/tansy/errors"
	"github.com/sambeau/tansy/pkg/tansy/gui"
	"github.com/sambeau/tansy/pkg/tansy/registry"
	"github.com/sambeau/tansy/pkg/tansy/resolve"
	"github.com/sambeau/tansy/pkg/tansy/runtime"
)

// Options configures compilation and runs. The zero value parses
// leniently, seeds random sources from the clock, reads no console
// input, and logs to stdout.
type Options struct {
	// Strict records dropped lines, unknown closes and undeclared
	// named constructs as diagnostics. Execution is unchanged.
	Strict bool

	// Seed is the run-wide random seed. 0 seeds from the clock.
	// Declarations with their own seed attribute are unaffected.
	Seed int64

	// Interval is the default forever-loop interval in milliseconds
	// for loops that do not set their own. 0 keeps the built-in 100ms.
	Interval int

	// Logger receives all script output. Nil logs to stdout.
	Logger Logger

	// Input is the console input source for <input> statements and
	// variable prompts. Nil means no input is available.
	Input io.Reader

	// Registry overrides the tag table. Nil uses the builtin tags.
	Registry *registry.Registry

	// NoLoop skips the surface loop after the tree walk. Hosts that
	// drive ticks themselves, like an editor, set this; terminal runs
	// leave it off so windowed forever loops keep running.
	NoLoop bool
}

// Program is a compiled script, reusable across runs.
type Program struct {
	Root *ast.SequenceNode

	opts  Options
	diags []*errors.TansyError
}

// Compile parses source into a Program. Parsing never fails; lines
// nothing recognizes are dropped, and with Options.Strict they are
// reported through Diagnostics.
func Compile(source string, opts Options) *Program {
	c := compiler.New(opts.Registry)
	c.SetStrict(opts.Strict)
	root := c.Parse(source)
	return &Program{Root: root, opts: opts, diags: c.Diagnostics()}
}

// Diagnostics returns the problems recorded while compiling. Empty
// unless Options.Strict was set.
func (p *Program) Diagnostics() []*errors.TansyError {
	return p.diags
}

// Run executes the program against a fresh environment. The window
// store is installed before the walk, so element declarations in any
// order find it. After the walk, a run that registered forever loops
// and brought up a surface keeps driving the surface scheduler until
// ctx is cancelled or every window closes.
func (p *Program) Run(ctx context.Context) *Result {
	if ctx == nil {
		ctx = context.Background()
	}
	env := runtime.NewEnv()
	env.Ctx = ctx
	env.Seed = p.opts.Seed
	env.Interval = p.opts.Interval
	if p.opts.Logger != nil {
		env.Log = p.opts.Logger
	}
	if p.opts.Input != nil {
		env.Input = p.opts.Input
	}

	gui.Windows(env)

	p.Root.Execute(env)

	if !p.opts.NoLoop && len(env.ForeverLoops()) > 0 {
		if s, ok := env.Surface.(*gui.Surface); ok && s.Alive() {
			s.Run(ctx)
		}
	}

	return &Result{Env: env, Diagnostics: p.diags}
}

// Run compiles and executes source in one call.
func Run(ctx context.Context, source string, opts Options) *Result {
	return Compile(source, opts).Run(ctx)
}

// Result is what a run left behind: the final environment plus any
// compile diagnostics, for hosts that want both in one place.
type Result struct {
	Env         *runtime.Env
	Diagnostics []*errors.TansyError
}

// NoTerminate reports whether the script asked the console to stay
// open with <noterminate>.
func (r *Result) NoTerminate() bool {
	return r.Env.NoTerminate
}

// Var returns the final value of a variable, or nil when the script
// never declared it.
func (r *Result) Var(name string) any {
	return r.Env.Vars.Value(name)
}

// VarNames returns the script's variables in declaration order.
func (r *Result) VarNames() []string {
	return r.Env.Vars.Names()
}

// DumpVars writes the post-run variable dump through the run's logger,
// one name = value line per variable in declaration order. Runs that
// declared no variables print nothing.
func (r *Result) DumpVars() {
	names := r.Env.Vars.Names()
	if len(names) == 0 {
		return
	}
	r.Env.Log.LogLine()
	r.Env.Log.LogLine("--- Variables after run ---")
	for _, name := range names {
		r.Env.Log.LogLine(fmt.Sprintf("  %s = %s", name, resolve.Format(r.Env.Vars.Value(name))))
	}
}

// WaitForClose blocks until the user presses Enter, when the script
// asked for it with <noterminate>. Terminal runs call this after the
// dump; embedding hosts skip it.
func (r *Result) WaitForClose(in io.Reader) {
	if !r.Env.NoTerminate || in == nil {
		return
	}
	r.Env.Log.LogLine()
	r.Env.Log.LogLine(strings.Repeat("=", 40))
	r.Env.Log.LogLine("Press Enter to close...")
	_, _ = bufio.NewReader(in).ReadString('\n')
}
