package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/peterh/liner"

	"github.com/sambeau/tansy/pkg/tansy/ast"
	"github.com/sambeau/tansy/pkg/tansy/compiler"
	"github.com/sambeau/tansy/pkg/tansy/errors"
	"github.com/sambeau/tansy/pkg/tansy/gui"
	"github.com/sambeau/tansy/pkg/tansy/registry"
	"github.com/sambeau/tansy/pkg/tansy/resolve"
	"github.com/sambeau/tansy/pkg/tansy/runtime"
	"github.com/sambeau/tansy/pkg/tansy/tansy"
)

const PROMPT = ">> "
const CONTINUATION_PROMPT = ".. "

const TANSY_LOGO = `
▀█▀ ▄▀█ █▄░█ █▀ █▄█
░█░ █▀█ █░▀█ ▄█ ░█░ `

// Start starts the REPL with line editing, history, and tab completion.
// Variables, elements, and named constructs persist across chunks until
// :reset. The in reader feeds <input> tags; liner owns the terminal for
// the prompt itself.
func Start(in io.Reader, out io.Writer, version string) {
	StartWithHistory(in, out, version, "")
}

// StartWithHistory is Start with an explicit history file. An empty
// path keeps the default under the OS temp dir.
func StartWithHistory(in io.Reader, out io.Writer, version, historyFile string) {
	line := liner.NewLiner()
	defer line.Close()

	// Enable Ctrl+C to abort current line
	line.SetCtrlCAborts(true)

	reg := registry.NewBuiltin()
	words := completionWords(reg)
	line.SetCompleter(func(l string) []string {
		return filterCompletions(l, words)
	})

	// Load command history from file
	if historyFile == "" {
		historyFile = filepath.Join(os.TempDir(), ".tansy_history")
	}
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	// Save history on exit
	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	comp := compiler.New(reg)
	comp.SetStrict(true)
	env := newSessionEnv(in, out)

	fmt.Fprintf(out, "%s", TANSY_LOGO)
	fmt.Fprintln(out, "v", version)
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Type 'exit' or Ctrl+D to quit")
	fmt.Fprintln(out, "Use Tab for completion, ↑↓ for history")
	fmt.Fprintln(out, "Type ':help' for REPL commands")
	fmt.Fprintln(out, "")

	var inputBuffer strings.Builder

	for {
		currentPrompt := PROMPT
		if inputBuffer.Len() > 0 {
			currentPrompt = CONTINUATION_PROMPT
		}
		input, err := line.Prompt(currentPrompt)
		if err != nil {
			// Ctrl+C or Ctrl+D
			if err == liner.ErrPromptAborted {
				// Ctrl+C - clear any buffered input and return to main prompt
				if inputBuffer.Len() > 0 {
					fmt.Fprintln(out, "^C (cleared)")
				} else {
					fmt.Fprintln(out, "^C")
				}
				inputBuffer.Reset()
				continue
			}
			if err == io.EOF {
				// Ctrl+D - exit
				fmt.Fprintln(out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(out, "Error reading input: %v\n", err)
			continue
		}

		// Check for exit command
		trimmed := strings.TrimSpace(input)
		if inputBuffer.Len() == 0 && (trimmed == "exit" || trimmed == "quit") {
			fmt.Fprintln(out, "Goodbye!")
			return
		}

		// Handle REPL commands (start with :)
		if inputBuffer.Len() == 0 && strings.HasPrefix(trimmed, ":") {
			if handleReplCommand(trimmed, comp, env, in, out) {
				fmt.Fprintln(out, "Goodbye!")
				return
			}
			continue
		}

		// Skip empty lines when no input buffered
		if inputBuffer.Len() == 0 && trimmed == "" {
			continue
		}

		// Add to input buffer
		if inputBuffer.Len() > 0 {
			inputBuffer.WriteString("\n")
		}
		inputBuffer.WriteString(input)

		// Keep reading while the chunk still has an open block
		fullInput := inputBuffer.String()
		if needsMoreInput(fullInput, comp.Named) {
			continue
		}

		// Add complete input to history
		if trimmed != "" {
			line.AppendHistory(fullInput)
		}

		evalChunk(fullInput, comp, env, out)
		inputBuffer.Reset()
	}
}

// newSessionEnv builds the persistent environment a session runs
// against. Output streams through the session writer and the window
// store is installed up front so element chunks work immediately.
func newSessionEnv(in io.Reader, out io.Writer) *runtime.Env {
	env := runtime.NewEnv()
	env.Log = tansy.WriterLogger(out)
	env.Input = in
	gui.Windows(env)
	return env
}

// evalChunk parses and runs one complete chunk against the persistent
// compiler and environment. Forever loops are refused: they would never
// hand the prompt back.
func evalChunk(chunk string, comp *compiler.Compiler, env *runtime.Env, out io.Writer) {
	root := comp.Parse(chunk)
	if diags := comp.Diagnostics(); len(diags) > 0 {
		printDiagnostics(out, diags)
	}
	if ast.HasForever(root) {
		fmt.Fprintln(out, "forever loops run until their window closes; save this as a script and run it instead")
		return
	}
	root.Execute(env)
}

// handleReplCommand handles REPL meta-commands that start with ':'.
// Returns true when the session should end.
func handleReplCommand(cmd string, comp *compiler.Compiler, env *runtime.Env, in io.Reader, out io.Writer) bool {
	switch cmd {
	case ":help", ":h", ":?":
		fmt.Fprintln(out, "REPL Commands:")
		fmt.Fprintln(out, "  :help, :h, :?   Show this help")
		fmt.Fprintln(out, "  :vars, :v       Show variables and their values")
		fmt.Fprintln(out, "  :events         Show events fired so far")
		fmt.Fprintln(out, "  :reset          Clear variables, elements, and named constructs")
		fmt.Fprintln(out, "  :quit, :q       Exit the REPL")
		fmt.Fprintln(out, "  exit, quit      Exit the REPL")
		return false

	case ":vars", ":v":
		printVariables(env, out)
		return false

	case ":events":
		printEvents(env, out)
		return false

	case ":reset":
		comp.Reset()
		*env = *newSessionEnv(in, out)
		fmt.Fprintln(out, "Environment cleared")
		return false

	case ":quit", ":q":
		return true

	default:
		fmt.Fprintf(out, "Unknown command: %s (type :help for commands)\n", cmd)
		return false
	}
}

// printVariables lists the session's variables in declaration order,
// formatted the way the end-of-run dump formats them.
func printVariables(env *runtime.Env, out io.Writer) {
	names := env.Vars.Names()
	if len(names) == 0 {
		fmt.Fprintln(out, "(no variables)")
		return
	}
	for _, name := range names {
		value := resolve.Format(env.Vars.Value(name))
		// Truncate long single-line values
		if len(value) > 60 {
			value = value[:57] + "..."
		}
		fmt.Fprintf(out, "  %s = %s\n", name, value)
	}
}

// printEvents lists the event flags that have fired this session.
func printEvents(env *runtime.Env, out io.Writer) {
	var fired []string
	for name, on := range env.Events {
		if on {
			fired = append(fired, name)
		}
	}
	if len(fired) == 0 {
		fmt.Fprintln(out, "(no events fired)")
		return
	}
	sort.Strings(fired)
	for _, name := range fired {
		fmt.Fprintf(out, "  %s\n", name)
	}
}

// printDiagnostics prints parse problems using the structured error format.
func printDiagnostics(out io.Writer, errs []*errors.TansyError) {
	for _, err := range errs {
		io.WriteString(out, err.PrettyString())
		io.WriteString(out, "\n")
	}
}

// completionWords builds the tab-completion vocabulary from the tag
// table: tag names, aliases, properties, and methods, plus the grammar
// words that live in the parser rather than the registry.
func completionWords(reg *registry.Registry) []string {
	seen := make(map[string]bool)
	var words []string
	add := func(w string) {
		if w != "" && !seen[w] {
			seen[w] = true
			words = append(words, w)
		}
	}
	for _, name := range reg.Names() {
		add(name)
		def, ok := reg.Get(name)
		if !ok {
			continue
		}
		for _, alias := range def.Aliases {
			add(alias)
		}
		for _, prop := range def.PropertyNames() {
			add(prop)
		}
		for _, method := range def.MethodNames() {
			add(method)
		}
	}
	for _, w := range []string{"if_name", "loop_name", "block_name"} {
		add(w)
	}
	sort.Strings(words)
	return words
}

// filterCompletions returns completion candidates for the current line.
// liner replaces the whole line with a candidate, so each match carries
// the untouched prefix in front of the completed word.
func filterCompletions(line string, words []string) []string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}

	// Don't complete if line ends with whitespace (including tabs from pasting)
	if line[len(line)-1] == ' ' || line[len(line)-1] == '\t' {
		return nil
	}

	// The stem is the run of word characters at the end of the line.
	// A leading '<' or '</' stays with the prefix.
	start := len(line)
	for start > 0 && isWordByte(line[start-1]) {
		start--
	}
	stem := line[start:]
	if stem == "" {
		return nil
	}

	var matches []string
	for _, word := range words {
		if strings.HasPrefix(word, stem) {
			matches = append(matches, line[:start]+word)
		}
	}
	return matches
}

func isWordByte(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9') || ch == '_'
}

// Block-opening shapes, mirroring the parser's rule table closely
// enough to know when a chunk still has an open block. Whether an
// attributed or bare name opens depends on the named-construct table,
// so the checks take the compiler's lookup.
var (
	reCondOpen  = regexp.MustCompile(`^<(\w+)\s+condition="[^"]*">`)
	reIfExpr    = regexp.MustCompile(`^<if\s+condition=.+>$`)
	reIfEvent   = regexp.MustCompile(`^<if\s+event="[^"]*">`)
	reForever   = regexp.MustCompile(`^<forever(?:\s+interval="\d+")?>`)
	reCount     = regexp.MustCompile(`^<(\w+)\s+count="\d+"`)
	reRange     = regexp.MustCompile(`^<(\w+)\s+from="-?\d+"\s+to="-?\d+"`)
	reBlockOpen = regexp.MustCompile(`^<block>`)
	reBareName  = regexp.MustCompile(`^<(\w+)>`)
	reClose     = regexp.MustCompile(`^</(\w+)>`)
)

// blockClose lists the closing tags that always close a block, named
// or not.
var blockClose = map[string]bool{
	"if":      true,
	"loop":    true,
	"block":   true,
	"forever": true,
}

// needsMoreInput reports whether the chunk still has unclosed blocks,
// so the prompt switches to continuation instead of running a half
// block.
func needsMoreInput(input string, named func(string) (string, bool)) bool {
	depth := 0
	for _, raw := range strings.Split(input, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		if m := reClose.FindStringSubmatch(line); m != nil {
			_, declared := named(m[1])
			if depth > 0 && (blockClose[m[1]] || declared) {
				depth--
			}
			continue
		}
		if opensBlock(line, named) {
			depth++
		}
	}
	return depth > 0
}

// opensBlock mirrors the parser rules that descend into a block. The
// check order follows the rule table: quoted conditions before the
// unquoted legacy form, loop shapes before the bare-name fallback.
func opensBlock(line string, named func(string) (string, bool)) bool {
	if m := reCondOpen.FindStringSubmatch(line); m != nil {
		kind, _ := named(m[1])
		return m[1] == "if" || kind == "if"
	}
	if reIfEvent.MatchString(line) || reForever.MatchString(line) || reBlockOpen.MatchString(line) {
		return true
	}
	if m := reCount.FindStringSubmatch(line); m != nil {
		kind, _ := named(m[1])
		return m[1] == "loop" || kind == "loop"
	}
	if m := reRange.FindStringSubmatch(line); m != nil {
		kind, _ := named(m[1])
		return m[1] == "loop" || kind == "loop"
	}
	if reIfExpr.MatchString(line) {
		return true
	}
	if m := reBareName.FindStringSubmatch(line); m != nil {
		_, declared := named(m[1])
		return declared
	}
	return false
}
