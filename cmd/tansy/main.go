package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"

	"github.com/sambeau/tansy/config"
	"github.com/sambeau/tansy/pkg/tansy/errors"
	"github.com/sambeau/tansy/pkg/tansy/repl"
	"github.com/sambeau/tansy/pkg/tansy/tansy"
)

// Version is set at build time via -ldflags
var Version = "0.1.0-dev"

// errCheckFailed marks a check run that found problems. The diagnostics
// were already printed, so main maps it straight to exit code 2.
var errCheckFailed = fmt.Errorf("check found problems")

func main() {
	ctx := context.Background()
	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr, os.Getenv)
	if err == nil {
		return
	}
	if err == errCheckFailed {
		os.Exit(2)
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

// run is the main entry point, designed for testability (Mat Ryer pattern)
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, getenv func(string) string) error {
	// Subcommands dispatch before flag parsing so each keeps its own
	// argument list.
	if len(args) > 0 {
		switch args[0] {
		case "version":
			fmt.Fprintf(stdout, "tansy version %s\n", Version)
			return nil
		case "help":
			printUsage(stdout)
			return nil
		case "repl":
			return runRepl(args[1:], stdin, stdout, stderr, getenv)
		case "check":
			return runCheck(args[1:], stdout, stderr)
		case "describe":
			return runDescribe(args[1:], stdout, stderr)
		}
	}

	// Set up flags
	flags := flag.NewFlagSet("tansy", flag.ContinueOnError)
	flags.SetOutput(stderr)

	var (
		inline      = flags.String("e", "", "Run source given on the command line")
		strict      = flags.Bool("strict", false, "Report dropped lines and unknown closing tags")
		watch       = flags.Bool("watch", false, "Rerun the script whenever it changes")
		configPath  = flags.String("config", "", "Path to config file")
		seed        = flags.Int64("seed", 0, "Random seed, 0 seeds from the clock")
		quiet       = flags.Bool("quiet", false, "Skip the variable dump after the run")
		noColor     = flags.Bool("no-color", false, "Disable styled output")
		showVersion = flags.Bool("version", false, "Show version")
		showHelp    = flags.Bool("help", false, "Show help")
	)

	// Parse flags
	if err := flags.Parse(args); err != nil {
		return err
	}

	// Handle --help
	if *showHelp {
		printUsage(stdout)
		return nil
	}

	// Handle --version
	if *showVersion {
		fmt.Fprintf(stdout, "tansy version %s\n", Version)
		return nil
	}

	// Interrupt cancels the run context, which stops forever loops and
	// the surface scheduler.
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration
	cfg, _, err := config.LoadWithPath(*configPath, getenv)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Apply CLI overrides
	if *strict {
		cfg.Strict = true
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *quiet {
		cfg.Quiet = true
	}
	if *noColor {
		cfg.NoColor = true
	}

	// Full validation after CLI overrides applied
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	if *inline != "" {
		if *watch {
			return fmt.Errorf("-watch needs a script file, not -e source")
		}
		runScript(ctx, *inline, "", cfg, stdin, stdout, stderr)
		return nil
	}

	if flags.NArg() == 0 {
		if *watch {
			return fmt.Errorf("-watch needs a script file")
		}
		// No script and no inline source: interactive session.
		repl.StartWithHistory(stdin, stdout, Version, cfg.History)
		return nil
	}
	if flags.NArg() > 1 {
		return fmt.Errorf("unexpected arguments: %s", strings.Join(flags.Args()[1:], " "))
	}

	path := flags.Arg(0)
	if *watch {
		return watchAndRun(ctx, path, cfg, stdout, stderr)
	}
	return runFile(ctx, path, cfg, stdin, stdout, stderr)
}

// runRepl starts the interactive session, with history taken from the
// config when one is set.
func runRepl(args []string, stdin io.Reader, stdout, stderr io.Writer, getenv func(string) string) error {
	flags := flag.NewFlagSet("tansy repl", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "", "Path to config file")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, _, err := config.LoadWithPath(*configPath, getenv)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	repl.StartWithHistory(stdin, stdout, Version, cfg.History)
	return nil
}

// runCheck parses files without executing them and reports every line
// the strict parser would drop. Findings exit with status 2.
func runCheck(args []string, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("tansy check", flag.ContinueOnError)
	flags.SetOutput(stderr)
	noColor := flags.Bool("no-color", false, "Disable styled output")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() == 0 {
		return fmt.Errorf("usage: tansy check <files...>")
	}

	st := newStyles(*noColor)
	found := false

	for _, path := range flags.Args() {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		program := tansy.Compile(string(content), tansy.Options{Strict: true})
		diags := program.Diagnostics()
		if len(diags) == 0 {
			fmt.Fprintf(stdout, "%s %s\n", st.ok.Render("ok"), path)
			continue
		}

		found = true
		fmt.Fprintf(stdout, "%s %s: %d problem(s)\n", st.bad.Render("FAIL"), path, len(diags))
		printDiagnostics(stderr, path, string(content), diags)
	}

	if found {
		return errCheckFailed
	}
	return nil
}

// runFile reads and runs a script file.
func runFile(ctx context.Context, path string, cfg *config.Config, input io.Reader, stdout, stderr io.Writer) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	runScript(ctx, string(source), path, cfg, input, stdout, stderr)
	return nil
}

// runScript compiles and runs one script. Input may be nil for
// non-interactive runs; then <input> tags resolve empty and a
// <noterminate> wait is skipped. Diagnostics land on stderr with source
// context, and never stop the run.
func runScript(ctx context.Context, source, path string, cfg *config.Config, input io.Reader, stdout, stderr io.Writer) {
	program := tansy.Compile(source, tansy.Options{
		Strict:   cfg.Strict,
		Seed:     cfg.Seed,
		Interval: cfg.Interval,
		Logger:   tansy.WriterLogger(stdout),
		Input:    input,
	})

	if diags := program.Diagnostics(); len(diags) > 0 {
		printDiagnostics(stderr, path, source, diags)
	}

	res := program.Run(ctx)

	if !cfg.Quiet {
		res.DumpVars()
	}
	res.WaitForClose(input)
}

// printDiagnostics renders each diagnostic with its source line.
func printDiagnostics(w io.Writer, path, source string, diags []*errors.TansyError) {
	lines := strings.Split(source, "\n")
	for _, diag := range diags {
		if path != "" {
			diag = diag.WithFile(path)
		}
		fmt.Fprintln(w, diag.PrettyString())
		col := diag.Column
		if col == 0 {
			// The parser reports whole-line misses without a column;
			// point at the start of the line.
			col = 1
		}
		printSourceContext(w, lines, diag.Line, col)
	}
}

// printSourceContext shows the offending line with a caret under the
// error position, trimmed of leading whitespace so deep indentation
// does not push the line off screen.
func printSourceContext(w io.Writer, lines []string, lineNum, colNum int) {
	if lineNum <= 0 || lineNum > len(lines) {
		return
	}

	sourceLine := lines[lineNum-1]

	// Count the visual columns the left trim removes, tabs as 8.
	trimCount := 0
	for i := 0; i < len(sourceLine); i++ {
		if sourceLine[i] == ' ' || sourceLine[i] == '\t' {
			if sourceLine[i] == '\t' {
				trimCount += 8
			} else {
				trimCount++
			}
		} else {
			break
		}
	}

	trimmed := strings.TrimLeft(sourceLine, " \t")
	fmt.Fprintf(w, "    %s\n", trimmed)

	if colNum > 0 {
		visualCol := 0
		for i := 0; i < colNum-1 && i < len(sourceLine); i++ {
			if sourceLine[i] == '\t' {
				visualCol += 8
			} else {
				visualCol++
			}
		}

		adjusted := max(visualCol-trimCount, 0)
		fmt.Fprintf(w, "    %s\n", strings.Repeat(" ", adjusted)+"^")
	}
}

// styles is the CLI's lipgloss palette. With color off every style is a
// bare passthrough, so output stays plain text.
type styles struct {
	title   lipgloss.Style
	section lipgloss.Style
	ok      lipgloss.Style
	bad     lipgloss.Style
	muted   lipgloss.Style
	accent  lipgloss.Style
}

func newStyles(noColor bool) styles {
	if noColor {
		plain := lipgloss.NewStyle()
		return styles{title: plain, section: plain, ok: plain, bad: plain, muted: plain, accent: plain}
	}
	return styles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#eab308")),
		section: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3b82f6")),
		ok:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#10b981")),
		bad:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ef4444")),
		muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8")),
		accent:  lipgloss.NewStyle().Foreground(lipgloss.Color("#f59e0b")),
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `tansy - a line-oriented tag language for small GUIs and console scripts

Usage:
  tansy [options] <script.tansy>   Run a script
  tansy -e '<output "hi">'         Run source from the command line
  tansy                            Start the interactive REPL
  tansy repl                       Start the interactive REPL
  tansy check <files...>           Parse scripts and report problems
  tansy describe [tag]             Show the tag reference
  tansy version                    Show version

Options:
  -e SOURCE      Run source given on the command line
  -strict        Report dropped lines and unknown closing tags
  -watch         Rerun the script whenever it changes
  -config PATH   Path to config file (default: auto-detect)
  -seed N        Random seed (0 seeds from the clock)
  -quiet         Skip the variable dump after the run
  -no-color      Disable styled output
  -version       Show version
  -help          Show this help

Config Resolution:
  1. -config flag
  2. TANSY_CONFIG environment variable
  3. ./tansy.yaml
  4. ~/.config/tansy/tansy.yaml

Exit Codes:
  0  success
  1  runtime or configuration error
  2  check found problems

Examples:
  tansy game.tansy                 Run a script
  tansy -watch game.tansy          Rerun it on every save
  tansy -seed 42 game.tansy        Deterministic random numbers
  tansy check scripts/*.tansy      Parse-check a directory
  tansy describe button            Properties, methods and events of button

`)
}
