package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/sambeau/tansy/pkg/tansy/registry"
)

// runDescribe prints the tag reference straight from the registry, so
// the output can never drift from what the parser accepts.
func runDescribe(args []string, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("tansy describe", flag.ContinueOnError)
	flags.SetOutput(stderr)
	noColor := flags.Bool("no-color", false, "Disable styled output")
	if err := flags.Parse(args); err != nil {
		return err
	}

	st := newStyles(*noColor)
	reg := registry.NewBuiltin()

	if flags.NArg() == 0 {
		describeAll(stdout, reg, st)
		return nil
	}
	return describeTag(stdout, reg, st, flags.Arg(0))
}

// describeCategories fixes the section order of the overview.
var describeCategories = []registry.Category{
	registry.CategoryVariable,
	registry.CategoryControl,
	registry.CategoryContainer,
	registry.CategoryWidget,
	registry.CategoryOutput,
	registry.CategoryInput,
	registry.CategoryAction,
	registry.CategoryMeta,
}

func describeAll(w io.Writer, reg *registry.Registry, st styles) {
	fmt.Fprintln(w, st.title.Render("Tansy tag reference"))
	fmt.Fprintln(w)

	for _, cat := range describeCategories {
		defs := reg.ByCategory(cat)
		if len(defs) == 0 {
			continue
		}

		fmt.Fprintln(w, st.section.Render(cat.String()))
		for _, def := range defs {
			name := def.Name
			if len(def.Aliases) > 0 {
				name += " (" + strings.Join(def.Aliases, ", ") + ")"
			}
			fmt.Fprintf(w, "  %s %-22s %s\n", def.Icon, name, st.muted.Render(def.Description))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, st.muted.Render("Run 'tansy describe <tag>' for properties, methods and events."))
}

func describeTag(w io.Writer, reg *registry.Registry, st styles, name string) error {
	def, ok := reg.Get(name)
	if !ok {
		// Element names like btn1 land on their widget type.
		def, ok = reg.InferElementType(name)
	}
	if !ok {
		return fmt.Errorf("unknown tag %q (run 'tansy describe' for the full list)", name)
	}

	fmt.Fprintf(w, "%s %s\n", def.Icon, st.title.Render(def.Name))
	fmt.Fprintln(w, st.muted.Render(def.Description))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  category: %s\n", def.Category)
	if len(def.Aliases) > 0 {
		fmt.Fprintf(w, "  aliases:  %s\n", strings.Join(def.Aliases, ", "))
	}
	if def.DefaultSize != [2]int{} {
		fmt.Fprintf(w, "  size:     %dx%d\n", def.DefaultSize[0], def.DefaultSize[1])
	}

	if len(def.Properties) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, st.section.Render("Properties"))
		for _, pname := range def.PropertyNames() {
			prop := def.Properties[pname]
			line := fmt.Sprintf("  %-12s %-6s", prop.Name, prop.Kind)
			switch {
			case prop.Required:
				line += " " + st.accent.Render("required")
			case prop.Default != nil:
				line += fmt.Sprintf(" default %v", prop.Default)
			}
			if prop.Description != "" {
				line += "  " + st.muted.Render(prop.Description)
			}
			fmt.Fprintln(w, line)
		}
	}

	if len(def.Methods) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, st.section.Render("Methods"))
		for _, mname := range def.MethodNames() {
			m := def.Methods[mname]
			sig := m.Name
			if len(m.Params) > 0 {
				sig += "(" + strings.Join(m.Params, ", ") + ")"
			}
			line := fmt.Sprintf("  %-20s", sig)
			if m.Description != "" {
				line += " " + st.muted.Render(m.Description)
			}
			fmt.Fprintln(w, line)
		}
	}

	if len(def.Events) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, st.section.Render("Events"))
		for _, event := range def.Events {
			hint := fmt.Sprintf("(consumed by <if event=\"name_%s\">)", event)
			fmt.Fprintf(w, "  %-12s %s\n", event, st.muted.Render(hint))
		}
	}

	if len(def.Patterns) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, st.section.Render("Patterns"))
		for _, p := range def.Patterns {
			fmt.Fprintf(w, "  %-24s %s\n", p.Handler, st.muted.Render(p.Expr))
		}
	}

	return nil
}
