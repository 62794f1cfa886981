package registry

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	analyzeActionRe = regexp.MustCompile(`^<(\w+)_(\w+)(?:\s*=\s*"?([^">]*)"?)?>`)
	analyzeTagRe    = regexp.MustCompile(`^<(\w+)(?:\s+(.*))?>`)
	analyzeAttrRe   = regexp.MustCompile(`(\w+)="([^"]*)"`)
	analyzeRefRe    = regexp.MustCompile(`<(\w+)_value>`)
)

// Analysis is the classification of a single source line.
type Analysis struct {
	Tag         string
	ElementName string
	Action      string
	Property    string
	Value       string
	HasValue    bool
	References  []string
}

// Symbol records where a named element was declared.
type Symbol struct {
	Tag  string
	Line string
}

// Analyzer classifies lines against the capability table and records
// declared element names as it goes. It also checks tag placement.
type Analyzer struct {
	registry *Registry
	symbols  map[string]Symbol

	Warnings []string
}

// NewAnalyzer returns an analyzer over the given registry.
func NewAnalyzer(r *Registry) *Analyzer {
	return &Analyzer{
		registry: r,
		symbols:  make(map[string]Symbol),
	}
}

// AnalyzeLine classifies one line. Blank lines and comments produce a
// zero Analysis. The element-action form is tried first because it is
// the more specific shape.
func (a *Analyzer) AnalyzeLine(line string) Analysis {
	var result Analysis

	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
		return result
	}

	// Form 1: <element_action> or <element_property="value">.
	if idx := analyzeActionRe.FindStringSubmatchIndex(line); idx != nil {
		result.ElementName = line[idx[2]:idx[3]]
		actionOrProp := line[idx[4]:idx[5]]
		result.HasValue = idx[6] >= 0
		if result.HasValue {
			result.Value = line[idx[6]:idx[7]]
		}

		if def, ok := a.registry.InferElementType(result.ElementName); ok {
			switch {
			case hasMethod(def, actionOrProp):
				result.Action = actionOrProp
			case hasProperty(def, actionOrProp):
				result.Property = actionOrProp
			case hasEvent(def, actionOrProp):
				result.Action = actionOrProp
			case result.HasValue:
				result.Property = actionOrProp
			default:
				result.Action = actionOrProp
			}
		} else if result.HasValue {
			result.Property = actionOrProp
		} else {
			result.Action = actionOrProp
		}

		if result.Value != "" {
			result.References = findReferences(result.Value)
		}
		return result
	}

	// Form 2: <tag attr="value" ...>.
	if m := analyzeTagRe.FindStringSubmatch(line); m != nil {
		result.Tag = m[1]
		for _, attr := range analyzeAttrRe.FindAllStringSubmatch(m[2], -1) {
			name, value := attr[1], attr[2]
			if name == "name" {
				result.ElementName = value
				a.symbols[value] = Symbol{Tag: result.Tag, Line: line}
			}
			result.References = append(result.References, findReferences(value)...)
		}
		return result
	}

	return result
}

// CheckPlacement records a warning when child is not a recognized
// child of parent.
func (a *Analyzer) CheckPlacement(child, parent string) {
	if !a.registry.CanBeChildOf(child, parent) {
		a.Warnings = append(a.Warnings,
			fmt.Sprintf("'%s' is not usually a child of '%s'", child, parent))
	}
}

// Symbols returns the named elements seen so far.
func (a *Analyzer) Symbols() map[string]Symbol {
	out := make(map[string]Symbol, len(a.symbols))
	for k, v := range a.symbols {
		out[k] = v
	}
	return out
}

// Completions lists the compound tokens an element answers to, e.g.
// "btn1" yields btn1_text, btn1_enabled, btn1_click, and so on.
func (a *Analyzer) Completions(element string) []string {
	def, ok := a.registry.InferElementType(element)
	if !ok {
		return nil
	}

	var completions []string
	for _, name := range def.MethodNames() {
		completions = append(completions, element+"_"+name)
	}
	for _, name := range def.PropertyNames() {
		completions = append(completions, element+"_"+name)
	}
	for _, event := range def.Events {
		completions = append(completions, element+"_"+event)
	}
	return completions
}

func hasMethod(def *TagDef, name string) bool {
	_, ok := def.Methods[name]
	return ok
}

func hasProperty(def *TagDef, name string) bool {
	_, ok := def.Properties[name]
	return ok
}

func hasEvent(def *TagDef, name string) bool {
	for _, e := range def.Events {
		if e == name {
			return true
		}
	}
	return false
}

func findReferences(value string) []string {
	var refs []string
	for _, m := range analyzeRefRe.FindAllStringSubmatch(value, -1) {
		refs = append(refs, m[1])
	}
	return refs
}
