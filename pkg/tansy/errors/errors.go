// Package errors provides structured error types for the Tansy language.
//
// Script-facing failures in Tansy are deliberately lenient (unrecognized
// lines are dropped, failed conditions become false), but every internal
// failure still travels as a TansyError carrying a class, a stable code,
// and rendered hints so the CLI and strict mode can report precisely.
package errors

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// ErrorClass categorizes errors for filtering and display.
type ErrorClass string

const (
	ClassParse      ErrorClass = "parse"      // Unrecognized or malformed lines
	ClassExpression ErrorClass = "expression" // Expression engine failures
	ClassMath       ErrorClass = "math"       // Arithmetic sandbox violations
	ClassCondition  ErrorClass = "condition"  // Condition evaluation failures
	ClassConfig     ErrorClass = "config"     // Configuration loading
	ClassIO         ErrorClass = "io"         // File and console I/O
)

// TansyError represents any error from parsing, evaluation, or setup.
type TansyError struct {
	Class   ErrorClass     // Error category
	Code    string         // Stable code (e.g. "MATH-0001")
	Message string         // Human-readable message
	Hints   []string       // Suggestions for fixing
	Line    int            // 1-based line (0 if unknown)
	Column  int            // 1-based column (0 if unknown)
	File    string         // Source path (if known)
	Data    map[string]any // Template variables
}

// Error implements the error interface.
func (e *TansyError) Error() string {
	return e.String()
}

// String returns a single-line representation with location prefix.
func (e *TansyError) String() string {
	var sb strings.Builder
	if e.File != "" {
		sb.WriteString(e.File)
		sb.WriteString(": ")
	}
	if e.Line > 0 {
		if e.Column > 0 {
			sb.WriteString(fmt.Sprintf("line %d, column %d: ", e.Line, e.Column))
		} else {
			sb.WriteString(fmt.Sprintf("line %d: ", e.Line))
		}
	}
	sb.WriteString(e.Message)
	for _, hint := range e.Hints {
		sb.WriteString("\n  ")
		sb.WriteString(hint)
	}
	return sb.String()
}

// PrettyString returns a multi-line representation for terminal display.
func (e *TansyError) PrettyString() string {
	var sb strings.Builder
	switch e.Class {
	case ClassParse:
		sb.WriteString("Parse error")
	case ClassConfig:
		sb.WriteString("Config error")
	default:
		sb.WriteString("Runtime error")
	}
	if e.File != "" {
		sb.WriteString(":\n  in: ")
		sb.WriteString(e.File)
		if e.Line > 0 {
			sb.WriteString(fmt.Sprintf("\n  at: line %d", e.Line))
			if e.Column > 0 {
				sb.WriteString(fmt.Sprintf(", column %d", e.Column))
			}
		}
		sb.WriteString("\n  ")
	} else if e.Line > 0 {
		sb.WriteString(fmt.Sprintf(": line %d\n  ", e.Line))
	} else {
		sb.WriteString(":\n  ")
	}
	sb.WriteString(e.Message)
	for i, hint := range e.Hints {
		sb.WriteString("\n  ")
		if i == 0 {
			sb.WriteString("Use: ")
		} else {
			sb.WriteString(" or: ")
		}
		sb.WriteString(hint)
	}
	return sb.String()
}

// WithFile attaches a source path and returns the error for chaining.
func (e *TansyError) WithFile(file string) *TansyError {
	e.File = file
	return e
}

// WithPosition attaches a 1-based line/column and returns the error.
func (e *TansyError) WithPosition(line, column int) *TansyError {
	e.Line = line
	e.Column = column
	return e
}

// ErrorDef describes one catalog entry.
type ErrorDef struct {
	Class    ErrorClass // Error category
	Template string     // Message template with {{.placeholders}}
	Hints    []string   // Hint templates (may use {{.placeholders}})
}

// Catalog maps error codes to their definitions.
var Catalog = map[string]ErrorDef{
	// Parse diagnostics (PARSE-0xxx), reported only in strict mode.
	"PARSE-0001": {
		Class:    ClassParse,
		Template: "no rule matches line '{{.Line}}'",
		Hints:    []string{"check the tag name and attribute spelling"},
	},
	"PARSE-0002": {
		Class:    ClassParse,
		Template: "closing tag '</{{.Tag}}>' has no open block",
	},
	"PARSE-0003": {
		Class:    ClassParse,
		Template: "'{{.Name}}' is used like a named construct but was never declared",
		Hints:    []string{"declare it first, e.g. <{{.Kind}}_name=\"{{.Name}}\">"},
	},

	// Expression engine (EXPR-0xxx).
	"EXPR-0001": {
		Class:    ClassExpression,
		Template: "unexpected token '{{.Token}}'",
	},
	"EXPR-0002": {
		Class:    ClassExpression,
		Template: "unexpected end of expression",
	},
	"EXPR-0003": {
		Class:    ClassExpression,
		Template: "unknown identifier '{{.Name}}'",
		Hints:    []string{"quote strings inside conditions, e.g. \"{{.Name}}\""},
	},
	"EXPR-0004": {
		Class:    ClassExpression,
		Template: "unknown function '{{.Name}}'",
	},
	"EXPR-0005": {
		Class:    ClassExpression,
		Template: "{{.Name}}() expects {{.Want}} argument(s), got {{.Got}}",
	},
	"EXPR-0006": {
		Class:    ClassExpression,
		Template: "cannot compare {{.Left}} with {{.Right}}",
	},
	"EXPR-0007": {
		Class:    ClassExpression,
		Template: "division by zero",
	},
	"EXPR-0008": {
		Class:    ClassExpression,
		Template: "operator '{{.Op}}' not supported for {{.Type}}",
	},

	// Arithmetic sandbox (MATH-0xxx).
	"MATH-0001": {
		Class:    ClassMath,
		Template: "illegal character '{{.Char}}' in arithmetic expression",
		Hints:    []string{"only numbers, operators, and {{.Allowed}} are allowed"},
	},
	"MATH-0002": {
		Class:    ClassMath,
		Template: "cannot evaluate '{{.Expr}}': {{.Reason}}",
	},
	"MATH-0003": {
		Class:    ClassMath,
		Template: "unknown math operation '{{.Op}}'",
		Hints:    []string{"use one of =, +=, -=, *=, /=, //=, %=, **=, ++, --"},
	},

	// Conditions (COND-0xxx).
	"COND-0001": {
		Class:    ClassCondition,
		Template: "condition error: {{.Reason}} in '{{.Condition}}'",
	},

	// Configuration (CONF-0xxx).
	"CONF-0001": {
		Class:    ClassConfig,
		Template: "config file not found: {{.Path}}",
	},
	"CONF-0002": {
		Class:    ClassConfig,
		Template: "cannot parse config: {{.Reason}}",
	},
	"CONF-0003": {
		Class:    ClassConfig,
		Template: "invalid config value for {{.Key}}: {{.Reason}}",
	},

	// I/O (IO-0xxx).
	"IO-0001": {
		Class:    ClassIO,
		Template: "cannot read script {{.Path}}: {{.Reason}}",
	},
	"IO-0002": {
		Class:    ClassIO,
		Template: "console input failed: {{.Reason}}",
	},
}

// New creates a TansyError from a catalog code and template data.
// Unknown codes produce a generic expression-class error so callers
// never have to handle a nil error value.
func New(code string, data map[string]any) *TansyError {
	def, ok := Catalog[code]
	if !ok {
		msg := code
		if data != nil {
			if m, ok := data["message"].(string); ok {
				msg = m
			}
		}
		return &TansyError{Class: ClassExpression, Code: code, Message: msg, Data: data}
	}
	msg := renderTemplate(def.Template, data)
	var hints []string
	for _, hintTmpl := range def.Hints {
		if rendered := renderTemplate(hintTmpl, data); rendered != "" {
			hints = append(hints, rendered)
		}
	}
	return &TansyError{Class: def.Class, Code: code, Message: msg, Hints: hints, Data: data}
}

// NewWithPosition creates a catalog error with a source position attached.
func NewWithPosition(code string, line, column int, data map[string]any) *TansyError {
	return New(code, data).WithPosition(line, column)
}

// NewSimple creates an error with a literal message, outside the catalog.
func NewSimple(class ErrorClass, message string) *TansyError {
	return &TansyError{Class: class, Message: message}
}

// CodeOf returns the catalog code of err, or "" when err is not a TansyError.
func CodeOf(err error) string {
	if te, ok := err.(*TansyError); ok {
		return te.Code
	}
	return ""
}

func renderTemplate(tmplStr string, data map[string]any) string {
	if !strings.Contains(tmplStr, "{{") {
		return tmplStr
	}
	tmpl, err := template.New("msg").Parse(tmplStr)
	if err != nil {
		return tmplStr
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return tmplStr
	}
	return buf.String()
}
