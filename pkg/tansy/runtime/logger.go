package runtime

import "fmt"

// Logger receives all script-facing output: <output> values, input
// prompts, condition diagnostics, and the post-run variable dump.
type Logger interface {
	Log(values ...interface{})
	LogLine(values ...interface{})
}

// defaultStdoutLogger writes space-separated values to stdout.
type defaultStdoutLogger struct{}

func (l *defaultStdoutLogger) Log(values ...interface{}) {
	for i, v := range values {
		if i > 0 {
			fmt.Print(" ")
		}
		fmt.Print(v)
	}
}

func (l *defaultStdoutLogger) LogLine(values ...interface{}) {
	l.Log(values...)
	fmt.Println()
}

// DefaultLogger is the stdout logger environments start with.
var DefaultLogger Logger = &defaultStdoutLogger{}
