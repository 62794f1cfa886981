// Package gui is the headless element layer: windows, buttons, labels and
// entry fields with name-keyed stores. Scripts talk to it through the
// capability interfaces in runtime (Settable, Actionable, ValueProvider);
// nothing here draws pixels, which keeps runs testable and scriptable on a
// server. A toolkit backend would replace the element bodies and keep the
// stores and the Surface contract.
package gui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sambeau/tansy/pkg/tansy/runtime"
)

// Windows returns the window store held by env, creating and installing
// it on first use.
func Windows(env *runtime.Env) *WindowStore {
	if s, ok := env.Store(runtime.StoreWindows); ok {
		return s.(*WindowStore)
	}
	store := NewWindowStore(env)
	env.SetStore(runtime.StoreWindows, store)
	return store
}

// Buttons returns the button store held by env, creating and installing
// it on first use.
func Buttons(env *runtime.Env) *ButtonStore {
	if s, ok := env.Store(runtime.StoreButtons); ok {
		return s.(*ButtonStore)
	}
	store := NewButtonStore()
	env.SetStore(runtime.StoreButtons, store)
	return store
}

// Labels returns the label store held by env, creating and installing it
// on first use.
func Labels(env *runtime.Env) *LabelStore {
	if s, ok := env.Store(runtime.StoreLabels); ok {
		return s.(*LabelStore)
	}
	store := NewLabelStore()
	env.SetStore(runtime.StoreLabels, store)
	return store
}

// Entries returns the entry store held by env, creating and installing
// it on first use.
func Entries(env *runtime.Env) *EntryStore {
	if s, ok := env.Store(runtime.StoreEntries); ok {
		return s.(*EntryStore)
	}
	store := NewEntryStore()
	env.SetStore(runtime.StoreEntries, store)
	return store
}

// dimensions coerces a size argument into a width and height pair.
// Scripts hand sizes over in several shapes: a list of strings from a
// stacked attribute ("300","350"), a single number, or a free string.
// A single value is used for both axes.
func dimensions(value any) (int, int, bool) {
	switch v := value.(type) {
	case []string:
		return dimensionsFromStrings(v)
	case []any:
		parts := make([]string, 0, len(v))
		for _, p := range v {
			parts = append(parts, strings.TrimSpace(toDimString(p)))
		}
		return dimensionsFromStrings(parts)
	case string:
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.Trim(strings.TrimSpace(parts[i]), `"`)
		}
		return dimensionsFromStrings(parts)
	case int:
		return v, v, true
	case float64:
		return int(v), int(v), true
	}
	return 0, 0, false
}

func dimensionsFromStrings(parts []string) (int, int, bool) {
	if len(parts) == 0 {
		return 0, 0, false
	}
	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	h := w
	if len(parts) > 1 {
		h, err = strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return 0, 0, false
		}
	}
	return w, h, true
}

func toDimString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}

// toText renders a property argument as display text.
func toText(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// asBool reads the loose boolean convention used by enabled/readonly
// style attributes, where anything but "true" is false.
func asBool(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "true")
	}
	return false
}
