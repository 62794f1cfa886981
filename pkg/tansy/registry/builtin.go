package registry

func set(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// NewBuiltin returns a registry populated with the stock tag table.
// Calling it again rebuilds the table from scratch, which is how tests
// get an isolated copy.
func NewBuiltin() *Registry {
	r := New()

	r.Register(&TagDef{
		Name:     "var",
		Category: CategoryVariable,
		Aliases:  []string{"variable"},
		Properties: map[string]PropertyDef{
			"name":  {Name: "name", Kind: KindString, Required: true},
			"value": {Name: "value", Kind: KindString, Default: "", Interpolate: true},
		},
		Patterns: []Pattern{
			{Expr: `<var\s+name="(\w+)"\s+value="([^"]*)">`, Handler: "var.assign"},
			{Expr: `<var\s+name="(\w+)">`, Handler: "var.declare"},
			{Expr: `<(\w+)_value="([^"]*)">`, Handler: "var.set"},
		},
		SelfClosing: true,
		Icon:        "📦",
		Description: "Variable definition and assignment",
	})

	r.Register(&TagDef{
		Name:     "math",
		Category: CategoryVariable,
		Properties: map[string]PropertyDef{
			"var":   {Name: "var", Kind: KindString, Required: true},
			"op":    {Name: "op", Kind: KindString, Default: "="},
			"value": {Name: "value", Kind: KindString, Default: "0", Interpolate: true},
		},
		Patterns: []Pattern{
			{Expr: `<math\s+var="(\w+)"\s+op="([^"]+)"\s+value="([^"]*)">`, Handler: "math.full"},
			{Expr: `<math\s+var="(\w+)"\s+op="(\+\+|--|inc|dec)">`, Handler: "math.incdec"},
			{Expr: `<(\w+)_value\s*(\+\+|--)>`, Handler: "math.shorthand.incdec"},
			{Expr: `<(\w+)_value\s*(\+=|-=|\*=|/=|//=|%=|\*\*=|=)\s*(.+)>`, Handler: "math.shorthand"},
		},
		SelfClosing: true,
		Icon:        "🧮",
		Description: "Arithmetic on variables",
	})

	r.Register(&TagDef{
		Name:     "if",
		Category: CategoryControl,
		Properties: map[string]PropertyDef{
			"condition": {Name: "condition", Kind: KindString, Required: true, Interpolate: true},
			"event":     {Name: "event", Kind: KindString},
		},
		Patterns: []Pattern{
			{Expr: `<if\s+condition="([^"]*)">`, Handler: "if.open"},
			{Expr: `<if\s+event="([^"]*)">`, Handler: "if.event"},
			{Expr: `</if>`, Handler: "if.close"},
		},
		SelfClosing: false,
		Icon:        "🔀",
		Description: "Conditional execution",
	})

	r.Register(&TagDef{
		Name:     "loop",
		Category: CategoryControl,
		Properties: map[string]PropertyDef{
			"count": {Name: "count", Kind: KindInt, Required: true},
			"from":  {Name: "from", Kind: KindInt, Default: 0},
			"to":    {Name: "to", Kind: KindInt},
			"var":   {Name: "var", Kind: KindString, Default: "i"},
		},
		Patterns: []Pattern{
			{Expr: `<loop\s+count="(\d+)"(?:\s+var="(\w+)")?>`, Handler: "loop.count"},
			{Expr: `<loop\s+from="(-?\d+)"\s+to="(-?\d+)"(?:\s+var="(\w+)")?>`, Handler: "loop.range"},
			{Expr: `</loop>`, Handler: "loop.close"},
		},
		SelfClosing: false,
		Icon:        "🔁",
		Description: "Repeat children a fixed number of times",
	})

	r.Register(&TagDef{
		Name:     "forever",
		Category: CategoryControl,
		Properties: map[string]PropertyDef{
			"interval": {Name: "interval", Kind: KindInt, Default: 100},
		},
		Patterns: []Pattern{
			{Expr: `<forever\s+interval="(\d+)">`, Handler: "forever.interval"},
			{Expr: `<forever>`, Handler: "forever.open"},
			{Expr: `</forever>`, Handler: "forever.close"},
		},
		SelfClosing: false,
		Icon:        "♾️",
		Description: "Endless event loop",
	})

	r.Register(&TagDef{
		Name:     "block",
		Category: CategoryControl,
		Properties: map[string]PropertyDef{
			"name": {Name: "name", Kind: KindString},
		},
		Patterns: []Pattern{
			{Expr: `<block\s+name="(\w+)">`, Handler: "block.open"},
			{Expr: `<block>`, Handler: "block.open"},
			{Expr: `</block>`, Handler: "block.close"},
		},
		SelfClosing: false,
		Icon:        "🧱",
		Description: "Grouping container",
	})

	r.Register(&TagDef{
		Name:     "window",
		Category: CategoryContainer,
		Aliases:  []string{"wnd", "win"},
		Properties: map[string]PropertyDef{
			"name":  {Name: "name", Kind: KindString, Required: true},
			"title": {Name: "title", Kind: KindString, Default: "Window", Interpolate: true},
			"size":  {Name: "size", Kind: KindList, Default: []int{300, 300}},
		},
		Methods: map[string]MethodDef{
			"show":  {Name: "show", Description: "Show the window"},
			"hide":  {Name: "hide", Description: "Hide the window"},
			"close": {Name: "close", Description: "Close the window"},
			"title": {Name: "title", Params: []string{"value"}, Description: "Set the title"},
			"size":  {Name: "size", Params: []string{"width", "height"}, Description: "Set the size"},
		},
		ValidChildren: set("button", "entry", "label", "frame"),
		Patterns: []Pattern{
			{Expr: `<window\s+(.+)>`, Handler: "window.declare"},
			{Expr: `<(\w+)_show>`, Handler: "window.show"},
			{Expr: `<(\w+)_hide>`, Handler: "window.hide"},
			{Expr: `<(\w+)_title\s*=\s*"([^"]*)">`, Handler: "window.title"},
		},
		SelfClosing: true,
		DefaultSize: [2]int{300, 300},
		Icon:        "🪟",
		Description: "Top-level window container",
	})

	r.Register(&TagDef{
		Name:     "button",
		Category: CategoryWidget,
		Aliases:  []string{"btn"},
		Properties: map[string]PropertyDef{
			"name":    {Name: "name", Kind: KindString, Required: true},
			"text":    {Name: "text", Kind: KindString, Default: "Button", Interpolate: true},
			"parent":  {Name: "parent", Kind: KindString},
			"x":       {Name: "x", Kind: KindInt, Default: 0},
			"y":       {Name: "y", Kind: KindInt, Default: 0},
			"width":   {Name: "width", Kind: KindInt, Default: 100},
			"height":  {Name: "height", Kind: KindInt, Default: 30},
			"enabled": {Name: "enabled", Kind: KindBool, Default: true},
		},
		Methods: map[string]MethodDef{
			"text":    {Name: "text", Params: []string{"value"}},
			"enabled": {Name: "enabled", Params: []string{"value"}},
		},
		Events:       []string{"click"},
		ValidParents: set("window", "frame", "gui"),
		Patterns: []Pattern{
			{Expr: `<button\s+(.+)>`, Handler: "button.declare"},
			{Expr: `<(\w+)_text="([^"]*)">`, Handler: "button.text"},
			{Expr: `<(\w+)_click>`, Handler: "button.click"},
		},
		SelfClosing: true,
		DefaultSize: [2]int{100, 30},
		Icon:        "🔘",
		Description: "Clickable button",
	})

	r.Register(&TagDef{
		Name:     "entry",
		Category: CategoryWidget,
		Aliases:  []string{"txt", "textbox", "input_field"},
		Properties: map[string]PropertyDef{
			"name":        {Name: "name", Kind: KindString, Required: true},
			"parent":      {Name: "parent", Kind: KindString},
			"placeholder": {Name: "placeholder", Kind: KindString, Default: "", Interpolate: true},
			"x":           {Name: "x", Kind: KindInt, Default: 0},
			"y":           {Name: "y", Kind: KindInt, Default: 0},
			"width":       {Name: "width", Kind: KindInt, Default: 150},
			"height":      {Name: "height", Kind: KindInt, Default: 25},
			"readonly":    {Name: "readonly", Kind: KindBool, Default: false},
		},
		Methods: map[string]MethodDef{
			"value":       {Name: "value", Params: []string{"value"}},
			"placeholder": {Name: "placeholder", Params: []string{"value"}},
			"readonly":    {Name: "readonly", Params: []string{"value"}},
		},
		ValidParents: set("window", "frame", "gui"),
		Patterns: []Pattern{
			{Expr: `<entry\s+(.+)>`, Handler: "entry.declare"},
			{Expr: `<(\w+)_value="([^"]*)">`, Handler: "entry.value"},
		},
		SelfClosing: true,
		DefaultSize: [2]int{150, 25},
		Icon:        "📝",
		Description: "Single-line text input field",
	})

	r.Register(&TagDef{
		Name:     "label",
		Category: CategoryWidget,
		Aliases:  []string{"lbl"},
		Properties: map[string]PropertyDef{
			"name":   {Name: "name", Kind: KindString, Required: true},
			"text":   {Name: "text", Kind: KindString, Default: "", Interpolate: true},
			"parent": {Name: "parent", Kind: KindString},
			"x":      {Name: "x", Kind: KindInt, Default: 0},
			"y":      {Name: "y", Kind: KindInt, Default: 0},
		},
		Methods: map[string]MethodDef{
			"text": {Name: "text", Params: []string{"value"}},
		},
		ValidParents: set("window", "frame", "gui"),
		Patterns: []Pattern{
			{Expr: `<label\s+(.+)>`, Handler: "label.declare"},
			{Expr: `<(\w+)_text="([^"]*)">`, Handler: "label.text"},
		},
		SelfClosing: true,
		Icon:        "🏷️",
		Description: "Static text label",
	})

	r.Register(&TagDef{
		Name:     "output",
		Category: CategoryOutput,
		Aliases:  []string{"print"},
		Properties: map[string]PropertyDef{
			"value": {Name: "value", Kind: KindString, Interpolate: true},
		},
		Patterns: []Pattern{
			{Expr: `<output\s+"([^"]*)">`, Handler: "output.literal"},
			{Expr: `<output\s+<(\w+)_value>>`, Handler: "output.var"},
		},
		SelfClosing: true,
		Icon:        "🖨️",
		Description: "Print to the console",
	})

	r.Register(&TagDef{
		Name:     "input",
		Category: CategoryInput,
		Properties: map[string]PropertyDef{
			"prompt": {Name: "prompt", Kind: KindString, Default: "", Interpolate: true},
		},
		Patterns: []Pattern{
			{Expr: `<input\s+prompt="([^"]*)">`, Handler: "input.prompt"},
			{Expr: `<input\s+"([^"]*)">`, Handler: "input.inline"},
			{Expr: `<input>`, Handler: "input.bare"},
		},
		SelfClosing: true,
		Icon:        "⌨️",
		Description: "Read a line from the console",
	})

	r.Register(&TagDef{
		Name:     "random",
		Category: CategoryAction,
		Properties: map[string]PropertyDef{
			"name": {Name: "name", Kind: KindString, Required: true},
			"min":  {Name: "min", Kind: KindInt, Default: 1},
			"max":  {Name: "max", Kind: KindInt, Default: 100},
			"seed": {Name: "seed", Kind: KindInt},
		},
		Patterns: []Pattern{
			{Expr: `<random\s+(.+?)\s*/?>`, Handler: "random.declare"},
		},
		SelfClosing: true,
		Icon:        "🎲",
		Description: "Named random number source",
	})

	r.Register(&TagDef{
		Name:     "noterminate",
		Category: CategoryMeta,
		Aliases:  []string{"noquit"},
		Patterns: []Pattern{
			{Expr: `<noterminate>`, Handler: "console.noterminate"},
			{Expr: `<noquit>`, Handler: "console.noquit"},
		},
		SelfClosing: true,
		Icon:        "⏸️",
		Description: "Keep the console open until Enter is pressed",
	})

	r.Register(&TagDef{
		Name:          "gui",
		Category:      CategoryContainer,
		ValidChildren: set("window", "button", "entry", "label", "frame"),
		Patterns: []Pattern{
			{Expr: `<gui>`, Handler: "gui.open"},
			{Expr: `</gui>`, Handler: "gui.close"},
		},
		SelfClosing: false,
		Icon:        "🖥️",
		Description: "GUI section container",
	})

	return r
}
