package panel

// Visual constants of the panel.
const (
	OpacityRest  = "0.3"
	OpacityHover = "1.0"

	itemBackground      = "rgba(240, 240, 240, 0.5)"
	itemHoverBackground = "rgba(66, 133, 244, 0.1)"
	highlightBackground = "rgba(66, 133, 244, 0.2)"
)

var panelStyle = [][2]string{
	{"position", "fixed"},
	{"top", "20px"},
	{"right", "20px"},
	{"width", "250px"},
	{"max-height", "70vh"},
	{"background", "rgba(255, 255, 255, 0.6)"},
	{"border", "1px solid #ddd"},
	{"border-radius", "6px"},
	{"padding", "8px"},
	{"z-index", "10000"},
	{"opacity", OpacityRest},
	{"transition", "opacity 0.3s ease"},
	{"overflow-y", "auto"},
	{"box-shadow", "0 2px 8px rgba(0, 0, 0, 0.1)"},
}

var titleStyle = [][2]string{
	{"margin", "0 0 6px 0"},
	{"font-size", "11px"},
	{"color", "#666"},
	{"text-align", "center"},
	{"border-bottom", "1px solid #eee"},
	{"padding-bottom", "4px"},
}

var itemStyle = [][2]string{
	{"padding", "6px 8px"},
	{"margin", "2px 0"},
	{"background-color", itemBackground},
	{"border-radius", "3px"},
	{"cursor", "pointer"},
	{"font-size", "12px"},
	{"border-left", "2px solid #4285f4"},
}

var placeholderStyle = [][2]string{
	{"color", "#999"},
	{"font-style", "italic"},
	{"text-align", "center"},
	{"padding", "15px 0"},
}

type styler interface {
	SetStyle(property, value string)
}

func apply(n styler, decls [][2]string) {
	for _, d := range decls {
		n.SetStyle(d[0], d[1])
	}
}
