package theme

// Styling for the capture window: a light and a dark palette and the ttk
// styles the root view refers to by name.

import (
	tk "modernc.org/tk9.0"
)

// Palette holds the resolved colors for one mode.
type Palette struct {
	AppBg   string
	Surface string
	Primary string
	Danger  string
	Accent  string
	Text    string
}

var (
	// Light is the default palette.
	Light = Palette{
		AppBg:   "#f7f9fb",
		Surface: "#ffffff",
		Primary: "#2563eb",
		Danger:  "#dc2626",
		Accent:  "#f59e0b", // crop handles
		Text:    "#1e293b",
	}
	// Dark is used when config enables it or the user toggles it.
	Dark = Palette{
		AppBg:   "#0f172a",
		Surface: "#1e293b",
		Primary: "#3b82f6",
		Danger:  "#ef4444",
		Accent:  "#fbbf24",
		Text:    "#f1f5f9",
	}
)

// style names used with Style("primary.TButton") etc.
const (
	StylePrimaryButton = "primary.TButton"
	StyleDangerButton  = "danger.TButton"
	StyleStatusLabel   = "status.TLabel"
)

var darkMode bool

// Current returns the palette for the active mode.
func Current() Palette {
	if darkMode {
		return Dark
	}
	return Light
}

// InitStyles applies the styles for the current mode.
func InitStyles() { applyStyles(Current()) }

// SetDark switches mode and reapplies styles. Returns the new mode value.
func SetDark(dark bool) bool {
	darkMode = dark
	applyStyles(Current())
	return darkMode
}

func applyStyles(p Palette) {
	_ = tk.ActivateTheme("azure light") // baseline metrics
	tk.App.Configure(tk.Background(p.AppBg))

	tk.StyleConfigure(StylePrimaryButton,
		tk.Background(p.Primary),
		tk.Foreground("white"),
		tk.Padding("4p 3p"),
		tk.Borderwidth(1),
		tk.Relief("ridge"),
	)
	tk.StyleConfigure(StyleDangerButton,
		tk.Background(p.Danger),
		tk.Foreground("white"),
		tk.Padding("4p 3p"),
		tk.Borderwidth(1),
		tk.Relief("ridge"),
	)
	tk.StyleConfigure(StyleStatusLabel,
		tk.Foreground(p.Text),
		tk.Background(p.Surface),
		tk.Padding("4p 2p"),
	)
}
