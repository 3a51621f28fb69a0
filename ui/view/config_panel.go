package view

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/soocke/snapcrop-go/config"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// ConfigPanel encapsulates the settings form widgets and apply logic.
// It owns its widgets and writes back into *config.Config on ApplyChanges.
type ConfigPanel interface {
	Build(parent *FrameWidget, startRow int) (endRow int) // constructs widgets starting at startRow, returns next free row
	SetEditable(enabled bool)
	ApplyChanges() // parses widget text into underlying config and persists
}

type configPanel struct {
	cfg      *config.Config
	cfgPath  string
	logger   *slog.Logger
	onApply  func(*config.Config)
	applyBtn *ButtonWidget
	widgets  map[string]*TextWidget // keyed by internal field id
}

// NewConfigPanel creates the view bound to cfg. onApply runs after a successful save.
func NewConfigPanel(cfg *config.Config, cfgPath string, logger *slog.Logger, onApply func(*config.Config)) ConfigPanel {
	return &configPanel{cfg: cfg, cfgPath: cfgPath, logger: logger, onApply: onApply, widgets: make(map[string]*TextWidget)}
}

func (v *configPanel) Build(parent *FrameWidget, startRow int) (row int) {
	c := v.cfg
	row = startRow
	makeRow := func(id, label, value string, width int) {
		lbl := Label(Txt(label), Anchor("w"))
		Grid(lbl, In(parent), Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
		w := Text(Height(1), Width(width))
		Grid(w, In(parent), Row(row), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		w.Delete("1.0", END)
		w.Insert("1.0", value)
		v.widgets[id] = w
		row++
	}
	makeRow("prompt", "Prompt", c.Prompt, 32)
	makeRow("ollamaModel", "Model", c.OllamaModel, 16)
	makeRow("outputFormat", "Format (jpeg/webp)", c.OutputFormat, 8)
	makeRow("jpegQuality", "Quality (1-100)", fmt.Sprintf("%d", c.JPEGQuality), 8)
	makeRow("saveCrops", "Save Crops (true/false)", fmt.Sprintf("%t", c.SaveCrops), 8)
	makeRow("mirrorFront", "Mirror Front (true/false)", fmt.Sprintf("%t", c.MirrorFront), 8)
	v.applyBtn = Button(Txt("Apply Changes"), Command(func() { v.ApplyChanges() }))
	Grid(v.applyBtn, In(parent), Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	row++
	return row
}

func (v *configPanel) SetEditable(enabled bool) {
	state := "disabled"
	if enabled {
		state = "normal"
	}
	for _, w := range v.widgets {
		if w != nil {
			w.Configure(State(state))
		}
	}
	if v.applyBtn != nil {
		v.applyBtn.Configure(State(state))
	}
}

func (v *configPanel) text(w *TextWidget) string {
	if w == nil {
		return ""
	}
	parts := w.Get("1.0", END)
	return strings.Join(parts, "")
}

func (v *configPanel) ApplyChanges() {
	if v.cfg == nil {
		return
	}
	cfg := *v.cfg // copy
	assignInt := func(id string, dst *int) {
		w := v.widgets[id]
		if w == nil {
			return
		}
		if i, ok := parseIntField(strings.TrimSpace(v.text(w))); ok {
			*dst = i
		}
	}
	assignBool := func(id string, dst *bool) {
		w := v.widgets[id]
		if w == nil {
			return
		}
		if b, ok := parseBoolLoose(strings.TrimSpace(v.text(w))); ok {
			*dst = b
		}
	}
	assignString := func(id string, dst *string) {
		w := v.widgets[id]
		if w == nil {
			return
		}
		if val := strings.TrimSpace(v.text(w)); val != "" {
			*dst = val
		}
	}
	assignString("prompt", &cfg.Prompt)
	assignString("ollamaModel", &cfg.OllamaModel)
	assignString("outputFormat", &cfg.OutputFormat)
	assignInt("jpegQuality", &cfg.JPEGQuality)
	assignBool("saveCrops", &cfg.SaveCrops)
	assignBool("mirrorFront", &cfg.MirrorFront)
	if verr := cfg.Validate(); verr != nil {
		return
	}
	*v.cfg = cfg
	if err := v.cfg.Save(v.cfgPath); err != nil {
		if v.logger != nil {
			v.logger.Error("config save failed", "error", err)
		}
	} else {
		if v.logger != nil {
			v.logger.Info("config saved", "path", v.cfgPath)
		}
	}
	if v.onApply != nil {
		v.onApply(v.cfg)
	}
}

// parsing helpers (unexported)
func parseIntField(s string) (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return i, true
}
func parseBoolLoose(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "on", "t":
		return true, true
	case "false", "0", "no", "n", "off", "f":
		return false, true
	default:
		return false, false
	}
}
