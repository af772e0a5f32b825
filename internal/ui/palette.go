package ui

import (
	"github.com/fatih/color"

	"github.com/quillpress/blog-client/internal/core/ports"
)

// Palette is the set of terminal colors for one theme.
type Palette struct {
	Title   *color.Color
	Muted   *color.Color
	Accent  *color.Color
	Success *color.Color
	Error   *color.Color
}

// Light is the palette for light terminals.
func Light() Palette {
	return Palette{
		Title:   color.New(color.FgBlack, color.Bold),
		Muted:   color.New(color.FgHiBlack),
		Accent:  color.New(color.FgGreen),
		Success: color.New(color.FgGreen),
		Error:   color.New(color.FgRed),
	}
}

// Dark is the palette for dark terminals.
func Dark() Palette {
	return Palette{
		Title:   color.New(color.FgHiWhite, color.Bold),
		Muted:   color.New(color.FgWhite),
		Accent:  color.New(color.FgHiGreen),
		Success: color.New(color.FgHiGreen),
		Error:   color.New(color.FgHiRed),
	}
}

// ThemeSource reports the active theme.
type ThemeSource interface {
	IsDark() bool
}

// Theme picks the palette from a ThemeSource each time it is used, so a
// toggle takes effect on the next render.
type Theme struct {
	src ThemeSource
}

func NewTheme(src ThemeSource) *Theme {
	return &Theme{src: src}
}

// Palette returns the palette of the active theme.
func (t *Theme) Palette() Palette {
	if t.src != nil && t.src.IsDark() {
		return Dark()
	}
	return Light()
}

// Style implements notify.Styler.
func (t *Theme) Style(level ports.NotificationLevel) *color.Color {
	p := t.Palette()
	if level == ports.LevelError {
		return p.Error
	}
	return p.Success
}
