package viz

import "github.com/charmbracelet/lipgloss"

// Theme is a color scheme for the explorer.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Error   lipgloss.Color
}

var Themes = []Theme{
	{Name: "cyberpunk", Primary: "#00ffff", Accent: "#ff00ff", Text: "#ffffff", Muted: "#666688", Error: "#ff4444"},
	{Name: "retro", Primary: "#00ff00", Accent: "#88ff88", Text: "#00ff00", Muted: "#005500", Error: "#ff0000"},
	{Name: "minimal", Primary: "#ffffff", Accent: "#0088ff", Text: "#ffffff", Muted: "#888888", Error: "#ff0000"},
}

// Styles are the lipgloss styles derived from a theme.
type Styles struct {
	Title, Label, Value, Graph, Hint, Error, Panel lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Title: lipgloss.NewStyle().Bold(true).Foreground(t.Primary).MarginBottom(1),
		Label: lipgloss.NewStyle().Foreground(t.Muted).Width(14),
		Value: lipgloss.NewStyle().Foreground(t.Text).Bold(true),
		Graph: lipgloss.NewStyle().Foreground(t.Accent).Padding(1, 0),
		Hint:  lipgloss.NewStyle().Foreground(t.Muted).Italic(true).MarginTop(1),
		Error: lipgloss.NewStyle().Foreground(t.Error).Bold(true),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(0, 2),
	}
}

// Row renders a label/value pair.
func (s Styles) Row(label, value string) string {
	return s.Label.Render(label) + s.Value.Render(value)
}
