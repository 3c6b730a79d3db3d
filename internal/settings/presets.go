package settings

import "fmt"

const (
	PresetDefault    = "default"
	PresetHighlight  = "highlight"
	PresetMinimal    = "minimal"
	PresetColorblind = "colorblind"
)

// Presets lists the preset names ApplyPreset accepts.
func Presets() []string {
	return []string{PresetDefault, PresetHighlight, PresetMinimal, PresetColorblind}
}

// ApplyPreset rewrites visual settings in place.
func (b *Blob) ApplyPreset(name string) error {
	switch name {
	case PresetDefault:
		b.VisualSettings = DefaultVisualSettings()
		b.GlobalVisualSettings = defaultGlobal()
		b.GlobalVisualSettings.NodeShadow = false
		b.GlobalVisualSettings.HighlightGlow = false
		b.GlobalVisualSettings.ShowEdgeLabel = false
	case PresetHighlight:
		for rel, v := range b.VisualSettings {
			v.LineWidth = max(4, v.LineWidth)
			v.Opacity = min(100, v.Opacity+20)
			b.VisualSettings[rel] = v
		}
		b.GlobalVisualSettings.HighlightGlow = true
		b.GlobalVisualSettings.ShowEdgeLabel = true
	case PresetMinimal:
		for rel, v := range b.VisualSettings {
			v.LineWidth = 1
			v.Opacity = 30
			v.ShowIcon = false
			b.VisualSettings[rel] = v
		}
		b.GlobalVisualSettings.NodeShadow = false
		b.GlobalVisualSettings.HighlightGlow = false
		b.GlobalVisualSettings.ShowEdgeLabel = false
	case PresetColorblind:
		b.Settings.ColorBlindMode = true
		b.GlobalVisualSettings.NodeShadow = true
		b.GlobalVisualSettings.ShowEdgeLabel = true
	default:
		return fmt.Errorf("unknown preset %q", name)
	}
	return nil
}
