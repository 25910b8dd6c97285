package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	require.NotNil(t, theme)
	assert.NotEmpty(t, string(theme.Primary))
	assert.NotEmpty(t, string(theme.Secondary))
	assert.NotEmpty(t, string(theme.Foreground))
	assert.NotEmpty(t, string(theme.Muted))
	assert.NotEmpty(t, string(theme.Success))
	assert.NotEmpty(t, string(theme.Warning))
	assert.NotEmpty(t, string(theme.Error))
	assert.NotEmpty(t, string(theme.Border))
}

func TestDefaultTheme_BandColoursAreDistinct(t *testing.T) {
	theme := DefaultTheme()

	bands := []lipgloss.Color{theme.Success, theme.Warning, theme.Error}

	seen := make(map[string]bool)
	for _, c := range bands {
		assert.False(t, seen[string(c)], "duplicate colour: %s", c)
		seen[string(c)] = true
	}
}

func TestNewStyles_WithTheme(t *testing.T) {
	theme := DefaultTheme()
	styles := NewStyles(theme)

	require.NotNil(t, styles)
	assert.Equal(t, theme, styles.Theme())
}

func TestNewStyles_NilTheme(t *testing.T) {
	styles := NewStyles(nil)

	require.NotNil(t, styles)
	assert.NotNil(t, styles.Theme())
}

func TestStyles_Score(t *testing.T) {
	s := DefaultStyles()
	theme := s.Theme()

	tests := []struct {
		name       string
		similarity float64
		want       lipgloss.TerminalColor
	}{
		{"zero", 0, theme.Success},
		{"medium band lower bound is low", MediumSimilarity, theme.Success},
		{"medium", 0.5, theme.Warning},
		{"high band lower bound is medium", HighSimilarity, theme.Warning},
		{"high", 0.95, theme.Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Score(tt.similarity).GetForeground())
		})
	}
}
