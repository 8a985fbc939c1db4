package label

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFit(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		width     int
		want      string
		truncated bool
	}{
		{"fits", "Acme", 10, "Acme", false},
		{"exact", "Acme", 4, "Acme", false},
		{"overflow", "Acme Corporation", 8, "Acme Co…", true},
		{"no width", "Acme Corporation", 0, "Acme Corporation", false},
		{"wide runes", "日本語テキスト", 7, "日本語…", true},
		{"multiline", "raised\nseries A", 40, "raised series A", false},
		{"empty", "", 5, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fit(tt.text, tt.width)
			assert.Equal(t, tt.want, got.Text)
			assert.Equal(t, tt.truncated, got.Truncated)
			if tt.truncated {
				assert.NotEmpty(t, got.Tooltip)
				assert.LessOrEqual(t, Width(got.Text), tt.width)
			} else {
				assert.Empty(t, got.Tooltip, "tooltip only appears when truncated")
			}
		})
	}
}

func TestFit_TooltipHoldsFullText(t *testing.T) {
	got := Fit("Series B led by a very long investor name", 12)
	assert.Equal(t, "Series B led by a very long investor name", got.Tooltip)
}
