package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestByName(t *testing.T) {
	assert.Equal(t, "flexoki-light", ByName("flexoki-light").Name)
	assert.Equal(t, FlexokiDark.Name, ByName("nope").Name)

	_, ok := Lookup("nope")
	assert.False(t, ok)
	assert.Equal(t, []string{"flexoki-dark", "flexoki-light", "catppuccin-mocha", "terminal"}, Names())
}

func TestSetActive(t *testing.T) {
	defer SetActive(FlexokiDark.Name)
	SetActive("terminal")
	assert.Equal(t, Terminal, Active)
}

func TestRoles(t *testing.T) {
	th := FlexokiDark
	assert.Equal(t, th.Overrun, th.Flag(true))
	assert.Equal(t, th.OnTrack, th.Flag(false))
	assert.Equal(t, th.Revenue, th.Series(true))
	assert.Equal(t, th.Accent, th.Series(false))

	tests := map[float64]string{
		0.1:  string(th.OnTrack),
		0.5:  string(th.Watch),
		0.75: string(th.NearLimit),
		0.9:  string(th.Overrun),
		1.4:  string(th.Overrun),
	}
	for pct, want := range tests {
		assert.Equal(t, want, string(th.Consumption(pct)), "pct %v", pct)
	}
}
