package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	pkgs := c.Packages()
	require.Len(t, pkgs, 3)
	assert.Equal(t, 30, pkgs[0].DayCount)
	assert.Equal(t, 90, pkgs[1].DayCount)
	assert.Equal(t, 365, pkgs[2].DayCount)
	assert.Equal(t, "9.99", pkgs[0].Price.StringFixed(2))
	assert.Equal(t, "$9.99", string(pkgs[0].PriceHTML))
	assert.Contains(t, string(pkgs[1].PriceHTML), "<del>")
}

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		data        string
		errContains string
	}{
		{
			name:        "no packages",
			data:        `symbol = "$"`,
			errContains: "no packages",
		},
		{
			name: "zero day count",
			data: `
[[package]]
day_count = 0
price = "1"`,
			errContains: "day_count must be positive",
		},
		{
			name: "duplicate day count",
			data: `
[[package]]
day_count = 30
price = "1"
[[package]]
day_count = 30
price = "2"`,
			errContains: "duplicate package",
		},
		{
			name: "bad price",
			data: `
[[package]]
day_count = 30
price = "cheap"`,
			errContains: "invalid price",
		},
		{
			name: "negative price",
			data: `
[[package]]
day_count = 30
price = "-1"`,
			errContains: "must not be negative",
		},
		{
			name:        "malformed toml",
			data:        `[[package]`,
			errContains: "decoding catalog",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse(tt.data)
			assert.Nil(t, c)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestPriceHTMLIsSanitized(t *testing.T) {
	c, err := Parse(`
[[package]]
day_count = 7
price = "2.5"
price_html = "<b>$2.50</b><script>alert(1)</script>"

[[package]]
day_count = 14
price = "4"
`)
	require.NoError(t, err)

	p, ok := c.Find(7)
	require.True(t, ok)
	assert.Equal(t, "<b>$2.50</b>", string(p.PriceHTML))

	p, ok = c.Find(14)
	require.True(t, ok)
	assert.Equal(t, "4.00", string(p.PriceHTML))

	_, ok = c.Find(30)
	assert.False(t, ok)
}

func TestLoad(t *testing.T) {
	t.Run("empty path loads default", func(t *testing.T) {
		c, err := Load("")
		require.NoError(t, err)
		assert.Len(t, c.Packages(), 3)
	})

	t.Run("file on disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "packages.toml")
		require.NoError(t, os.WriteFile(path, []byte(`
symbol = "₺"
[[package]]
day_count = 30
price = "299"
`), 0o600))

		c, err := Load(path)
		require.NoError(t, err)
		p, ok := c.Find(30)
		require.True(t, ok)
		assert.Equal(t, "₺299.00", string(p.PriceHTML))
		assert.Equal(t, 30, Selection(p).DayCount)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
		assert.Error(t, err)
	})
}
