package countries

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedTable(t *testing.T) {
	table, err := Load()
	require.NoError(t, err)

	require.Equal(t, 81, table.Len())
	assert.Equal(t, "Andorra", table.Names()[0])

	code, ok := table.Code("United States")
	require.True(t, ok)
	assert.Equal(t, "US", code)

	code, ok = table.Code("Norway")
	require.True(t, ok)
	assert.Equal(t, "NO", code)

	code, _ = table.Code("United Kingdom")
	assert.Equal(t, "GB", code)
}

func TestCodeOrDefaultFallsBackToUS(t *testing.T) {
	table, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "FR", table.CodeOrDefault("France"))
	assert.Equal(t, DefaultCode, table.CodeOrDefault("Atlantis"))
	assert.Equal(t, DefaultCode, table.CodeOrDefault(""))
}

func TestParseKeepsOrder(t *testing.T) {
	table, err := Parse([]byte(`
countries:
  - name: "Zambia"
    code: "zm"
  - name: "Albania"
    code: "AL"
`))
	require.NoError(t, err)

	assert.Equal(t, []string{"Zambia", "Albania"}, table.Names())
	assert.Equal(t, []Country{{Name: "Zambia", Code: "ZM"}, {Name: "Albania", Code: "AL"}}, table.Entries())
}

func TestParseRejectsBadInput(t *testing.T) {
	_, err := Parse([]byte(`countries: []`))
	require.Error(t, err)

	_, err = Parse([]byte(`countries: [{name: "X", code: "XYZ"}]`))
	require.Error(t, err)

	_, err = Parse([]byte(`countries: [{name: "X", code: "XX"}, {name: "X", code: "XY"}]`))
	require.Error(t, err)

	_, err = Parse([]byte(`: not yaml :`))
	require.Error(t, err)
}

func TestNameOrDefaultMatchesCodeOrDefault(t *testing.T) {
	table, err := Load()
	require.NoError(t, err)

	name, ok := table.Name("de")
	require.True(t, ok)
	assert.Equal(t, "Germany", name)

	_, ok = table.Name("XX")
	assert.False(t, ok)

	assert.Equal(t, "France", table.NameOrDefault("France"))
	for _, unknown := range []string{"Atlantis", ""} {
		shown := table.NameOrDefault(unknown)
		assert.Equal(t, "United States", shown)
		assert.Equal(t, table.CodeOrDefault(unknown), table.CodeOrDefault(shown))
	}
}
