package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestMatch(t *testing.T) {
	catalog, err := New()
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   language.Tag
	}{
		{"english", "en", language.English},
		{"polish", "pl", language.Polish},
		{"regional polish", "pl-PL", language.Polish},
		{"quality weighted", "pl;q=0.9,en;q=0.8", language.Polish},
		{"unsupported falls back", "de", language.English},
		{"empty header", "", language.English},
		{"garbage header", ";;;", language.English},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, catalog.Match(tt.header))
		})
	}
}

func TestResolve(t *testing.T) {
	catalog, err := New()
	require.NoError(t, err)

	assert.Equal(t, "User created", catalog.Resolve("user_create_success", language.English))
	assert.Equal(t, "Użytkownik utworzony", catalog.Resolve("user_create_success", language.Polish))
}

func TestResolve_UnknownKeyPassesThrough(t *testing.T) {
	catalog, err := New()
	require.NoError(t, err)

	assert.Equal(t, "no_such_key", catalog.Resolve("no_such_key", language.English))
}
