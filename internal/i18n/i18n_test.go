package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	require.NoError(t, Initialize())

	assert.Equal(t, "Product not found", T("en", KeyProductNotFound))
	assert.Equal(t, "Producto no encontrado", T("es", KeyProductNotFound))
	assert.Equal(t, "Invalid status", T("en", KeyValidationInvalid, "status"))

	// Unknown language falls back to English, unknown key to the key itself.
	assert.Equal(t, "Order not found", T("fr", KeyOrderNotFound))
	assert.Equal(t, "missing.key", T("en", "missing.key"))
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	require.NoError(t, Initialize())

	en := instance.translations["en"]
	es := instance.translations["es"]
	require.NotEmpty(t, en)

	for key := range en {
		assert.Contains(t, es, key, "es catalog missing %s", key)
	}
	assert.Equal(t, []string{"en", "es"}, GetSupportedLanguages())
	assert.True(t, Supported("es"))
	assert.False(t, Supported("zh_TW"))
}
