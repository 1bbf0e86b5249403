package ndjson

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	t.Run("skips blank lines", func(t *testing.T) {
		records, err := Decode(strings.NewReader("{\"id\":\"1\"}\n\n{\"id\":\"2\"}"))
		require.NoError(t, err)

		require.Len(t, records, 2)
		assert.Equal(t, "1", records[0].ID())
		assert.Equal(t, "2", records[1].ID())
	})

	t.Run("preserves input order", func(t *testing.T) {
		input := "{\"id\":\"a\"}\n{\"id\":\"b\"}\n{\"id\":\"c\"}\n"
		records, err := Decode(strings.NewReader(input))
		require.NoError(t, err)

		require.Len(t, records, 3)
		assert.Equal(t, "a", records[0].ID())
		assert.Equal(t, "b", records[1].ID())
		assert.Equal(t, "c", records[2].ID())
	})

	t.Run("decodes nested product payload", func(t *testing.T) {
		input := `{"id":"gid://shopify/Product/1","title":"Shirt","variants":[{"id":"v1","sku":"S-1"}]}`
		records, err := Decode(strings.NewReader(input))
		require.NoError(t, err)

		require.Len(t, records, 1)
		assert.Equal(t, "Shirt", records[0]["title"])
	})

	t.Run("empty stream yields no records", func(t *testing.T) {
		records, err := Decode(strings.NewReader("\n\n"))
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("malformed line fails the whole decode", func(t *testing.T) {
		input := "{\"id\":\"1\"}\nnot-json\n{\"id\":\"3\"}"
		records, err := Decode(strings.NewReader(input))

		assert.Nil(t, records)
		var parseErr *ParseError
		require.True(t, errors.As(err, &parseErr))
		assert.Equal(t, 2, parseErr.Line)
	})

	t.Run("whitespace-only lines are treated as blank", func(t *testing.T) {
		records, err := Decode(strings.NewReader("{\"id\":\"1\"}\n   \t \n{\"id\":\"2\"}"))
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})
}
