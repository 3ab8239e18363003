package hashid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/pkg/hashid"
)

func TestEncodeDecode(t *testing.T) {
	enc, err := hashid.New("sal-de-prueba")
	require.NoError(t, err)

	code, err := enc.Encode(42)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(code), 8)

	n, err := enc.Decode(code)
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
}

func TestEncode_DistintaSalDistintoCodigo(t *testing.T) {
	a, _ := hashid.New("a")
	b, _ := hashid.New("b")
	ca, _ := a.Encode(1)
	cb, _ := b.Encode(1)
	assert.NotEqual(t, ca, cb)
}

func TestEncode_Unicos(t *testing.T) {
	enc, err := hashid.New("x")
	require.NoError(t, err)
	seen := map[string]bool{}
	for i := int64(1); i <= 500; i++ {
		c, err := enc.Encode(i)
		require.NoError(t, err)
		assert.False(t, seen[c], "código repetido %s", c)
		seen[c] = true
	}
}
