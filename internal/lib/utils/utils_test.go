package utils

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyIfNil(t *testing.T) {
	var movies []string
	encoded, err := json.Marshal(EmptyIfNil(movies))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(encoded))

	kept := []string{"Alien"}
	assert.Equal(t, kept, EmptyIfNil(kept))
}
