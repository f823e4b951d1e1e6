package aws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSecretMap(t *testing.T) {
	values, err := parseSecretMap(`{"POSTGRES_USER":"kithly","POSTGRES_PASSWORD":"s3cret","POSTGRES_HOST":null}`)

	require.NoError(t, err)
	assert.Equal(t, "kithly", values["POSTGRES_USER"])
	assert.Equal(t, "s3cret", values["POSTGRES_PASSWORD"])
	assert.NotContains(t, values, "POSTGRES_HOST", "null entries are dropped")
}

func TestParseSecretMap_NotAnObject(t *testing.T) {
	_, err := parseSecretMap(`"just-a-string"`)
	assert.Error(t, err)
}
