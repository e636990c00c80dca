package dbtypes

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringArrayScan_postgresLiteral(t *testing.T) {
	var tags StringArray
	require.NoError(t, tags.Scan(`{"casual","summer,beach","says \"hi\""}`))
	assert.Equal(t, StringArray{"casual", "summer,beach", `says "hi"`}, tags)
}

func TestStringArrayScan_emptyAndNil(t *testing.T) {
	var tags StringArray
	require.NoError(t, tags.Scan("{}"))
	assert.Empty(t, tags)

	require.NoError(t, tags.Scan(nil))
	assert.Empty(t, tags)

	assert.Error(t, tags.Scan(42))
}

func TestStringArrayValue_quotesElements(t *testing.T) {
	val, err := StringArray{"plain", `with "quote"`}.Value()
	require.NoError(t, err)
	assert.Equal(t, `{"plain","with \"quote\""}`, val)

	val, err = StringArray(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "{}", val)
}

func TestUUIDArrayScan_acceptsQuotedElements(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	var ids UUIDArray
	require.NoError(t, ids.Scan(`{"`+a.String()+`","`+b.String()+`"}`))
	assert.Equal(t, UUIDArray{a, b}, ids)

	// Value emits the unquoted form; Scan must take it back.
	val, err := ids.Value()
	require.NoError(t, err)
	var again UUIDArray
	require.NoError(t, again.Scan(val))
	assert.Equal(t, ids, again)
}

func TestUUIDArrayScan_rejectsMalformedIDs(t *testing.T) {
	var ids UUIDArray
	assert.Error(t, ids.Scan("{not-a-uuid}"))

	require.NoError(t, ids.Scan(nil))
	assert.Empty(t, ids)
}
