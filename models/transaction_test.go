package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringListScan(t *testing.T) {
	var l StringList
	require.NoError(t, l.Scan(`["Tarpaulin","Tent"]`))
	assert.Equal(t, StringList{"Tarpaulin", "Tent"}, l)

	require.NoError(t, l.Scan([]byte(`[]`)))
	assert.Empty(t, l)

	require.NoError(t, l.Scan(nil))
	assert.Empty(t, l)

	assert.Error(t, l.Scan(42))
}

func TestStringListValueOfNil(t *testing.T) {
	var l StringList
	v, err := l.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v, "nil list must not serialize as null")
}

func TestTransactionReturned(t *testing.T) {
	tx := Transaction{Status: StatusIssued}
	assert.False(t, tx.Returned())

	tx.ReturnDate = "2024-01-10"
	assert.True(t, tx.Returned())
}
