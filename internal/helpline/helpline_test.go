package helpline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAll(t *testing.T) {
	all := All()
	require.Len(t, all, 4)
	assert.Equal(t, "Kisan Call Centre", all[0].Name)
	assert.Equal(t, "tel:18001801551", all[0].TelURI())

	all[0].Name = "changed"
	assert.Equal(t, "Kisan Call Centre", All()[0].Name)
}

func TestSearch(t *testing.T) {
	assert.Len(t, Search(""), 4)
	got := Search("seeds")
	require.Len(t, got, 1)
	assert.Equal(t, "1800-11-0088", got[0].NumberDisplay)
	assert.Empty(t, Search("tractor"))
}
