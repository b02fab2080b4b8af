package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZoneForCountry(t *testing.T) {
	assert.Equal(t, ZoneItaly, ZoneForCountry("IT").Key)
	assert.Equal(t, ZoneEurope, ZoneForCountry("DE").Key)
	assert.Equal(t, ZoneAmericas, ZoneForCountry("BR").Key)

	// Unlisted countries fall through to the catch-all zone.
	assert.Equal(t, ZoneRestOfWorld, ZoneForCountry("JP").Key)
	assert.Equal(t, ZoneRestOfWorld, ZoneForCountry("").Key)
}

func TestZoneListOrder(t *testing.T) {
	list := ZoneList()
	assert.Len(t, list, len(ZoneOrder))
	for i, z := range list {
		assert.Equal(t, ZoneOrder[i], z.Key)
	}
	// Only the last zone is open-ended.
	for _, z := range list[:len(list)-1] {
		assert.NotEmpty(t, z.Countries)
	}
	assert.Empty(t, list[len(list)-1].Countries)
}
