package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasAny(t *testing.T) {
	assert.True(t, HasAny("Patchy light Drizzle", "rain", "drizzle"))
	assert.False(t, HasAny("Sunny", "cloud", "fog"))
	assert.False(t, HasAny("Overcast"))
}
