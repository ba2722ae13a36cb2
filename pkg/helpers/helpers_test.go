package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContains(t *testing.T) {
	versions := []string{"1.1", "2"}
	assert.True(t, Contains(versions, "2"))
	assert.False(t, Contains(versions, "3"))
	assert.False(t, Contains(nil, "2"))
}
