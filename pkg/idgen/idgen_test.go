package idgen

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_Ordered(t *testing.T) {
	ids := make([]string, 100)
	for i := range ids {
		ids[i] = New()
	}

	assert.True(t, sort.StringsAreSorted(ids), "UUIDv7按生成顺序递增")
	for _, id := range ids {
		assert.True(t, Valid(id))
	}
}

func TestValid(t *testing.T) {
	assert.False(t, Valid(""))
	assert.False(t, Valid("not-a-uuid"))
	assert.True(t, Valid("0190a5c2-1f4e-7b3a-8c1d-2e3f4a5b6c7d"))
}
