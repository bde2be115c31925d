package errorhandler

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUUIDAllocator(t *testing.T) {
	alloc := UUIDAllocator{}
	pattern := regexp.MustCompile(`^Categories-[0-9a-f]{9}$`)

	seen := make(map[string]bool)
	for range 100 {
		id := alloc.Allocate("Categories")
		assert.Regexp(t, pattern, id)
		assert.False(t, seen[id], "identity %s allocated twice", id)
		seen[id] = true
	}
}

func TestSequenceAllocator(t *testing.T) {
	var alloc SequenceAllocator

	assert.Equal(t, "Search-1", alloc.Allocate("Search"))
	assert.Equal(t, "Search-2", alloc.Allocate("Search"))
	assert.Equal(t, "Home-3", alloc.Allocate("Home"))
}
