package errorhandler

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// suffixLen is the length of the random identity suffix.
const suffixLen = 9

// Allocator hands out error handler identities.
type Allocator interface {
	Allocate(name string) string
}

// UUIDAllocator builds identities from name and part of a random UUID.
type UUIDAllocator struct{}

// Allocate returns name-xxxxxxxxx.
func (UUIDAllocator) Allocate(name string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:suffixLen]
	return name + "-" + suffix
}

// SequenceAllocator builds predictable identities: name-1, name-2, ...
type SequenceAllocator struct {
	mu   sync.Mutex
	next int
}

// Allocate returns the next identity for name.
func (a *SequenceAllocator) Allocate(name string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.next++
	return fmt.Sprintf("%s-%d", name, a.next)
}
