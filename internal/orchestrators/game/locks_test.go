package game

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionLockReusesMutexUntilDropped(t *testing.T) {
	o := &Orchestrator{locks: make(map[string]*sync.Mutex)}

	first := o.sessionLock("sess_1")
	assert.Same(t, first, o.sessionLock("sess_1"))
	assert.NotSame(t, first, o.sessionLock("sess_2"))
	assert.Len(t, o.locks, 2)

	o.dropSessionLock("sess_1")
	assert.Len(t, o.locks, 1)
	assert.NotSame(t, first, o.sessionLock("sess_1"))
}

func TestDropSessionLockUnknownIDIsHarmless(t *testing.T) {
	o := &Orchestrator{locks: make(map[string]*sync.Mutex)}
	o.dropSessionLock("never-seen")
	assert.Empty(t, o.locks)
}
