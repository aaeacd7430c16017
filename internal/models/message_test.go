package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanDeleteForEveryone(t *testing.T) {
	now := time.Now()

	assert.True(t, CanDeleteForEveryone(now.Add(-time.Minute), now))
	assert.True(t, CanDeleteForEveryone(now.Add(-DeleteForEveryoneWindow), now), "exactly at the window boundary is allowed")
	assert.False(t, CanDeleteForEveryone(now.Add(-DeleteForEveryoneWindow-time.Second), now))
}
