package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryFirstAndLastConnection(t *testing.T) {
	registry := NewRegistry()

	assert.True(t, registry.Register(1, "c1"), "first connection is the online transition")
	assert.False(t, registry.Register(1, "c2"), "second device stays silent")
	assert.True(t, registry.IsOnline(1))

	assert.False(t, registry.Unregister(1, "c1"), "one device left, still online")
	assert.True(t, registry.IsOnline(1))

	assert.True(t, registry.Unregister(1, "c2"), "last connection is the offline transition")
	assert.False(t, registry.IsOnline(1))
}

func TestRegistryUnknownConnection(t *testing.T) {
	registry := NewRegistry()

	assert.False(t, registry.Unregister(1, "ghost"))

	registry.Register(1, "c1")
	assert.False(t, registry.Unregister(1, "ghost"), "unknown conn never reports a transition")
	assert.True(t, registry.IsOnline(1))
}

func TestRegistryConnectionsFor(t *testing.T) {
	registry := NewRegistry()
	registry.Register(1, "c1")
	registry.Register(1, "c2")
	registry.Register(2, "c3")

	ids := registry.ConnectionsFor(1)
	assert.ElementsMatch(t, []string{"c1", "c2"}, ids)
	assert.Empty(t, registry.ConnectionsFor(3))
}
