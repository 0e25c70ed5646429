package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestManager_EnsureAllocatesOnce(t *testing.T) {
	m := NewManager(zap.NewNop())
	at := time.Unix(1700000000, 0)

	s1, created := m.Ensure(42, 10, at)
	require.True(t, created)
	assert.Equal(t, "42_1700000000", s1.ThreadID)
	assert.Equal(t, VariantDefault, s1.Variant)

	s2, created := m.Ensure(42, 11, at.Add(time.Minute))
	assert.False(t, created)
	assert.Equal(t, s1.ThreadID, s2.ThreadID)
}

func TestManager_ThreadIDsUniqueAcrossUsers(t *testing.T) {
	m := NewManager(nil)
	at := time.Unix(1700000000, 0)

	a, _ := m.Ensure(1, 1, at)
	b, _ := m.Ensure(2, 1, at)
	assert.NotEqual(t, a.ThreadID, b.ThreadID)
}

func TestManager_StartReplacesThread(t *testing.T) {
	m := NewManager(zap.NewNop())

	s1 := m.Start(42, VariantDefault, 1, time.Unix(1700000000, 0))
	s2 := m.Start(42, VariantCorporate, 2, time.Unix(1700000001, 0))

	assert.NotEqual(t, s1.ThreadID, s2.ThreadID)
	assert.Equal(t, VariantCorporate, s2.Variant)

	got, ok := m.Get(42)
	require.True(t, ok)
	assert.Equal(t, s2.ThreadID, got.ThreadID)
}

func TestManager_RotateKeepsVariant(t *testing.T) {
	m := NewManager(zap.NewNop())

	s := m.Start(42, VariantCorporate, 1, time.Unix(1700000000, 0))
	newID := m.Rotate(42, time.Unix(1700000005, 0))

	assert.NotEqual(t, s.ThreadID, newID)

	got, ok := m.Get(42)
	require.True(t, ok)
	assert.Equal(t, newID, got.ThreadID)
	assert.Equal(t, VariantCorporate, got.Variant)
}

func TestManager_RotateWithoutSession(t *testing.T) {
	m := NewManager(zap.NewNop())

	id := m.Rotate(7, time.Unix(1700000000, 0))
	assert.Equal(t, "7_1700000000", id)

	got, ok := m.Get(7)
	require.True(t, ok)
	assert.Equal(t, VariantDefault, got.Variant)
}

func TestManager_Touch(t *testing.T) {
	m := NewManager(zap.NewNop())
	m.Start(42, VariantDefault, 1, time.Unix(1700000000, 0))

	m.Touch(42, 99)
	got, _ := m.Get(42)
	assert.Equal(t, 99, got.LastMessageID)

	// Touch for an unknown user must not allocate a session.
	m.Touch(43, 1)
	_, ok := m.Get(43)
	assert.False(t, ok)
}
