package dnd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePosition(t *testing.T) {
	target := Rect{Top: 0, Height: 40}
	assert.Equal(t, PositionTop, ResolvePosition(10, target))
	assert.Equal(t, PositionBottom, ResolvePosition(20, target))
	assert.Equal(t, PositionBottom, ResolvePosition(35, target))
}

func TestCollisionRect(t *testing.T) {
	got := CollisionRect(Rect{Left: 0, Top: 100, Width: 100, Height: 20})
	assert.Equal(t, Rect{Left: 42, Top: 88, Width: 16, Height: 44}, got)

	narrow := CollisionRect(Rect{Left: 5, Top: 0, Width: 10, Height: 10})
	assert.Equal(t, Rect{Left: 5, Top: -12, Width: 10, Height: 34}, narrow)
}

func TestRect_Intersection(t *testing.T) {
	a := Rect{Left: 0, Top: 0, Width: 10, Height: 10}
	b := Rect{Left: 5, Top: 5, Width: 10, Height: 10}
	assert.InDelta(t, 25.0, a.Intersection(b), 1e-9)
	assert.InDelta(t, 25.0/175.0, a.IntersectionRatio(b), 1e-9)

	c := Rect{Left: 10, Top: 0, Width: 10, Height: 10}
	assert.Zero(t, a.Intersection(c))
	assert.Zero(t, a.IntersectionRatio(c))
}

func TestDetectCollision(t *testing.T) {
	zones := Zones([]Target{
		{ID: "a", Rect: Rect{Left: 0, Top: 0, Width: 100, Height: 40}},
		{ID: "b", Rect: Rect{Left: 0, Top: 40, Width: 100, Height: 40}},
	})
	require.Len(t, zones, 4)
	assert.Equal(t, Rect{Left: 0, Top: 60, Width: 100, Height: 20}, zones[3].Rect)

	zone, ok := DetectCollision(Rect{Left: 0, Top: 45, Width: 100, Height: 10}, zones)
	require.True(t, ok)
	assert.Equal(t, "b", zone.ID)
	assert.Equal(t, PositionTop, zone.Position)

	_, ok = DetectCollision(Rect{Left: 500, Top: 500, Width: 10, Height: 10}, zones)
	assert.False(t, ok)
}
