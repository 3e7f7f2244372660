package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectionCenter(t *testing.T) {
	d := Detection{Box: BoundingBox{X: 10, Y: 20, Width: 8, Height: 6}}
	x, y := d.Center()
	require.Equal(t, 14, x)
	require.Equal(t, 23, y)
}

func TestDetectionLabel(t *testing.T) {
	d := Detection{Class: "BALL", Color: "RED"}
	require.Equal(t, "RED BALL", d.Label())
}

func TestSortDetections(t *testing.T) {
	dets := []Detection{
		{Class: "c", Box: BoundingBox{X: 5, Y: 40}, Area: 1},
		{Class: "a", Box: BoundingBox{X: 30, Y: 10}, Area: 1},
		{Class: "b", Box: BoundingBox{X: 5, Y: 10}, Area: 1},
		{Class: "big", Box: BoundingBox{X: 5, Y: 40}, Area: 9},
	}
	SortDetections(dets)

	var order []string
	for _, d := range dets {
		order = append(order, d.Class)
	}
	require.Equal(t, []string{"b", "a", "big", "c"}, order)
}
