package surface

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/visualflats/pkg/math"
)

func TestDraggerGridSnapCarriesRemainder(t *testing.T) {
	var d Dragger
	d.arm(Camera{}, math.Vec3{}, 0, 0)

	dx, dy := d.step(math.Vec3{X: 5}, 0, 0, true, true, 8)
	assert.Equal(t, 0, dx)
	assert.Equal(t, 0, dy)

	dx, _ = d.step(math.Vec3{X: 9}, 0, 0, true, true, 8)
	assert.Equal(t, 8, dx)

	dx, _ = d.step(math.Vec3{X: 16}, 0, 0, true, true, 8)
	assert.Equal(t, 8, dx)

	dx, _ = d.step(math.Vec3{X: 18}, 0, 0, true, true, 8)
	assert.Equal(t, 0, dx)
}

func TestDraggerStepFree(t *testing.T) {
	var d Dragger
	d.arm(Camera{}, math.Vec3{X: 10, Y: 10}, 4, 4)

	dx, dy := d.step(math.Vec3{X: 13, Y: 12}, 0, 0, false, false, 8)
	assert.Equal(t, 3, dx)
	assert.Equal(t, -2, dy)

	// Deltas are relative to the previous step.
	dx, dy = d.step(math.Vec3{X: 14, Y: 12}, 0, 0, false, false, 8)
	assert.Equal(t, 1, dx)
	assert.Equal(t, 0, dy)
}

func TestDraggerStepRotated(t *testing.T) {
	var d Dragger
	d.arm(Camera{}, math.Vec3{}, 0, 0)

	// A 90 degree texture rotation turns motion along x into motion
	// along the texture's y axis.
	dx, dy := d.step(math.Vec3{X: 10}, 0, 90, false, false, 8)
	assert.Equal(t, 0, dx)
	assert.Equal(t, -10, dy)
}

func TestDraggerExceeded(t *testing.T) {
	var d Dragger
	d.arm(Camera{AngleXY: 1, AngleZ: -1}, math.Vec3{}, 0, 0)
	assert.Equal(t, DragArmed, d.State())
	assert.False(t, d.exceeded(Camera{AngleXY: 1.03, AngleZ: -1.02}, 0.06))
	assert.True(t, d.exceeded(Camera{AngleXY: 1.04, AngleZ: -1.03}, 0.06))
}

func TestLockAxes(t *testing.T) {
	offset := math.Vec2{X: 3, Y: 4}
	tests := []struct {
		angle        float64
		lockX, lockY bool
		want         math.Vec2
	}{
		{0, false, false, math.Vec2{X: 3, Y: 4}},
		{0, true, false, math.Vec2{X: 0, Y: 4}},
		{0, false, true, math.Vec2{X: 3, Y: 0}},
		{350, true, false, math.Vec2{X: 0, Y: 4}},
		{180, true, false, math.Vec2{X: 0, Y: 4}},
		{90, true, false, math.Vec2{X: 3, Y: 0}},
		{90, false, true, math.Vec2{X: 0, Y: 4}},
		{270, true, false, math.Vec2{X: 3, Y: 0}},
		{45, true, false, math.Vec2{X: 0, Y: 4}},
		{46, true, false, math.Vec2{X: 3, Y: 0}},
		{135, true, false, math.Vec2{X: 3, Y: 0}},
		{136, true, false, math.Vec2{X: 0, Y: 4}},
		{225, true, false, math.Vec2{X: 0, Y: 4}},
		{226, true, false, math.Vec2{X: 3, Y: 0}},
		{315, true, false, math.Vec2{X: 3, Y: 0}},
		{316, true, false, math.Vec2{X: 0, Y: 4}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, lockAxes(offset, tt.angle, tt.lockX, tt.lockY), "angle %v", tt.angle)
	}
}

func TestDraggerLockModifiers(t *testing.T) {
	var d Dragger
	d.arm(Camera{}, math.Vec3{}, 0, 0)

	// Ctrl alone locks x while looking along the x axis.
	dx, dy := d.step(math.Vec3{X: 5, Y: 7}, 0, 0, true, false, 8)
	assert.Equal(t, 0, dx)
	assert.Equal(t, -7, dy)
}

func TestSnapToGrid(t *testing.T) {
	assert.Equal(t, 0, snapToGrid(7, 8))
	assert.Equal(t, 8, snapToGrid(9, 8))
	assert.Equal(t, 16, snapToGrid(23, 8))
	assert.Equal(t, -8, snapToGrid(-9, 8))
	assert.Equal(t, 0, snapToGrid(-7, 8))
	assert.Equal(t, 5, snapToGrid(5, 0))
}
