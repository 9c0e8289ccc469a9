package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"

	"walkcore/internal/player"
)

func TestLookClampsPitch(t *testing.T) {
	c := New()
	c.Look(0, -5000)
	assert.Equal(t, 89.0, c.Pitch)
	c.Look(0, 5000)
	assert.Equal(t, -89.0, c.Pitch)
}

func TestLookWrapsYaw(t *testing.T) {
	c := New()
	c.Yaw = 0
	c.Look(3700, 0) // 370 degrees
	assert.InDelta(t, 10, c.Yaw, 1e-9)
}

func TestForwardMatchesMovement(t *testing.T) {
	c := New()
	for _, yaw := range []float64{-90, 0, 45, 170} {
		c.Yaw, c.Pitch = yaw, 0
		f := c.Forward()
		assert.InDelta(t, 0, f.Sub(player.ForwardVector(c.YawRadians())).Len(), 1e-12)
	}

	c.Pitch = 89
	assert.Greater(t, c.Forward().Y(), 0.99)
	assert.InDelta(t, 1, c.Forward().Len(), 1e-12)
}

func TestEyeOffset(t *testing.T) {
	c := New()
	head := mgl64.Vec3{1, 1, 1}
	assert.Equal(t, head, c.Eye(head))

	c.Offset = mgl64.Vec3{0, 0.2, 0}
	assert.InDelta(t, 0, c.Eye(head).Sub(mgl64.Vec3{1, 1.2, 1}).Len(), 1e-9)
	assert.InDelta(t, 0, c.Target(head).Sub(c.Eye(head)).Sub(c.Forward()).Len(), 1e-9)
}
