package loop

import "walkcore/internal/player"

// HeldInput replays the most recently set look yaw and movement axes on
// every sub-step. Device polling happens once per rendered frame; the
// on-floor flag is re-read per sub-step so the mapper picks ground or air
// acceleration correctly.
type HeldInput struct {
	mapper player.Mapper
	yaw    float64
	axes   player.Axes
}

func NewHeldInput(mapper player.Mapper) *HeldInput {
	return &HeldInput{mapper: mapper}
}

// Set replaces the yaw (radians) and axes used until the next call.
func (h *HeldInput) Set(yaw float64, axes player.Axes) {
	h.yaw = yaw
	h.axes = axes
}

func (h *HeldInput) Axes() (yaw float64, axes player.Axes) {
	return h.yaw, h.axes
}

func (h *HeldInput) Sample(onFloor bool, dt float64) player.Input {
	return h.mapper.Map(h.yaw, h.axes, onFloor)
}
