package drivetrain

import (
	"fmt"

	"github.com/sprite-ai/veloratio/internal/model"
)

// Direction is a rear shift direction.
type Direction int

const (
	// Harder moves to a smaller cog (higher cassette index).
	Harder Direction = iota
	// Easier moves to a larger cog (lower cassette index).
	Easier
)

func (d Direction) String() string {
	switch d {
	case Harder:
		return "harder"
	case Easier:
		return "easier"
	default:
		return "unknown"
	}
}

// ParseDirection accepts "harder"/"up" and "easier"/"down".
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "harder", "up":
		return Harder, true
	case "easier", "down":
		return Easier, true
	}
	return Harder, false
}

// Teeth returns the chainring and cog teeth for sel.
func Teeth(sel model.GearSelection, cfg model.DrivetrainConfig) (front, rear int) {
	sel = sel.Clamp(cfg)
	return cfg.Chainrings[sel.Front], cfg.Cassette[sel.Rear]
}

// ShiftRear moves one cog in dir, staying put at either end of the cassette.
func ShiftRear(sel model.GearSelection, cfg model.DrivetrainConfig, dir Direction) model.GearSelection {
	sel = sel.Clamp(cfg)
	switch dir {
	case Harder:
		if sel.Rear < len(cfg.Cassette)-1 {
			sel.Rear++
		}
	case Easier:
		if sel.Rear > 0 {
			sel.Rear--
		}
	}
	return sel
}

// SelectRear jumps to a cog index, clamped to the cassette.
func SelectRear(sel model.GearSelection, cfg model.DrivetrainConfig, idx int) model.GearSelection {
	sel.Rear = idx
	return sel.Clamp(cfg)
}

// ToggleFront swaps rings on a double and cycles through larger sets.
func ToggleFront(sel model.GearSelection, cfg model.DrivetrainConfig) model.GearSelection {
	sel = sel.Clamp(cfg)
	sel.Front = (sel.Front + 1) % len(cfg.Chainrings)
	return sel
}

// GearNumber is the rider-facing cog number, counting the smallest cog as 1.
func GearNumber(sel model.GearSelection, cfg model.DrivetrainConfig) int {
	return len(cfg.Cassette) - sel.Clamp(cfg).Rear
}

// SelectByTeeth moves sel onto the chainring and cog with the given tooth
// counts. Zero leaves that side unchanged.
func SelectByTeeth(sel model.GearSelection, cfg model.DrivetrainConfig, frontTeeth, rearTeeth int) (model.GearSelection, error) {
	sel = sel.Clamp(cfg)
	if frontTeeth != 0 {
		i := indexOf(cfg.Chainrings, frontTeeth)
		if i < 0 {
			return sel, fmt.Errorf("no %dT chainring in %v", frontTeeth, cfg.Chainrings)
		}
		sel.Front = i
	}
	if rearTeeth != 0 {
		i := indexOf(cfg.Cassette, rearTeeth)
		if i < 0 {
			return sel, fmt.Errorf("no %dT cog in %v", rearTeeth, cfg.Cassette)
		}
		sel.Rear = i
	}
	return sel, nil
}

func indexOf(teeth []int, t int) int {
	for i, v := range teeth {
		if v == t {
			return i
		}
	}
	return -1
}
