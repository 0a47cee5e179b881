package maze

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDirection is returned when a direction name cannot be parsed.
var ErrInvalidDirection = errors.New("invalid direction")

// Direction is one of the four axis-aligned moves. It doubles as the index
// into a cell's wall array.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists every direction in wall-array order.
var Directions = [...]Direction{Up, Down, Left, Right}

var directionNames = [...]string{"up", "down", "left", "right"}

func (d Direction) String() string {
	if d < Up || d > Right {
		return fmt.Sprintf("direction(%d)", int(d))
	}
	return directionNames[d]
}

// Valid reports whether d is one of the four directions.
func (d Direction) Valid() bool {
	return d >= Up && d <= Right
}

// Opposite returns the direction facing back across the same wall.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
}

// Delta returns the row and column offset of one step in d.
func (d Direction) Delta() (dr, dc int) {
	switch d {
	case Up:
		return -1, 0
	case Down:
		return 1, 0
	case Left:
		return 0, -1
	default:
		return 0, 1
	}
}

// ParseDirection converts a user supplied name into a Direction. Besides the
// four canonical names it accepts top/bottom, the compass names and the
// single-letter w/a/s/d keys.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "top", "north", "n", "w":
		return Up, nil
	case "down", "bottom", "south", "s":
		return Down, nil
	case "left", "west", "a":
		return Left, nil
	case "right", "east", "e", "d":
		return Right, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}
