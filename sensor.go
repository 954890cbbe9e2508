package tinsel

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
)

// Orientation is a device tilt reading in degrees. Beta is the front-to-back
// tilt and Gamma the left-to-right tilt. Alpha (compass heading) is carried
// for completeness and unused.
type Orientation struct {
	Alpha, Beta, Gamma float64
}

// Permission is the outcome of negotiating access to an orientation sensor.
type Permission uint8

const (
	PermissionUnavailable Permission = iota // no sensor, or never requested
	PermissionDenied                        // the sensor exists but access was refused
	PermissionGranted                       // readings flow into the scene
)

// String returns the permission name.
func (p Permission) String() string {
	switch p {
	case PermissionGranted:
		return "granted"
	case PermissionDenied:
		return "denied"
	}
	return "unavailable"
}

// ErrSensorUnavailable is returned by an OrientationSource that has no
// hardware to read from.
var ErrSensorUnavailable = errors.New("orientation sensor unavailable")

// OrientationSource supplies tilt readings to a Scene.
type OrientationSource interface {
	// Request asks for access to the sensor and may block on a user prompt.
	// It returns ErrSensorUnavailable when there is nothing to read, and
	// false when access is refused.
	Request(ctx context.Context) (bool, error)
	// Read returns the latest reading. ok is false when no new reading is
	// available.
	Read() (o Orientation, ok bool)
}

// RequestSensorPermission negotiates access to src and, when granted, polls
// it once per Tick. Gyro look and gyro snow only take effect while the
// permission is granted. A nil src is unavailable.
func (s *Scene) RequestSensorPermission(ctx context.Context, src OrientationSource) Permission {
	s.sensorSrc = nil
	if src == nil {
		s.sensor = PermissionUnavailable
		return s.sensor
	}
	ok, err := src.Request(ctx)
	switch {
	case errors.Is(err, ErrSensorUnavailable):
		s.sensor = PermissionUnavailable
	case err != nil:
		_, _ = fmt.Fprintf(os.Stderr, "[tinsel] sensor permission: %v\n", err)
		s.sensor = PermissionDenied
	case !ok:
		s.sensor = PermissionDenied
	default:
		s.sensor = PermissionGranted
		s.sensorSrc = src
	}
	return s.sensor
}

// SensorPermission returns the current sensor permission.
func (s *Scene) SensorPermission() Permission {
	return s.sensor
}

// SetOrientation pushes a tilt reading directly. Readings only take effect
// while a sensor permission is granted. Non-finite angles read as 0.
func (s *Scene) SetOrientation(o Orientation) {
	s.orientation = Orientation{
		Alpha: finiteOr(o.Alpha, 0),
		Beta:  finiteOr(o.Beta, 0),
		Gamma: finiteOr(o.Gamma, 0),
	}
}

// gyroActive reports whether tilt readings should influence the scene.
func (s *Scene) gyroActive() bool {
	return s.sensor == PermissionGranted
}

// pollSensor pulls the latest reading from the granted source.
func (s *Scene) pollSensor() {
	if s.sensorSrc == nil || s.sensor != PermissionGranted {
		return
	}
	if o, ok := s.sensorSrc.Read(); ok {
		s.SetOrientation(o)
	}
}

// --- Gamepad tilt ---

// GamepadTilt is an OrientationSource that maps the left stick of the first
// connected gamepad onto device tilt, so desktop hosts can exercise gyro
// look and gyro snow. Stick x maps to gamma in [-45, 45] and stick y to
// beta in [0, 90], centred on a natural 45 degree hold.
type GamepadTilt struct {
	ids []ebiten.GamepadID
}

// Request reports ErrSensorUnavailable when no standard gamepad is
// connected. A connected pad is always granted.
func (g *GamepadTilt) Request(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if _, ok := g.pad(); !ok {
		return false, ErrSensorUnavailable
	}
	return true, nil
}

// Read samples the left stick. It must be called from the game loop.
func (g *GamepadTilt) Read() (Orientation, bool) {
	id, ok := g.pad()
	if !ok {
		return Orientation{}, false
	}
	x := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
	y := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
	return Orientation{Beta: 45 + y*45, Gamma: x * 45}, true
}

// pad returns the first connected gamepad with a standard layout.
func (g *GamepadTilt) pad() (ebiten.GamepadID, bool) {
	g.ids = ebiten.AppendGamepadIDs(g.ids[:0])
	for _, id := range g.ids {
		if ebiten.IsStandardGamepadLayoutAvailable(id) {
			return id, true
		}
	}
	return 0, false
}
