package tinsel

import "github.com/go-gl/mathgl/mgl64"

// LightKind distinguishes how a light is placed and colored.
type LightKind uint8

const (
	LightTree    LightKind = iota // body of the cone; color shifts between two palette entries
	LightGarland                  // bulb on a garland strand
	LightTrunk                    // warm glow clustered near the base
	LightStar                     // sparkle cluster at the apex
)

// String returns the kind name.
func (k LightKind) String() string {
	switch k {
	case LightTree:
		return "tree"
	case LightGarland:
		return "garland"
	case LightTrunk:
		return "trunk"
	case LightStar:
		return "star"
	}
	return "unknown"
}

// Light is one bulb of the tree. Coordinates: x right, y down (screen space),
// z depth away from the viewer, with x = 0 on the tree axis.
type Light struct {
	X, Y, Z float64
	Radius  float64
	// ColorIndex and AltColorIndex index Palette. Tree lights drift between
	// the two over time.
	ColorIndex    int
	AltColorIndex int
	Phase         float64
	TwinkleSpeed  float64
	ShiftSpeed    float64
	// Drift scales the ambient sway applied to this light, in [-0.75, 0.75].
	Drift float64
	Kind  LightKind
}

// Snowflake is one snow particle. VX is only nonzero inside the globe swirl.
type Snowflake struct {
	X, Y, Z float64
	Size    float64
	VX, VY  float64
	Phase   float64
}

// FireworkKind is the state of a firework particle.
type FireworkKind uint8

const (
	FireworkRocket FireworkKind = iota // climbing shell, bursts at BurstY
	FireworkSpark                      // burst fragment
	FireworkTrail                      // rocket trail or slow ember
	FireworkFlash                      // short bright core at the burst point
)

// String returns the kind name.
func (k FireworkKind) String() string {
	switch k {
	case FireworkRocket:
		return "rocket"
	case FireworkSpark:
		return "spark"
	case FireworkTrail:
		return "trail"
	case FireworkFlash:
		return "flash"
	}
	return "unknown"
}

// Firework is one particle of the firework simulation. Velocities are in
// pixels per millisecond and lifetimes in milliseconds.
type Firework struct {
	Pos, Prev mgl64.Vec3
	Vel       mgl64.Vec3
	Radius    float64
	Color     RGB
	Life      float64
	Life0     float64
	Drag      float64
	Phase     float64
	Kind      FireworkKind
	// BurstY is the altitude a rocket bursts at. Unused by other kinds.
	BurstY float64
}

// life01 returns the remaining life fraction in [0, 1].
func (f *Firework) life01() float64 {
	l0 := f.Life0
	if l0 < 1 {
		l0 = 1
	}
	return clamp(f.Life/l0, 0, 1)
}

// Wire is the ordered point list of one garland strand.
type Wire []mgl64.Vec3
