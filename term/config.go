package term

// Config tunes how a Renderer maps the scene onto terminal cells.
type Config struct {
	// Scale is the number of scene pixels per terminal pixel. A terminal has
	// far fewer pixels than a window, so the scene is laid out on a larger
	// virtual surface and sampled down. Values below 1 are treated as 1.
	Scale float64

	// MinRadius is the smallest disc radius in terminal pixels. Smaller
	// discs are drawn at this radius with their alpha reduced by the area
	// ratio.
	MinRadius float64

	// Gain multiplies the alpha of lights, snow and fireworks.
	Gain float64

	// Rim draws the globe rim in globe mode.
	Rim bool
}

// DefaultConfig returns the settings used by cmd/tinsel-term.
func DefaultConfig() Config {
	return Config{
		Scale:     4,
		MinRadius: 0.6,
		Gain:      1.35,
		Rim:       true,
	}
}

func (c Config) sanitize() Config {
	if !(c.Scale >= 1) {
		c.Scale = 1
	}
	if !(c.MinRadius > 0) {
		c.MinRadius = 0
	}
	if !(c.Gain > 0) {
		c.Gain = 1
	}
	return c
}
