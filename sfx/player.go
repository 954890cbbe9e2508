// Package sfx plays a short synthesized pop whenever a firework bursts.
//
// Sound is optional: when the speaker cannot be opened the Player stays
// silent and every call is a no-op.
package sfx

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/phanxgames/tinsel"
)

// speakerLock serializes mixer changes with the speaker's playback
// goroutine.
type speakerLock struct{}

func (speakerLock) Lock()   { speaker.Lock() }
func (speakerLock) Unlock() { speaker.Unlock() }

// Player owns a mixer attached to the speaker.
type Player struct {
	mu          sync.Mutex
	cfg         Config
	mixer       *beep.Mixer
	rng         *rand.Rand
	playback    sync.Locker
	initialized bool
	dropped     int
}

// NewPlayer returns an uninitialized Player.
func NewPlayer(cfg Config) *Player {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultConfig().SampleRate
	}
	if cfg.Length <= 0 {
		cfg.Length = DefaultConfig().Length
	}
	return &Player{
		cfg:      cfg,
		mixer:    &beep.Mixer{},
		rng:      rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5f1)),
		playback: speakerLock{},
	}
}

// Init opens the speaker and starts the mixer. A disabled config or a
// second call is a no-op.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized || !p.cfg.Enabled {
		return nil
	}
	rate := beep.SampleRate(p.cfg.SampleRate)
	if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
		return fmt.Errorf("sfx: speaker init: %w", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Close silences every voice and releases the speaker.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	p.playback.Lock()
	p.mixer.Clear()
	p.playback.Unlock()
	speaker.Close()
	p.initialized = false
}

// Burst queues a pop for e. It reports false when the player is silent or
// the voice cap is reached.
func (p *Player) Burst(e tinsel.BurstEvent) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return false
	}
	s := Pop(p.cfg, e, p.rng)

	p.playback.Lock()
	defer p.playback.Unlock()
	if p.cfg.MaxVoices > 0 && p.mixer.Len() >= p.cfg.MaxVoices {
		p.dropped++
		return false
	}
	p.mixer.Add(s)
	return true
}

// Dropped returns how many bursts were skipped because of the voice cap.
func (p *Player) Dropped() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dropped
}

// Attach routes scene bursts to the player.
func (p *Player) Attach(s *tinsel.Scene) {
	s.OnBurst = func(e tinsel.BurstEvent) { p.Burst(e) }
}
