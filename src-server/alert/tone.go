package alert

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os/exec"
	"sync"
	"time"
)

// TonePlayer plays one tone. Implementations must not block for longer
// than it takes to hand the tone to the output.
type TonePlayer interface {
	PlayTone(frequency float64, duration time.Duration) error
}

const SampleRate = 44100

// Synthesize renders a mono signed 16-bit little-endian sine tone. The
// envelope ramps up to 0.1 gain within 10ms and decays exponentially to
// 0.01 by the end.
func Synthesize(frequency float64, duration time.Duration, sampleRate int) []byte {
	n := int(duration.Seconds() * float64(sampleRate))
	if n <= 0 || frequency <= 0 {
		return nil
	}
	const (
		peak   = 0.1
		floor  = 0.01
		attack = 0.01
	)
	total := duration.Seconds()
	decay := math.Log(floor/peak) / math.Max(total-attack, 1e-6)

	buf := bytes.NewBuffer(make([]byte, 0, n*2))
	for i := range n {
		t := float64(i) / float64(sampleRate)
		var gain float64
		if t < attack {
			gain = peak * t / attack
		} else {
			gain = peak * math.Exp(decay*(t-attack))
		}
		sample := gain * math.Sin(2*math.Pi*frequency*t)
		_ = binary.Write(buf, binary.LittleEndian, int16(sample*math.MaxInt16))
	}
	return buf.Bytes()
}

// CommandPlayer pipes synthesized PCM into an external player such as
// aplay. The player binary is resolved on first use, so a host without
// audio only fails once it actually tries to beep.
type CommandPlayer struct {
	name string
	args []string

	once    sync.Once
	path    string
	initErr error
}

// NewAplayPlayer plays through ALSA's aplay.
func NewAplayPlayer() *CommandPlayer {
	return NewCommandPlayer("aplay", "-q", "-t", "raw", "-f", "S16_LE", "-c", "1", "-r", fmt.Sprint(SampleRate))
}

func NewCommandPlayer(name string, args ...string) *CommandPlayer {
	return &CommandPlayer{name: name, args: args}
}

func (p *CommandPlayer) init() error {
	p.once.Do(func() {
		p.path, p.initErr = exec.LookPath(p.name)
	})
	return p.initErr
}

func (p *CommandPlayer) PlayTone(frequency float64, duration time.Duration) error {
	if err := p.init(); err != nil {
		return fmt.Errorf("(*CommandPlayer).PlayTone: audio output unavailable: %w", err)
	}
	cmd := exec.Command(p.path, p.args...)
	cmd.Stdin = bytes.NewReader(Synthesize(frequency, duration, SampleRate))
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("(*CommandPlayer).PlayTone: %w", err)
	}
	go cmd.Wait()
	return nil
}

// BellPlayer rings the terminal bell; frequency and duration are ignored.
type BellPlayer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewBellPlayer(w io.Writer) *BellPlayer {
	return &BellPlayer{w: w}
}

func (b *BellPlayer) PlayTone(float64, time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := b.w.Write([]byte{'\a'}); err != nil {
		return fmt.Errorf("(*BellPlayer).PlayTone: %w", err)
	}
	return nil
}

type NopPlayer struct{}

func (NopPlayer) PlayTone(float64, time.Duration) error { return nil }
