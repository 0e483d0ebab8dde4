package audio

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// Output is the device decoded sounds are played on.
type Output interface {
	Init(sampleRate beep.SampleRate, bufferSize int) error
	Play(s beep.Streamer)
	Close()
}

// speakerOutput plays through the system speaker.
type speakerOutput struct{}

func (speakerOutput) Init(sampleRate beep.SampleRate, bufferSize int) error {
	return speaker.Init(sampleRate, bufferSize)
}

func (speakerOutput) Play(s beep.Streamer) { speaker.Play(s) }

func (speakerOutput) Close() { speaker.Close() }

type decodeFunc func(io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error)

// decoders maps lower-case file extensions to beep decoders.
var decoders = map[string]decodeFunc{
	".wav": func(r io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) { return wav.Decode(r) },
	".ogg": vorbis.Decode,
	".mp3": mp3.Decode,
}

// outputLatency sizes the speaker buffer.
const outputLatency = 100 * time.Millisecond

// Player decodes toast sounds once and plays them at the configured volume.
type Player struct {
	logger *slog.Logger
	output Output

	mu         sync.Mutex
	volume     float64 // 0..1
	sampleRate beep.SampleRate
	ready      bool
	sounds     map[string]*beep.Buffer
}

// PlayerOption configures a Player.
type PlayerOption func(*Player)

// WithOutput replaces the system speaker.
func WithOutput(out Output) PlayerOption {
	return func(p *Player) {
		if out != nil {
			p.output = out
		}
	}
}

// NewPlayer creates a player on the system speaker at full volume.
func NewPlayer(logger *slog.Logger, opts ...PlayerOption) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Player{
		logger:     logger,
		output:     speakerOutput{},
		volume:     1,
		sampleRate: 44100,
		sounds:     make(map[string]*beep.Buffer),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SetVolume sets the playback volume, clamped to 0..1.
func (p *Player) SetVolume(volume float64) {
	p.mu.Lock()
	p.volume = math.Max(0, math.Min(1, volume))
	p.mu.Unlock()
}

// GetVolume returns the current volume.
func (p *Player) GetVolume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// Play plays the sound at path. An empty path is a no-op.
func (p *Player) Play(path string) error {
	if path == "" {
		return nil
	}
	buf, err := p.load(path)
	if err != nil {
		p.logger.Warn("failed to load sound", "path", path, "error", err)
		return err
	}
	p.output.Play(p.stream(buf))
	return nil
}

// Preload decodes path into the cache without playing it.
func (p *Player) Preload(path string) error {
	if path == "" {
		return nil
	}
	_, err := p.load(path)
	return err
}

// Cached reports whether path has been decoded.
func (p *Player) Cached(path string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.sounds[path]
	return ok
}

// InvalidateCache drops path so the next Play decodes it again.
func (p *Player) InvalidateCache(path string) {
	p.mu.Lock()
	delete(p.sounds, path)
	p.mu.Unlock()
}

// ClearCache drops every decoded sound.
func (p *Player) ClearCache() {
	p.mu.Lock()
	p.sounds = make(map[string]*beep.Buffer)
	p.mu.Unlock()
}

// Close shuts the output down and empties the cache.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ready {
		p.output.Close()
		p.ready = false
	}
	p.sounds = make(map[string]*beep.Buffer)
}

func (p *Player) load(path string) (*beep.Buffer, error) {
	p.mu.Lock()
	buf, ok := p.sounds[path]
	p.mu.Unlock()
	if ok {
		return buf, nil
	}

	buf, err := decodeFile(path)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ready {
		// The first sound decides the output rate; later ones are resampled.
		rate := buf.Format().SampleRate
		if err := p.output.Init(rate, rate.N(outputLatency)); err != nil {
			return nil, fmt.Errorf("failed to initialize speaker: %w", err)
		}
		p.sampleRate = rate
		p.ready = true
		p.logger.Debug("speaker initialized", "sample_rate", rate)
	}
	p.sounds[path] = buf
	return buf, nil
}

func decodeFile(path string) (*beep.Buffer, error) {
	ext := strings.ToLower(filepath.Ext(path))
	decode, ok := decoders[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported audio format: %s", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sound file: %w", err)
	}
	streamer, format, err := decode(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to decode sound: %w", err)
	}
	defer func() { _ = streamer.Close() }()

	buf := beep.NewBuffer(format)
	buf.Append(streamer)
	return buf, nil
}

// stream wraps buf for the output rate and current volume.
func (p *Player) stream(buf *beep.Buffer) beep.Streamer {
	p.mu.Lock()
	volume, rate := p.volume, p.sampleRate
	p.mu.Unlock()

	var s beep.Streamer = buf.Streamer(0, buf.Len())
	if from := buf.Format().SampleRate; from != rate {
		s = beep.Resample(4, from, rate, s)
	}
	if volume < 1 {
		s = &effects.Volume{
			Streamer: s,
			Base:     2,
			Volume:   volumeToDecibels(volume),
			Silent:   volume == 0,
		}
	}
	return s
}

// volumeToDecibels maps a linear volume to decibels: 0.5 is about -6dB.
func volumeToDecibels(volume float64) float64 {
	if volume <= 0 {
		return -100
	}
	return 20 * math.Log10(volume)
}
