package transport

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
)

// speakerSampleRate is the device rate; sources at other rates are resampled.
const speakerSampleRate = beep.SampleRate(44100)

var (
	speakerOnce sync.Once
	speakerErr  error
)

func initSpeaker() error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(speakerSampleRate, speakerSampleRate.N(time.Second/10))
	})
	return speakerErr
}

// Player plays one source at a time through the shared speaker. Several
// Players can coexist (the ad unit owns its own); each only ever removes
// its own stream from the mixer.
type Player struct {
	state    State
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	stream   *stoppable
	streamer beep.StreamSeekCloser
	source   readSeekCloser
	format   beep.Format

	volumeLevel float64
	muted       bool

	client     *http.Client
	finishedCh chan struct{}
}

// New creates a stopped player. Remote sources are downloaded with the
// given timeout (zero means no timeout).
func New(fetchTimeout time.Duration) *Player {
	return &Player{
		state:       Stopped,
		volumeLevel: 1,
		client:      &http.Client{Timeout: fetchTimeout},
		finishedCh:  make(chan struct{}, 1),
	}
}

// Play starts playback of source.
func (p *Player) Play(source string) error {
	p.Stop()

	// Drain any stale finish signal from the previous media.
	select {
	case <-p.finishedCh:
	default:
	}

	if source == "" {
		return errors.New("empty media source")
	}

	f, ext, err := p.openSource(source)
	if err != nil {
		return err
	}

	streamer, format, err := decode(f, ext)
	if err != nil {
		f.Close()
		return fmt.Errorf("decode %s: %w", source, err)
	}

	if err := initSpeaker(); err != nil {
		streamer.Close()
		f.Close()
		return fmt.Errorf("init speaker: %w", err)
	}

	p.source = f
	p.streamer = streamer
	p.format = format

	var playStreamer beep.Streamer = streamer
	if format.SampleRate != speakerSampleRate {
		playStreamer = beep.Resample(4, format.SampleRate, speakerSampleRate, streamer)
	}
	p.ctrl = &beep.Ctrl{Streamer: playStreamer, Paused: false}
	p.volume = &effects.Volume{
		Streamer: p.ctrl,
		Base:     2,
		Volume:   levelToVolume(p.volumeLevel),
		Silent:   p.muted,
	}

	finished := p.finishedCh
	p.stream = newStoppable(beep.Seq(p.volume, beep.Callback(func() {
		select {
		case finished <- struct{}{}:
		default:
		}
	})))

	p.state = Playing
	speaker.Play(p.stream)
	return nil
}

// State returns the transport state.
func (p *Player) State() State { return p.state }

// Duration returns the length of the loaded media.
func (p *Player) Duration() time.Duration {
	if p.streamer == nil {
		return 0
	}
	return p.format.SampleRate.D(p.streamer.Len())
}

// FinishedChan returns a channel that receives when media ends naturally.
func (p *Player) FinishedChan() <-chan struct{} {
	return p.finishedCh
}
