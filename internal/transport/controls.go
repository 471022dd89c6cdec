package transport

import (
	"time"

	"github.com/gopxl/beep/v2/speaker"
)

// Stop stops playback and releases the source.
func (p *Player) Stop() {
	if p.state == Stopped {
		return
	}

	if p.stream != nil {
		speaker.Lock()
		p.stream.stop()
		speaker.Unlock()
		p.stream = nil
	}

	if p.streamer != nil {
		p.streamer.Close()
		p.streamer = nil
	}
	if p.source != nil {
		p.source.Close()
		p.source = nil
	}

	p.ctrl = nil
	p.volume = nil
	p.state = Stopped
}

// Pause pauses playback.
func (p *Player) Pause() {
	if p.state != Playing || p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = true
	speaker.Unlock()
	p.state = Paused
}

// Resume resumes paused playback.
func (p *Player) Resume() {
	if p.state != Paused || p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = false
	speaker.Unlock()
	p.state = Playing
}

// Position returns the current playback position.
func (p *Player) Position() time.Duration {
	if p.streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := p.streamer.Position()
	speaker.Unlock()
	return p.format.SampleRate.D(pos)
}

// Seek moves the playback position by delta.
func (p *Player) Seek(delta time.Duration) {
	if p.streamer == nil || p.state == Stopped {
		return
	}
	p.SeekTo(p.Position() + delta)
}

// SeekTo jumps to pos. Seeking at or past the end counts as reaching it.
func (p *Player) SeekTo(pos time.Duration) {
	if p.streamer == nil || p.state == Stopped {
		return
	}

	target := clampSample(p.format.SampleRate.N(pos), p.streamer.Len())
	if target >= p.streamer.Len() {
		select {
		case p.finishedCh <- struct{}{}:
		default:
		}
		return
	}

	speaker.Lock()
	_ = p.streamer.Seek(target)
	speaker.Unlock()
}

func clampSample(n, length int) int {
	if n < 0 {
		return 0
	}
	if n > length {
		return length
	}
	return n
}
