package transport

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/gopxl/beep/v2"
	"github.com/llehouerou/go-mp3"
)

// go-mp3 always produces interleaved 16-bit stereo.
const (
	mp3Channels    = 2
	mp3FrameBytes  = 2 * mp3Channels
	mp3ReadFrames  = 2048
	pcm16FullScale = 1 << 15
)

var (
	errMP3SampleRate = errors.New("mp3: stream reports no sample rate")
	errStreamClosed  = errors.New("stream closed")
)

// mp3Stream is a seekable beep stream over one opened source. It owns the
// source: Close releases it once, whether it is a file or buffered media.
type mp3Stream struct {
	src    readSeekCloser
	dec    *mp3.Decoder
	pcm    []byte
	err    error
	closed bool
}

// decodeMP3 starts decoding src. On error the caller still owns src.
func decodeMP3(src readSeekCloser) (beep.StreamSeekCloser, beep.Format, error) {
	dec, err := mp3.NewDecoder(src)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("mp3: %w", err)
	}
	rate := dec.SampleRate()
	if rate <= 0 {
		return nil, beep.Format{}, errMP3SampleRate
	}

	s := &mp3Stream{
		src: src,
		dec: dec,
		pcm: make([]byte, mp3ReadFrames*mp3FrameBytes),
	}
	return s, beep.Format{
		SampleRate:  beep.SampleRate(rate),
		NumChannels: mp3Channels,
		Precision:   2,
	}, nil
}

func (s *mp3Stream) Stream(samples [][2]float64) (int, bool) {
	if s.err != nil || s.closed {
		return 0, false
	}

	want := len(samples) * mp3FrameBytes
	if cap(s.pcm) < want {
		s.pcm = make([]byte, want)
	}
	buf := s.pcm[:want]

	read, err := io.ReadFull(s.dec, buf)
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
	case err != nil:
		s.err = err
		return 0, false
	}

	n := pcm16ToFrames(samples, buf[:read])
	return n, n > 0
}

// pcm16ToFrames converts interleaved little-endian stereo PCM into
// samples and returns the number of whole frames written.
func pcm16ToFrames(samples [][2]float64, pcm []byte) int {
	n := min(len(pcm)/mp3FrameBytes, len(samples))
	for i := range n {
		frame := pcm[i*mp3FrameBytes:]
		l := int16(binary.LittleEndian.Uint16(frame))    //nolint:gosec // reinterpreting PCM bits
		r := int16(binary.LittleEndian.Uint16(frame[2:])) //nolint:gosec // reinterpreting PCM bits
		samples[i] = [2]float64{float64(l) / pcm16FullScale, float64(r) / pcm16FullScale}
	}
	return n
}

func (s *mp3Stream) Err() error { return s.err }

func (s *mp3Stream) Len() int {
	return int(max(s.dec.SampleCount(), 0))
}

func (s *mp3Stream) Position() int {
	return int(s.dec.SamplePosition())
}

// Seek clamps p into the stream and clears a previous read error, so a
// track that failed near the end can be replayed from earlier.
func (s *mp3Stream) Seek(p int) error {
	if s.closed {
		return errStreamClosed
	}
	p = max(0, min(p, s.Len()))
	if err := s.dec.SeekToSample(int64(p)); err != nil {
		return err
	}
	s.err = nil
	return nil
}

func (s *mp3Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.pcm = nil
	return s.src.Close()
}
