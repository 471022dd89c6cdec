package transport

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned when a source's audio format cannot be
// determined or decoded.
var ErrUnsupportedFormat = errors.New("unsupported format")

const (
	extMP3  = ".mp3"
	extFLAC = ".flac"
	extOGG  = ".ogg"
	extOGA  = ".oga"
	extWAV  = ".wav"
)

// maxSourceBytes caps remote downloads.
const maxSourceBytes = 512 << 20

// memFile is a fully buffered remote source. Decoders need Seek, which an
// HTTP body does not offer. Close drops the buffer.
type memFile struct {
	*bytes.Reader
}

func (m memFile) Close() error {
	m.Reset(nil)
	return nil
}

type readSeekCloser interface {
	io.ReadSeeker
	io.Closer
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// openSource opens source and returns it with its extension-style format.
func (p *Player) openSource(source string) (readSeekCloser, string, error) {
	if !isRemote(source) {
		ext := strings.ToLower(filepath.Ext(source))
		if !supportedExt(ext) {
			return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
		}
		f, err := os.Open(source)
		if err != nil {
			return nil, "", err
		}
		return f, ext, nil
	}

	resp, err := p.client.Get(source)
	if err != nil {
		return nil, "", fmt.Errorf("fetch %s: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetch %s: status %d", source, resp.StatusCode)
	}

	ext := formatFromURL(source)
	if ext == "" {
		ext = formatFromContentType(resp.Header.Get("Content-Type"))
	}
	if ext == "" {
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, source)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSourceBytes))
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", source, err)
	}
	return memFile{bytes.NewReader(data)}, ext, nil
}

func supportedExt(ext string) bool {
	switch ext {
	case extMP3, extFLAC, extOGG, extOGA, extWAV:
		return true
	}
	return false
}

func formatFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	ext := strings.ToLower(filepath.Ext(u.Path))
	if !supportedExt(ext) {
		return ""
	}
	return ext
}

func formatFromContentType(ct string) string {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return ""
	}
	switch mt {
	case "audio/mpeg", "audio/mp3":
		return extMP3
	case "audio/flac", "audio/x-flac":
		return extFLAC
	case "audio/ogg", "audio/vorbis", "application/ogg":
		return extOGG
	case "audio/wav", "audio/x-wav", "audio/wave", "audio/vnd.wave":
		return extWAV
	}
	return ""
}
