package ads

import (
	"fmt"
	"time"
)

// Kind is an ad slot type.
type Kind string

const (
	PreRoll Kind = "PRE_ROLL"
	MidRoll Kind = "MID_ROLL"
	Banner  Kind = "BANNER"
)

// CallToAction is an optional clickable link on a creative.
type CallToAction struct {
	Label string
	URL   string
}

// Creative is one ad asset, valid for a single presentation.
type Creative struct {
	ID        string
	Kind      Kind
	MediaURL  string // audio; empty for image-only creatives
	ImageURL  string
	Duration  time.Duration
	Skippable bool
	CTA       *CallToAction
}

// HasAudio reports whether the creative plays through a transport.
func (c *Creative) HasAudio() bool {
	return c.MediaURL != ""
}

// Placement is the context an ad is requested for.
type Placement struct {
	Kind           Kind
	TrackID        string
	CumulativePlay time.Duration
}

func (p Placement) String() string {
	switch p.Kind {
	case MidRoll:
		return fmt.Sprintf("%s at=%ds track=%s", p.Kind, int64(p.CumulativePlay/time.Second), p.TrackID)
	default:
		return fmt.Sprintf("%s track=%s", p.Kind, p.TrackID)
	}
}

// SkipEligible reports whether a skip control may be shown after elapsed
// time into c. Pre-rolls are never skippable.
func SkipEligible(c *Creative, elapsed, delay time.Duration) bool {
	if c == nil || c.Kind == PreRoll || !c.Skippable {
		return false
	}
	return elapsed >= delay
}
