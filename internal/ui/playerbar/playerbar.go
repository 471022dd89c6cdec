// Package playerbar renders the one-line player bar and the ad bar that
// replaces it during an interstitial.
package playerbar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/llehouerou/wavecast/internal/ads"
	"github.com/llehouerou/wavecast/internal/adunit"
	"github.com/llehouerou/wavecast/internal/playback"
	"github.com/llehouerou/wavecast/internal/queue"
)


// State holds everything needed to render the player bar.
type State struct {
	Status   playback.State
	Title    string
	Artist   string
	Position time.Duration
	Duration time.Duration
	Volume   float64
	Muted    bool
	Repeat   queue.RepeatMode
	Shuffle  bool
	Ad       *adunit.Status
	Banner   *ads.Creative
}

// NewState snapshots svc for rendering.
func NewState(svc playback.Service) State {
	s := State{
		Status:   svc.State(),
		Position: svc.Position(),
		Duration: svc.Duration(),
		Volume:   svc.Volume(),
		Muted:    svc.Muted(),
		Repeat:   svc.RepeatMode(),
		Shuffle:  svc.Shuffle(),
		Ad:       svc.Ad(),
		Banner:   svc.Banner(),
	}
	if t := svc.CurrentTrack(); t != nil {
		s.Title = t.Title
		s.Artist = t.Artist
	}
	return s
}

// Height returns the rendered height including borders. A banner adds a row.
func Height(s State) int {
	if s.Banner != nil && s.Status != playback.StateAdInterstitial {
		return 4
	}
	return 3
}

// Render returns the player bar string for the given width.
func Render(s State, width int) string {
	if s.Status == playback.StateAdInterstitial && s.Ad != nil {
		return renderAd(s, width)
	}
	return renderTrack(s, width)
}

func renderTrack(s State, width int) string {
	innerWidth := max(width-6, 0)

	status := stopSymbol
	switch s.Status {
	case playback.StatePlaying:
		status = playSymbol
	case playback.StatePaused:
		status = pauseSymbol
	case playback.StateLoading:
		status = "…"
	}

	title := s.Title
	if title == "" {
		title = "Nothing playing"
	}
	info := title
	if s.Artist != "" {
		info += " · " + s.Artist
	}

	timeStr := formatDuration(s.Position) + " / " + formatDuration(s.Duration)
	right := timeStr + "   " + volumeLabel(s.Volume, s.Muted) + modeLabel(s.Repeat, s.Shuffle)

	const minBar = 10
	fixed := lipgloss.Width(status) + 2 + lipgloss.Width(right) + 6
	infoWidth := max(innerWidth-fixed-minBar, 8)
	info = runewidth.Truncate(info, infoWidth, "…")

	barWidth := max(innerWidth-fixed-runewidth.StringWidth(info), 5)

	var b strings.Builder
	b.WriteString(titleStyle.Render(info))
	b.WriteString("   ")
	b.WriteString(status)
	b.WriteString("  ")
	b.WriteString(renderBar(s.Position, s.Duration, barWidth))
	b.WriteString("   ")
	b.WriteString(timeStyle.Render(right))

	line := b.String()
	if s.Banner != nil {
		line += "\n" + renderBanner(s.Banner, innerWidth)
	}
	return barStyle.Padding(0, 2).Width(max(width-2, 0)).Render(line)
}

func renderAd(s State, width int) string {
	innerWidth := max(width-6, 0)
	ad := s.Ad

	label := "Advertisement"
	if ad.Creative.CTA != nil && ad.Creative.CTA.Label != "" {
		label = ad.Creative.CTA.Label
	}

	var right string
	switch {
	case ad.CanSkip:
		right = skipStyle.Render("[x] Skip ad")
	case ad.Creative.Kind == ads.PreRoll || !ad.Creative.Skippable:
		right = metaStyle.Render("Your music starts after this ad")
	default:
		right = metaStyle.Render("Skip available soon")
	}
	if ad.Remaining > 0 {
		right = timeStyle.Render(formatDuration(ad.Remaining)+" left") + "   " + right
	}

	badge := adBadgeStyle.Render(adSymbol)
	avail := max(innerWidth-lipgloss.Width(badge)-lipgloss.Width(right)-4, 4)
	left := badge + "  " + artistStyle.Render(runewidth.Truncate(label, avail, "…"))

	gap := max(innerWidth-lipgloss.Width(left)-lipgloss.Width(right), 1)
	line := left + strings.Repeat(" ", gap) + right
	return adBarStyle.Padding(0, 2).Width(max(width-2, 0)).Render(line)
}

func renderBanner(c *ads.Creative, width int) string {
	text := "Sponsored"
	if c.CTA != nil && c.CTA.Label != "" {
		text += " · " + c.CTA.Label + " [o]"
	}
	return metaStyle.Render(runewidth.Truncate(text, width, "…"))
}

func volumeLabel(volume float64, muted bool) string {
	if muted {
		return "muted"
	}
	return fmt.Sprintf("vol %3d%%", int(volume*100+0.5))
}

func modeLabel(repeat queue.RepeatMode, shuffle bool) string {
	var parts []string
	if shuffle {
		parts = append(parts, "shuf")
	}
	switch repeat {
	case queue.RepeatOne:
		parts = append(parts, "rep1")
	case queue.RepeatAll:
		parts = append(parts, "rep")
	}
	if len(parts) == 0 {
		return ""
	}
	return "  " + strings.Join(parts, " ")
}
