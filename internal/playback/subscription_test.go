package playback

import (
	"testing"
	"testing/synctest"
	"time"

	"github.com/llehouerou/wavecast/internal/ads"
	"github.com/llehouerou/wavecast/internal/queue"
)

func TestNewSubscription_ChannelsReadable(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		sub := newSubscription()

		sub.sendState(StateChange{Previous: StateLoading, Current: StatePlaying})
		sub.sendTrack(TrackChange{Index: 1})
		sub.sendPosition(PositionChange{Position: 30 * time.Second})
		sub.sendQueue(QueueChange{Index: 2, Tracks: []queue.Track{{ID: "q"}}})
		sub.sendMode(ModeChange{RepeatMode: queue.RepeatAll, Shuffle: true})
		sub.sendVolume(VolumeChange{Volume: 0.5})
		sub.sendAd(AdChange{Active: true, Creative: &ads.Creative{ID: "ad"}})
		sub.sendNotice(Notice{Message: "hi"})

		e := <-sub.StateChanged
		if e.Current != StatePlaying {
			t.Errorf("StateChanged.Current = %v, want Playing", e.Current)
		}

		tr := <-sub.TrackChanged
		if tr.Index != 1 {
			t.Errorf("TrackChanged.Index = %d, want 1", tr.Index)
		}

		pos := <-sub.PositionChanged
		if pos.Position != 30*time.Second {
			t.Errorf("PositionChanged.Position = %v, want 30s", pos.Position)
		}

		q := <-sub.QueueChanged
		if q.Index != 2 || len(q.Tracks) != 1 || q.Tracks[0].ID != "q" {
			t.Errorf("QueueChanged = %+v, want index 2 with [q]", q)
		}

		m := <-sub.ModeChanged
		if m.RepeatMode != queue.RepeatAll || !m.Shuffle {
			t.Errorf("ModeChanged = %+v, want All/shuffle", m)
		}

		v := <-sub.VolumeChanged
		if v.Volume != 0.5 {
			t.Errorf("VolumeChanged.Volume = %v, want 0.5", v.Volume)
		}

		a := <-sub.AdChanged
		if !a.Active || a.Creative.ID != "ad" {
			t.Errorf("AdChanged = %+v, want active ad", a)
		}

		n := <-sub.Notices
		if n.Message != "hi" {
			t.Errorf("Notices.Message = %q, want hi", n.Message)
		}
	})
}

func TestSubscription_Close_SignalsDone(t *testing.T) {
	synctest.Test(t, func(_ *testing.T) {
		sub := newSubscription()
		sub.close()
		<-sub.Done
	})
}

func TestSubscription_NonBlocking_DropsWhenFull(t *testing.T) {
	sub := newSubscription()

	for range eventBufferSize + 5 {
		sub.sendState(StateChange{})
	}

	count := 0
	for {
		select {
		case <-sub.StateChanged:
			count++
		default:
			if count != eventBufferSize {
				t.Errorf("received %d events, want %d (buffer size)", count, eventBufferSize)
			}
			return
		}
	}
}
