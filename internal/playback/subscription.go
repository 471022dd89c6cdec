package playback

const eventBufferSize = 16

// Subscription provides event channels for a subscriber.
type Subscription struct {
	StateChanged    <-chan StateChange
	TrackChanged    <-chan TrackChange
	PositionChanged <-chan PositionChange
	QueueChanged    <-chan QueueChange
	ModeChanged     <-chan ModeChange
	VolumeChanged   <-chan VolumeChange
	AdChanged       <-chan AdChange
	Notices         <-chan Notice
	Error           <-chan ErrorEvent
	Done            <-chan struct{}

	stateCh    chan StateChange
	trackCh    chan TrackChange
	positionCh chan PositionChange
	queueCh    chan QueueChange
	modeCh     chan ModeChange
	volumeCh   chan VolumeChange
	adCh       chan AdChange
	noticeCh   chan Notice
	errorCh    chan ErrorEvent
	doneCh     chan struct{}
}

// newSubscription creates a new subscription with buffered channels.
func newSubscription() *Subscription {
	s := &Subscription{
		stateCh:    make(chan StateChange, eventBufferSize),
		trackCh:    make(chan TrackChange, eventBufferSize),
		positionCh: make(chan PositionChange, eventBufferSize),
		queueCh:    make(chan QueueChange, eventBufferSize),
		modeCh:     make(chan ModeChange, eventBufferSize),
		volumeCh:   make(chan VolumeChange, eventBufferSize),
		adCh:       make(chan AdChange, eventBufferSize),
		noticeCh:   make(chan Notice, eventBufferSize),
		errorCh:    make(chan ErrorEvent, eventBufferSize),
		doneCh:     make(chan struct{}),
	}
	s.StateChanged = s.stateCh
	s.TrackChanged = s.trackCh
	s.PositionChanged = s.positionCh
	s.QueueChanged = s.queueCh
	s.ModeChanged = s.modeCh
	s.VolumeChanged = s.volumeCh
	s.AdChanged = s.adCh
	s.Notices = s.noticeCh
	s.Error = s.errorCh
	s.Done = s.doneCh
	return s
}

// close signals subscribers to stop by closing doneCh.
func (s *Subscription) close() {
	close(s.doneCh)
}

// send delivers e without blocking; a full buffer drops it.
func send[T any](ch chan T, e T) {
	select {
	case ch <- e:
	default:
	}
}

func (s *Subscription) sendState(e StateChange)       { send(s.stateCh, e) }
func (s *Subscription) sendTrack(e TrackChange)       { send(s.trackCh, e) }
func (s *Subscription) sendPosition(e PositionChange) { send(s.positionCh, e) }
func (s *Subscription) sendQueue(e QueueChange)       { send(s.queueCh, e) }
func (s *Subscription) sendMode(e ModeChange)         { send(s.modeCh, e) }
func (s *Subscription) sendVolume(e VolumeChange)     { send(s.volumeCh, e) }
func (s *Subscription) sendAd(e AdChange)             { send(s.adCh, e) }
func (s *Subscription) sendNotice(e Notice)           { send(s.noticeCh, e) }
func (s *Subscription) sendError(e ErrorEvent)        { send(s.errorCh, e) }
