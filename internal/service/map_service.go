package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"geocode-map/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrSessionNotFound is returned for unknown or expired session IDs.
var ErrSessionNotFound = errors.New("service: session not found")

const defaultGeocodeTimeout = 10 * time.Second

// Ordering decides which geocode outcome lands in the view when requests overlap.
type Ordering int

const (
	// LastClickWins applies an outcome only if no newer click was issued in the meantime.
	LastClickWins Ordering = iota
	// LastResolvedWins applies every outcome in the order they arrive.
	LastResolvedWins
)

// Geocoder interface for dependency injection
type Geocoder interface {
	Geocode(ctx context.Context, coord models.Coordinate) ([]models.Candidate, error)
}

// MapOptions configures the map surface shared by all sessions.
type MapOptions struct {
	Center   models.Coordinate
	Zoom     int
	Ordering Ordering
	// Timeout bounds a single geocode request.
	Timeout time.Duration
	// IdleTTL is how long an untouched session survives Sweep. Zero disables sweeping.
	IdleTTL time.Duration
}

// MapService owns the view state of every mounted page.
type MapService struct {
	geocoder Geocoder
	opts     MapOptions
	log      zerolog.Logger
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.RWMutex
	sessions map[uuid.UUID]*MapSession
}

// NewMapService creates a new map service
func NewMapService(geocoder Geocoder, opts MapOptions, log zerolog.Logger) *MapService {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultGeocodeTimeout
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &MapService{
		geocoder: geocoder,
		opts:     opts,
		log:      log,
		now:      time.Now,
		ctx:      ctx,
		cancel:   cancel,
		sessions: make(map[uuid.UUID]*MapSession),
	}
}

// Open mounts a new page and returns its session.
func (s *MapService) Open() *MapSession {
	session := &MapSession{
		id:          uuid.New(),
		svc:         s,
		lastSeen:    s.now(),
		subscribers: make(map[chan models.ViewState]struct{}),
	}

	s.mu.Lock()
	s.sessions[session.id] = session
	s.mu.Unlock()

	s.log.Debug().Str("session", session.id.String()).Msg("session opened")
	return session
}

// Session looks up a session by its ID.
func (s *MapService) Session(id string) (*MapSession, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	s.mu.RLock()
	session, ok := s.sessions[parsed]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Len returns the number of live sessions.
func (s *MapService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than IdleTTL at now. Sessions with a connected
// event stream are kept. It returns the number of removed sessions.
func (s *MapService) Sweep(now time.Time) int {
	if s.opts.IdleTTL <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if session.idleSince(now) > s.opts.IdleTTL {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.log.Debug().Int("removed", removed).Int("remaining", len(s.sessions)).Msg("idle sessions swept")
	}
	return removed
}

// Close cancels in-flight geocode requests and waits for them to settle.
func (s *MapService) Close() {
	s.cancel()
	s.wg.Wait()
}

// MapSession is the view state of one mounted page: the map surface and the address panel read from it.
type MapSession struct {
	id  uuid.UUID
	svc *MapService

	mu          sync.Mutex
	view        models.ViewState
	appliedSeq  uint64
	inflight    int
	lastSeen    time.Time
	subscribers map[chan models.ViewState]struct{}
}

// ID returns the session ID.
func (m *MapSession) ID() string {
	return m.id.String()
}

// Render returns the viewport: the fixed center and zoom, and a marker at the last clicked point.
func (m *MapSession) Render() models.MapState {
	m.mu.Lock()
	defer m.mu.Unlock()

	return models.MapState{
		Center: m.svc.opts.Center,
		Zoom:   m.svc.opts.Zoom,
		Marker: copyCoordinate(m.view.Coordinates),
	}
}

// View returns a snapshot of the session's view state.
func (m *MapSession) View() models.ViewState {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastSeen = m.svc.now()
	return m.snapshotLocked()
}

// Click stores coord as the current point and issues one asynchronous reverse geocode request for it.
// Earlier requests are neither de-duplicated nor cancelled. The returned channel is closed once the
// outcome of this click has been applied to the view or discarded.
func (m *MapSession) Click(coord models.Coordinate) (uint64, <-chan struct{}) {
	svc := m.svc

	m.mu.Lock()
	m.view.Coordinates = &coord
	m.view.Seq++
	seq := m.view.Seq
	m.inflight++
	m.lastSeen = svc.now()
	m.refreshPendingLocked()
	m.publishLocked()
	m.mu.Unlock()

	done := make(chan struct{})
	ctx, cancel := context.WithTimeout(svc.ctx, svc.opts.Timeout)
	svc.wg.Add(1)
	go func() {
		defer svc.wg.Done()
		defer close(done)
		defer cancel()

		candidates, err := svc.geocoder.Geocode(ctx, coord)
		m.apply(seq, coord, candidates, err)
	}()

	return seq, done
}

func (m *MapSession) apply(seq uint64, coord models.Coordinate, candidates []models.Candidate, err error) {
	log := m.svc.log.With().Str("session", m.id.String()).Uint64("seq", seq).Logger()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.inflight--
	if m.svc.opts.Ordering == LastClickWins && seq != m.view.Seq {
		log.Debug().Uint64("latest", m.view.Seq).Msg("discarding superseded geocode result")
		m.refreshPendingLocked()
		return
	}
	m.appliedSeq = seq

	switch {
	case err != nil:
		log.Error().Err(err).Str("coordinates", coord.String()).Msg("geocoding failed")
		m.view.Address = nil
	case len(candidates) == 0:
		log.Debug().Str("coordinates", coord.String()).Msg("no geocode candidates, keeping previous address")
	default:
		addr := models.AddressFromCandidate(candidates[0])
		m.view.Address = &addr
	}

	m.refreshPendingLocked()
	m.publishLocked()
}

// Subscribe returns a channel receiving a view snapshot after every state change, starting with the
// current one. Slow subscribers miss intermediate snapshots, never the latest one. The returned func unsubscribes and closes
// the channel.
func (m *MapSession) Subscribe(buffer int) (<-chan models.ViewState, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan models.ViewState, buffer)

	m.mu.Lock()
	m.subscribers[ch] = struct{}{}
	m.lastSeen = m.svc.now()
	ch <- m.snapshotLocked()
	m.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subscribers, ch)
			m.lastSeen = m.svc.now()
			m.mu.Unlock()
			close(ch)
		})
	}
}

func (m *MapSession) idleSince(now time.Time) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.subscribers) > 0 {
		return 0
	}
	return now.Sub(m.lastSeen)
}

func (m *MapSession) refreshPendingLocked() {
	if m.svc.opts.Ordering == LastResolvedWins {
		m.view.Pending = m.inflight > 0
		return
	}
	m.view.Pending = m.appliedSeq != m.view.Seq
}

func (m *MapSession) publishLocked() {
	snapshot := m.snapshotLocked()
	for ch := range m.subscribers {
		select {
		case ch <- snapshot:
		default:
			// Full buffer: replace the oldest snapshot so the latest state always arrives.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snapshot:
			default:
			}
		}
	}
}

func (m *MapSession) snapshotLocked() models.ViewState {
	view := m.view
	view.Coordinates = copyCoordinate(m.view.Coordinates)
	if m.view.Address != nil {
		addr := *m.view.Address
		view.Address = &addr
	}
	return view
}

func copyCoordinate(c *models.Coordinate) *models.Coordinate {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}
