// Package session runs one simulated company. A Session owns the entity
// store, engine, snapshots and clock, and serializes every mutation on a
// single event loop goroutine.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"virtualco/internal/catalog"
	"virtualco/internal/config"
	"virtualco/internal/domain"
	"virtualco/internal/engine"
	"virtualco/internal/logging"
	"virtualco/internal/metrics"
	"virtualco/internal/notify"
	"virtualco/internal/snapshot"
	"virtualco/internal/store"
)

var (
	// ErrRunning is returned by operations that require a stopped clock.
	ErrRunning = errors.New("simulation is running")
	ErrClosed  = errors.New("session closed")
	// ErrNoSaver is returned by Save when the session has no persistence.
	ErrNoSaver = errors.New("session has no persistence")
)

const (
	ThinkDelay  = 500 * time.Millisecond
	MergeDelay  = time.Second
	RemarkDelay = 2 * time.Second

	DefaultSnapshotEvery = 30
	StartLabel           = "Project Start"
)

// StartDate is the calendar date of every new simulation.
var StartDate = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// Saver persists a simulation blob on behalf of its owner.
type Saver interface {
	SaveSimulation(ctx context.Context, ownerID string, sim domain.Simulation) (string, error)
}

type Options struct {
	ID       string
	OwnerID  string
	Project  domain.Project
	Settings config.Settings
	// Seed drives the default random source. Zero seeds from the clock.
	Seed uint64
	Rand engine.Rand
	// Clock defaults to the real clock.
	Clock clockwork.Clock
	Start time.Time
	// SnapshotEvery captures an automatic snapshot every n simulated days
	// while running. Zero means DefaultSnapshotEvery, negative disables.
	SnapshotEvery int
	Saver         Saver
	Notifier      notify.Sink
	Metrics       *metrics.Metrics
	Log           logrus.FieldLogger
	NewID         func() string
}

type Session struct {
	id      string
	owner   string
	project domain.Project
	clock   clockwork.Clock
	log     logrus.FieldLogger
	metrics *metrics.Metrics
	saver   Saver
	sink    notify.Sink

	cmds   chan func()
	done   chan struct{}
	cancel context.CancelFunc
	ctx    context.Context
	once   sync.Once

	schedMu   sync.Mutex
	sched     gocron.Scheduler
	autoSave  gocron.Job
	saveEvery time.Duration

	// Owned by the loop goroutine.
	store         *store.Store
	eng           engine.Engine
	snaps         *snapshot.Manager
	settings      config.Settings
	running       bool
	speed         float64
	ticker        clockwork.Ticker
	pending       map[uint64]clockwork.Timer
	nextTimer     uint64
	snapshotEvery int
	simID         string
	lastSaved     time.Time
}

// New founds the project, captures the starting snapshot and starts the
// event loop. Call Close to release it.
func New(opts Options) (*Session, error) {
	if err := config.ValidateProject(opts.Project); err != nil {
		return nil, err
	}
	if opts.Settings == (config.Settings{}) {
		opts.Settings = config.Default()
	}
	if err := opts.Settings.Validate(); err != nil {
		return nil, err
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.ID == "" {
		opts.ID = opts.NewID()
	}
	if opts.Start.IsZero() {
		opts.Start = StartDate
	}
	if opts.Rand == nil {
		seed := opts.Seed
		if seed == 0 {
			seed = uint64(opts.Clock.Now().UnixNano())
		}
		opts.Rand = engine.NewRand(seed)
	}
	if opts.SnapshotEvery == 0 {
		opts.SnapshotEvery = DefaultSnapshotEvery
	}
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	log := logging.WithSession(opts.Log, opts.ID, opts.OwnerID)

	cat := catalog.Default()
	st := store.New(cat.Roster(), opts.Start)
	eng := engine.New(st, opts.Rand, generateOptions(opts.Project, opts.Settings))
	eng.Catalog = cat
	eng.NewID = opts.NewID
	eng.Log = log
	if err := eng.Found(opts.Project); err != nil {
		return nil, fmt.Errorf("found project: %w", err)
	}
	snaps := snapshot.New()
	snaps.NewID = opts.NewID
	snaps.Now = opts.Clock.Now
	snaps.Capture(StartLabel, st.SimulationDay(), st.Data())

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		id:            opts.ID,
		owner:         opts.OwnerID,
		project:       opts.Project,
		clock:         opts.Clock,
		log:           log,
		metrics:       opts.Metrics,
		saver:         opts.Saver,
		sink:          opts.Notifier,
		cmds:          make(chan func()),
		done:          make(chan struct{}),
		cancel:        cancel,
		ctx:           ctx,
		store:         st,
		eng:           eng,
		snaps:         snaps,
		settings:      opts.Settings,
		speed:         opts.Settings.Simulation.DefaultSpeed,
		pending:       map[uint64]clockwork.Timer{},
		snapshotEvery: opts.SnapshotEvery,
	}
	sched, err := gocron.NewScheduler(gocron.WithClock(opts.Clock))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("auto-save scheduler: %w", err)
	}
	s.sched = sched
	if err := s.scheduleAutoSave(opts.Settings); err != nil {
		cancel()
		_ = sched.Shutdown()
		return nil, err
	}
	sched.Start()
	go s.loop()
	s.metrics.SessionOpened()
	log.WithField("project", opts.Project.Name).Info("session created")
	return s, nil
}

func generateOptions(p domain.Project, st config.Settings) engine.GenerateOptions {
	return engine.GenerateOptions{
		Domain:         p.Domain,
		RandomEvents:   st.Agents.EnableRandomEvents,
		SmartResponses: st.Agents.SmartResponses,
	}
}

func (s *Session) ID() string      { return s.id }
func (s *Session) OwnerID() string { return s.owner }

func (s *Session) loop() {
	defer close(s.done)
	for {
		var tick <-chan time.Time
		if s.ticker != nil {
			tick = s.ticker.Chan()
		}
		select {
		case <-s.ctx.Done():
			s.stopClock()
			s.cancelPending()
			return
		case fn := <-s.cmds:
			fn()
		case <-tick:
			s.tick(true)
		}
	}
}

// do runs fn on the loop and waits for it.
func (s *Session) do(ctx context.Context, fn func() error) error {
	errc := make(chan error, 1)
	select {
	case s.cmds <- func() { errc <- fn() }:
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	return <-errc
}

// post queues fn on the loop without waiting.
func (s *Session) post(fn func()) {
	select {
	case s.cmds <- fn:
	case <-s.done:
	}
}

// after schedules fn on the loop after d. The event is dropped when the
// store generation changes before it runs.
func (s *Session) after(d time.Duration, fn func()) {
	gen := s.store.Generation()
	id := s.nextTimer
	s.nextTimer++
	s.pending[id] = s.clock.AfterFunc(d, func() {
		s.post(func() {
			delete(s.pending, id)
			if s.store.Generation() != gen {
				s.log.Debug("dropping stale deferred event")
				return
			}
			fn()
		})
	})
}

func (s *Session) cancelPending() {
	for id, t := range s.pending {
		t.Stop()
		delete(s.pending, id)
	}
}

func (s *Session) scaled(d time.Duration) time.Duration {
	return config.Scale(d, s.speed)
}

func (s *Session) interval() time.Duration {
	return config.TickInterval(s.settings.Agents.ActivityFrequency, s.speed)
}

func (s *Session) startClock() {
	s.running = true
	s.ticker = s.clock.NewTicker(s.interval())
}

func (s *Session) stopClock() {
	s.running = false
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
}

// Close stops the clock, cancels deferred events and the auto-save job.
func (s *Session) Close() error {
	var err error
	s.once.Do(func() {
		s.cancel()
		<-s.done
		s.schedMu.Lock()
		err = s.sched.Shutdown()
		s.schedMu.Unlock()
		s.metrics.SessionClosed()
		s.log.Info("session closed")
	})
	return err
}
