// Package presence drives the header line that alternates between the local
// clock and the last activity fetched from the activity store.
//
// A Display owns three timers: a clock tick, an activity fetch and an
// alternation cycle that fades the line out, swaps it, and fades it back in.
// All of them are served from one goroutine, so state changes never race;
// the fetch itself runs off that goroutine so slow I/O never delays a tick.
package presence

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/emjjkk/portfolio-backend/src/lib/metrics"
	"github.com/emjjkk/portfolio-backend/src/types"
	"go.uber.org/zap"
)

const (
	DefaultClockInterval     = time.Second
	DefaultFetchInterval     = 30 * time.Second
	DefaultAlternateInterval = 5 * time.Second
	DefaultFadeDelay         = 300 * time.Millisecond
	DefaultFetchTimeout      = 10 * time.Second

	ClockLayout = "15:04:05"
)

var ErrAlreadyRunning = errors.New("presence display already running")

type LineKind string

const (
	LineClock    LineKind = "clock"
	LineActivity LineKind = "activity"
)

type EventKind int

const (
	// EventLine fires whenever the rendered line or its visibility changes.
	EventLine EventKind = iota
	// EventActivity fires when a fetch replaced the held activity.
	EventActivity
	// EventFetchFailed fires when a fetch failed; the held activity is kept.
	EventFetchFailed
)

type Event struct {
	Kind     EventKind
	Snapshot Snapshot
	Err      error
}

// Snapshot is a copy of the display state at one instant.
type Snapshot struct {
	Line            string          `json:"line"`
	Kind            LineKind        `json:"kind"`
	Visible         bool            `json:"visible"`
	ShowingActivity bool            `json:"showing_activity"`
	Clock           string          `json:"clock"`
	Activity        *types.Activity `json:"activity"`
}

type Options struct {
	Location *time.Location

	ClockInterval     time.Duration
	FetchInterval     time.Duration
	AlternateInterval time.Duration
	FadeDelay         time.Duration
	FetchTimeout      time.Duration

	Logger  *zap.Logger
	OnEvent func(Event)

	// Now is the wall clock; tests pin it.
	Now func() time.Time
}

type state struct {
	activity        *types.Activity
	showingActivity bool
	visible         bool
	clock           string
}

type Display struct {
	fetcher Fetcher
	opts    Options

	mu    sync.RWMutex
	state state

	runMu   sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

func NewDisplay(fetcher Fetcher, opts Options) *Display {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.ClockInterval <= 0 {
		opts.ClockInterval = DefaultClockInterval
	}
	if opts.FetchInterval <= 0 {
		opts.FetchInterval = DefaultFetchInterval
	}
	if opts.AlternateInterval <= 0 {
		opts.AlternateInterval = DefaultAlternateInterval
	}
	if opts.FadeDelay <= 0 {
		opts.FadeDelay = DefaultFadeDelay
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	d := &Display{
		fetcher: fetcher,
		opts:    opts,
		state:   state{visible: true},
	}
	d.state.clock = d.formatClock(opts.Now())
	return d
}

// RenderLine picks the activity line only when there is a name to show.
func RenderLine(activity *types.Activity, showingActivity bool, clock string) (string, LineKind) {
	if showingActivity && activity != nil && activity.Name != "" {
		line := "currently on " + activity.Name
		if activity.Details != "" {
			line += " — " + activity.Details
		}
		return line, LineActivity
	}
	return clock, LineClock
}

func (d *Display) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.snapshotLocked()
}

func (d *Display) snapshotLocked() Snapshot {
	line, kind := RenderLine(d.state.activity, d.state.showingActivity, d.state.clock)
	return Snapshot{
		Line:            line,
		Kind:            kind,
		Visible:         d.state.visible,
		ShowingActivity: d.state.showingActivity,
		Clock:           d.state.clock,
		Activity:        d.state.activity,
	}
}

// Start launches the timers. The first fetch goes out immediately. A
// display whose ctx was cancelled can be started again without Stop.
func (d *Display) Start(ctx context.Context) error {
	d.runMu.Lock()
	defer d.runMu.Unlock()

	if d.running {
		select {
		case <-d.done:
			// the parent ctx ended the previous loop
			d.cancel()
		default:
			return ErrAlreadyRunning
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.done = make(chan struct{})
	d.running = true

	go d.run(ctx, d.done)
	return nil
}

// Stop tears all timers down and waits for the loop to exit. Safe to call
// more than once.
func (d *Display) Stop() {
	d.runMu.Lock()
	defer d.runMu.Unlock()

	if !d.running {
		return
	}

	d.cancel()
	<-d.done
	d.running = false
}

type fetchResult struct {
	activity *types.Activity
	err      error
}

func (d *Display) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	clockTicker := time.NewTicker(d.opts.ClockInterval)
	fetchTicker := time.NewTicker(d.opts.FetchInterval)
	alternateTicker := time.NewTicker(d.opts.AlternateInterval)
	defer clockTicker.Stop()
	defer fetchTicker.Stop()
	defer alternateTicker.Stop()

	var (
		fadeTimer *time.Timer
		fade      <-chan time.Time
	)
	defer func() {
		if fadeTimer != nil {
			fadeTimer.Stop()
		}
	}()

	// at most one fetch in flight, so a buffer of one never blocks the sender
	results := make(chan fetchResult, 1)
	fetching := false
	startFetch := func() {
		if fetching {
			return
		}
		fetching = true
		go func() {
			fetchCtx, cancel := context.WithTimeout(ctx, d.opts.FetchTimeout)
			defer cancel()
			activity, err := d.fetcher.Fetch(fetchCtx)
			results <- fetchResult{activity: activity, err: err}
		}()
	}

	d.tickClock(d.opts.Now())
	startFetch()

	for {
		select {
		case <-ctx.Done():
			return

		case <-clockTicker.C:
			d.tickClock(d.opts.Now())

		case <-fetchTicker.C:
			startFetch()

		case res := <-results:
			fetching = false
			if ctx.Err() != nil {
				return
			}
			d.applyFetch(res.activity, res.err)

		case <-alternateTicker.C:
			if fade != nil {
				fadeTimer.Stop()
				d.completeFade()
			}
			d.beginFade()
			fadeTimer = time.NewTimer(d.opts.FadeDelay)
			fade = fadeTimer.C

		case <-fade:
			fade = nil
			d.completeFade()
		}
	}
}

func (d *Display) formatClock(now time.Time) string {
	return now.In(d.opts.Location).Format(ClockLayout)
}

// update applies fn under the lock and reports a line event if the visible
// output changed.
func (d *Display) update(fn func(s *state)) {
	d.mu.Lock()
	before := d.snapshotLocked()
	fn(&d.state)
	after := d.snapshotLocked()
	d.mu.Unlock()

	if before.Line != after.Line || before.Visible != after.Visible {
		d.emit(Event{Kind: EventLine, Snapshot: after})
	}
}

func (d *Display) tickClock(now time.Time) {
	clock := d.formatClock(now)
	d.update(func(s *state) { s.clock = clock })
}

func (d *Display) beginFade() {
	d.update(func(s *state) { s.visible = false })
}

func (d *Display) completeFade() {
	d.update(func(s *state) {
		s.showingActivity = !s.showingActivity
		s.visible = true
	})
}

// applyFetch replaces the held activity only when the fetch produced one.
// A failed fetch or an empty answer keeps whatever was shown before.
func (d *Display) applyFetch(activity *types.Activity, err error) {
	if err != nil {
		d.opts.Logger.Warn("failed to fetch activity", zap.Error(err))
		metrics.RecordPollFailure()
		d.emit(Event{Kind: EventFetchFailed, Snapshot: d.Snapshot(), Err: err})
		return
	}
	if activity == nil || activity.Name == "" {
		return
	}

	d.update(func(s *state) { s.activity = activity })
	d.emit(Event{Kind: EventActivity, Snapshot: d.Snapshot()})
}

func (d *Display) emit(ev Event) {
	if d.opts.OnEvent != nil {
		d.opts.OnEvent(ev)
	}
}
