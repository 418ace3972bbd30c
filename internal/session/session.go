// Package session holds the client-side state of one analysis session: the
// staged image, whether an analysis is in flight, and the last result or
// error.
//
// State moves through Idle -> ImageStaged -> Analyzing -> Succeeded|Failed
// and back to Idle on Reset. Only the most recently issued analysis may
// update state; a response that arrives after a newer AnalyzeImage or a
// Reset is discarded without notifying anyone.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/fpang/fridge-chef/internal/gateway"
	"github.com/fpang/fridge-chef/internal/recipe"
	"github.com/rs/zerolog/log"
)

// Notification titles.
const (
	SuccessTitle = "🎉 Analysis Complete!"
	FailureTitle = "❌ Analysis Failed"
)

// Analyzer performs one analysis round trip. *gateway.Client implements it.
type Analyzer interface {
	SubmitImage(ctx context.Context, image string) (*recipe.AnalysisResult, error)
}

var _ Analyzer = (*gateway.Client)(nil)

// State is a point-in-time copy of the session. Empty Image and Error mean
// "absent". Result is shared and must not be modified.
type State struct {
	Image       string
	IsAnalyzing bool
	Result      *recipe.AnalysisResult
	Error       string
}

// Phase names the conceptual state of a session.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseImageStaged
	PhaseAnalyzing
	PhaseSucceeded
	PhaseFailed
)

// String returns a human-readable phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseImageStaged:
		return "image_staged"
	case PhaseAnalyzing:
		return "analyzing"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Phase derives the conceptual phase from the fields. An in-flight
// analysis wins over a stale result or error.
func (s State) Phase() Phase {
	switch {
	case s.IsAnalyzing:
		return PhaseAnalyzing
	case s.Error != "":
		return PhaseFailed
	case s.Result != nil:
		return PhaseSucceeded
	case s.Image != "":
		return PhaseImageStaged
	default:
		return PhaseIdle
	}
}

// Session is safe for concurrent use.
type Session struct {
	analyzer Analyzer
	notifier Notifier

	mu     sync.Mutex
	state  State
	seq    uint64             // generation of the latest issued analysis or reset
	cancel context.CancelFunc // cancels the in-flight analysis, if any

	obsMu     sync.Mutex
	observers map[uint64]func(State)
	nextObsID uint64
}

// New creates an idle session. A nil notifier discards notifications.
func New(analyzer Analyzer, notifier Notifier) *Session {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Session{
		analyzer:  analyzer,
		notifier:  notifier,
		observers: make(map[uint64]func(State)),
	}
}

// Snapshot returns the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to be called with the new state after every
// change. The returned function removes the subscription.
func (s *Session) Subscribe(fn func(State)) (unsubscribe func()) {
	s.obsMu.Lock()
	id := s.nextObsID
	s.nextObsID++
	s.observers[id] = fn
	s.obsMu.Unlock()

	return func() {
		s.obsMu.Lock()
		delete(s.observers, id)
		s.obsMu.Unlock()
	}
}

// SetImage stages image and clears any error. It leaves IsAnalyzing and
// Result alone, so staging a new photo keeps the previous result visible
// until the next analysis completes. An empty image clears the stage.
func (s *Session) SetImage(image string) {
	s.mu.Lock()
	s.state.Image = image
	s.state.Error = ""
	snap := s.state
	s.mu.Unlock()

	s.publish(snap)
}

// AnalyzeImage runs one analysis of image and blocks until it resolves.
// Failures are never returned: they land in State.Error and trigger a
// failure notification. Any earlier in-flight analysis is cancelled and
// its outcome discarded.
//
// The returned State is the snapshot this call produced; ok is false when
// the call was superseded or reset before it resolved.
func (s *Session) AnalyzeImage(ctx context.Context, image string) (final State, ok bool) {
	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.seq++
	seq := s.seq
	s.cancel = cancel
	s.state.IsAnalyzing = true
	s.state.Error = ""
	snap := s.state
	s.mu.Unlock()

	s.publish(snap)

	result, err := s.analyzer.SubmitImage(reqCtx, image)
	if err == nil && result == nil {
		err = &gateway.RequestError{
			Kind:    gateway.KindProtocol,
			Message: gateway.FallbackMessage,
			Err:     errors.New("analyzer returned no result"),
		}
	}

	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		log.Debug().
			Uint64("seq", seq).
			Err(err).
			Msg("Discarding superseded analysis response")
		return State{}, false
	}
	s.cancel = nil
	s.state.IsAnalyzing = false
	if err != nil {
		s.state.Error = gateway.Message(err)
	} else {
		s.state.Result = result
	}
	snap = s.state
	s.mu.Unlock()

	s.publish(snap)

	if err != nil {
		log.Error().Err(err).Uint64("seq", seq).Msg("Image analysis failed")
		s.notify(ctx, Notification{
			Level:       LevelFailure,
			Title:       FailureTitle,
			Description: snap.Error,
			Timeout:     NotificationTimeout,
		})
		return snap, true
	}

	log.Info().
		Uint64("seq", seq).
		Int("ingredients", len(result.IngredientsDetected)).
		Int("recipes", len(result.Recipes)).
		Msg("Image analysis complete")
	s.notify(ctx, Notification{
		Level:       LevelSuccess,
		Title:       SuccessTitle,
		Description: recipe.Summary(result),
		Timeout:     NotificationTimeout,
	})
	return snap, true
}

// Reset returns every field to its initial value and invalidates any
// in-flight analysis so its response cannot resurrect old data.
func (s *Session) Reset() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.seq++
	s.state = State{}
	snap := s.state
	s.mu.Unlock()

	s.publish(snap)
}

func (s *Session) publish(snap State) {
	s.obsMu.Lock()
	fns := make([]func(State), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.obsMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func (s *Session) notify(ctx context.Context, n Notification) {
	if err := s.notifier.Notify(ctx, n); err != nil {
		log.Warn().Err(err).Str("title", n.Title).Msg("Failed to deliver notification")
	}
}
