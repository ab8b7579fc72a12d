package trial

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"github.com/d-krupke/cpsat-autotune/pkg/errors"
	"github.com/d-krupke/cpsat-autotune/pkg/logging"
	"github.com/d-krupke/cpsat-autotune/pkg/scoring"
)

// Objective is the per-trial function a study optimizes. It always returns
// a plain scalar; pruned or knocked-out candidates report their fallback
// score instead of signalling through errors.
type Objective func(t Trial) (float64, error)

// Study drives the trial suggester: it hands trials to the objective,
// feeds completed observations back into the sampler, and tracks the best
// suggestion set seen so far. Trials run serially unless WithConcurrency
// raises the limit.
type Study struct {
	id          string
	direction   scoring.Direction
	sampler     *TPESampler
	journal     *Journal
	logger      *logging.Logger
	concurrency int

	mu         sync.Mutex
	queue      []map[string]interface{}
	next       int
	bestParams map[string]interface{}
	bestScore  float64
	hasBest    bool
}

// StudyOption customizes a study.
type StudyOption func(*Study)

// WithSampler replaces the default TPE sampler.
func WithSampler(s *TPESampler) StudyOption {
	return func(st *Study) { st.sampler = s }
}

// WithJournal persists completed trials to the given journal.
func WithJournal(j *Journal) StudyOption {
	return func(st *Study) { st.journal = j }
}

// WithConcurrency allows up to n trials to be evaluated concurrently. The
// objective must be safe for concurrent use. An objective funneling into a
// single shared scoring cache still executes its solver runs one at a time;
// concurrency then overlaps only sampling, journaling and scheduling.
func WithConcurrency(n int) StudyOption {
	return func(st *Study) { st.concurrency = n }
}

// WithLogger injects the logger; the process default is used otherwise.
func WithLogger(logger *logging.Logger) StudyOption {
	return func(st *Study) { st.logger = logger }
}

// NewStudy creates a study optimizing in the given direction.
func NewStudy(direction scoring.Direction, opts ...StudyOption) *Study {
	s := &Study{
		id:          uuid.NewString(),
		direction:   direction,
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sampler == nil {
		s.sampler = NewTPESampler(TPEConfig{})
	}
	if s.logger == nil {
		s.logger = logging.GetLogger()
	}
	return s
}

// ID returns the unique study identifier.
func (s *Study) ID() string { return s.id }

// Direction returns the study's optimization direction.
func (s *Study) Direction() scoring.Direction { return s.direction }

// Enqueue schedules a fixed suggestion mapping to be replayed before any
// sampled trial, e.g. the default configuration.
func (s *Study) Enqueue(suggestions map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, suggestions)
}

func (s *Study) nextTrial() Trial {
	s.mu.Lock()
	defer s.mu.Unlock()
	number := s.next
	s.next++
	if len(s.queue) > 0 {
		suggestions := s.queue[0]
		s.queue = s.queue[1:]
		return &queuedTrial{FixedTrial: NewFixedTrial(suggestions), number: number}
	}
	return newSamplerTrial(number, s.sampler)
}

// Optimize runs nTrials trials of the objective.
func (s *Study) Optimize(ctx context.Context, objective Objective, nTrials int) error {
	if nTrials < 1 {
		return errors.WithFields(
			errors.New(errors.InvalidInput, "nTrials must be at least 1"),
			errors.Fields{"n_trials": nTrials},
		)
	}
	ctx = logging.WithStudyID(ctx, s.id)
	if err := s.journal.CreateStudy(ctx, s.id, s.direction.String()); err != nil {
		return err
	}

	if s.concurrency <= 1 {
		for i := 0; i < nTrials; i++ {
			if err := s.runTrial(ctx, objective); err != nil {
				return err
			}
		}
		return nil
	}

	p := pool.New().WithMaxGoroutines(s.concurrency).WithErrors()
	for i := 0; i < nTrials; i++ {
		p.Go(func() error {
			return s.runTrial(ctx, objective)
		})
	}
	return p.Wait()
}

func (s *Study) runTrial(ctx context.Context, objective Objective) error {
	if err := errors.CheckContext(ctx, "trial"); err != nil {
		return err
	}
	t := s.nextTrial()
	score, err := objective(t)
	if err != nil {
		if jerr := s.journal.RecordTrial(ctx, s.id, t.Number(), t.Params(), 0, TrialStateFailed); jerr != nil {
			s.logger.Warn(ctx, "failed to journal trial %d: %v", t.Number(), jerr)
		}
		return errors.Wrap(err, errors.TrialFailed, "objective failed")
	}
	s.complete(ctx, t, score)
	return nil
}

func (s *Study) complete(ctx context.Context, t Trial, score float64) {
	suggestions := t.Params()

	// The sampler works in a single maximize convention.
	internal := score
	if s.direction == scoring.Minimize {
		internal = -score
	}
	s.sampler.Observe(suggestions, internal)

	s.mu.Lock()
	if !s.hasBest || betterThan(s.direction, score, s.bestScore) {
		s.hasBest = true
		s.bestScore = score
		s.bestParams = suggestions
	}
	s.mu.Unlock()

	s.logger.Debug(ctx, "trial %d completed with score %g", t.Number(), score)
	if err := s.journal.RecordTrial(ctx, s.id, t.Number(), suggestions, score, TrialStateComplete); err != nil {
		s.logger.Warn(ctx, "failed to journal trial %d: %v", t.Number(), err)
	}
}

// BestTrial returns the suggestions and score of the best completed trial.
func (s *Study) BestTrial() (map[string]interface{}, float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bestParams, s.bestScore, s.hasBest
}

func betterThan(d scoring.Direction, a, b float64) bool {
	if d == scoring.Maximize {
		return a > b
	}
	return a < b
}
