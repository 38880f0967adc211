package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"fitfunnel/internal/models/request_models"
	"fitfunnel/internal/models/response_models"
	mem "fitfunnel/pkg/memcache"
	"fitfunnel/pkg/utils"
)

type QuizServiceInterface interface {
	Questions() response_models.QuizQuestionsResponse
	Start(ctx context.Context, clientID string) (response_models.QuizStateResponse, error)
	Get(ctx context.Context, sessionID string) (response_models.QuizStateResponse, error)
	Answer(ctx context.Context, sessionID string, req request_models.AnswerRequest) (response_models.QuizStateResponse, error)
	Toggle(ctx context.Context, sessionID, questionID, option string) (response_models.QuizStateResponse, error)
	Next(ctx context.Context, sessionID string) (response_models.QuizStateResponse, error)
	Prev(ctx context.Context, sessionID string) (response_models.QuizStateResponse, error)
	GoTo(ctx context.Context, sessionID string, step int) (response_models.QuizStateResponse, error)
	AcknowledgeDiscount(ctx context.Context, sessionID string) (response_models.QuizStateResponse, error)
	Restart(ctx context.Context, sessionID string) (response_models.QuizStateResponse, error)
	Exit(ctx context.Context, sessionID string) error
}

type QuizSettings struct {
	DiscountMin       int
	DiscountMax       int
	InterstitialDelay time.Duration
	SubmitTimeout     time.Duration
	SessionTTL        time.Duration
	NotifyTimeout     time.Duration
}

type QuizOption func(*QuizService)

// WithClock replaces time.Now; interstitial deadlines are checked against it.
func WithClock(now func() time.Time) QuizOption {
	return func(s *QuizService) { s.now = now }
}

// WithRand sets the source used to draw discounts.
func WithRand(r *rand.Rand) QuizOption {
	return func(s *QuizService) { s.rng = r }
}

type QuizService struct {
	store       mem.Store
	catalog     *Catalog
	recommender RecommendationServiceInterface
	analysis    AnalysisServiceInterface
	snapshots   SnapshotServiceInterface
	notifier    NotificationServiceInterface
	settings    QuizSettings
	logger      *zap.Logger

	now   func() time.Time
	rngMu sync.Mutex
	rng   *rand.Rand
	locks keyedMutex
	wg    sync.WaitGroup
}

func NewQuizService(
	store mem.Store,
	catalog *Catalog,
	recommender RecommendationServiceInterface,
	analysis AnalysisServiceInterface,
	snapshots SnapshotServiceInterface,
	notifier NotificationServiceInterface,
	settings QuizSettings,
	logger *zap.Logger,
	opts ...QuizOption,
) *QuizService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &QuizService{
		store:       store,
		catalog:     catalog,
		recommender: recommender,
		analysis:    analysis,
		snapshots:   snapshots,
		notifier:    notifier,
		settings:    settings,
		logger:      logger,
		now:         time.Now,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Wait blocks until background lead notifications have finished.
func (s *QuizService) Wait() { s.wg.Wait() }

func sessionKey(id string) string { return "quiz:" + id }

func (s *QuizService) load(ctx context.Context, id string) (*QuizSession, error) {
	data, err := s.store.Get(ctx, sessionKey(id))
	if errors.Is(err, mem.ErrMiss) {
		return nil, utils.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var sess QuizSession
	if err := json.Unmarshal(data, &sess); err != nil {
		s.logger.Warn("discarding unreadable session", zap.String("session_id", id), zap.Error(err))
		return nil, utils.ErrSessionNotFound
	}
	return &sess, nil
}

func (s *QuizService) save(ctx context.Context, sess *QuizSession) error {
	sess.UpdatedAt = s.now()
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.store.Set(ctx, sessionKey(sess.ID), data, s.settings.SessionTTL); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *QuizService) view(sess *QuizSession) response_models.QuizStateResponse {
	return sess.view(s.catalog, s.now())
}

func (s *QuizService) drawDiscount() int {
	lo, hi := s.settings.DiscountMin, s.settings.DiscountMax
	if hi <= lo {
		return lo
	}
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return lo + s.rng.Intn(hi-lo+1)
}

func (s *QuizService) Questions() response_models.QuizQuestionsResponse {
	return response_models.QuizQuestionsResponse{
		Questions:  s.catalog.Questions(),
		TotalSteps: s.catalog.Len(),
	}
}

// Start opens a session for clientID, generating one when empty. A discount
// already stored for the client is carried over instead of drawn again.
func (s *QuizService) Start(ctx context.Context, clientID string) (response_models.QuizStateResponse, error) {
	if clientID == "" {
		clientID = uuid.NewString()
	}
	sess := s.newSession(ctx, clientID)
	if err := s.save(ctx, sess); err != nil {
		return response_models.QuizStateResponse{}, err
	}

	s.logger.Info("quiz started", zap.String("session_id", sess.ID), zap.String("client_id", clientID), zap.Bool("discount_carried", sess.Discount != nil))
	return s.view(sess), nil
}

func (s *QuizService) newSession(ctx context.Context, clientID string) *QuizSession {
	now := s.now()
	sess := &QuizSession{
		ID:                 uuid.NewString(),
		ClientID:           clientID,
		Phase:              PhaseQuestion,
		Direction:          DirectionNone,
		Answers:            NewFormState(s.catalog).Answers(),
		ShownInterstitials: []int{},
		Submission:         SubmissionIdle,
		StartedAt:          now,
	}

	discount, err := s.snapshots.LoadDiscount(ctx, clientID)
	if err != nil {
		s.logger.Warn("load stored discount", zap.String("client_id", clientID), zap.Error(err))
	}
	if discount != nil {
		sess.Discount = discount
		sess.DiscountAcknowledged = true
	}
	return sess
}

// resolveInterstitial finishes an interstitial whose delay has elapsed and
// advances past its step. It reports whether anything changed.
func (s *QuizService) resolveInterstitial(sess *QuizSession) (resolved bool, submit bool) {
	if sess.Phase != PhaseInterstitial || sess.Interstitial == nil {
		return false, false
	}
	if s.now().Before(sess.Interstitial.Until) {
		return false, false
	}
	if !sess.interstitialShown(sess.Interstitial.Step) {
		sess.ShownInterstitials = append(sess.ShownInterstitials, sess.Interstitial.Step)
	}
	sess.Interstitial = nil
	sess.Phase = PhaseQuestion
	return true, s.advance(sess)
}

// advance moves one step forward, or reports that the last step was left
// and the quiz must be submitted.
func (s *QuizService) advance(sess *QuizSession) (submit bool) {
	sess.Direction = DirectionForward
	if sess.Step >= s.catalog.Len()-1 {
		return true
	}
	sess.Step++
	if sess.Step > sess.MaxReached {
		sess.MaxReached = sess.Step
	}
	return false
}

// leaveStep runs the gates that follow a completed step: the loading
// interstitial, then advancing.
func (s *QuizService) leaveStep(sess *QuizSession) (submit bool) {
	if msg, ok := s.catalog.Interstitial(sess.Step); ok && !sess.interstitialShown(sess.Step) {
		if s.settings.InterstitialDelay > 0 {
			sess.Phase = PhaseInterstitial
			sess.Interstitial = &Interstitial{Step: sess.Step, Message: msg, Until: s.now().Add(s.settings.InterstitialDelay)}
			return false
		}
		sess.ShownInterstitials = append(sess.ShownInterstitials, sess.Step)
	}
	return s.advance(sess)
}

// mutate runs a navigation fn on the locked session and saves it. An
// elapsed interstitial consumes the call. When fn asks for submission the
// lock is released before the external calls run.
func (s *QuizService) mutate(ctx context.Context, id string, fn func(sess *QuizSession) (submit bool, err error)) (response_models.QuizStateResponse, error) {
	return s.apply(ctx, id, false, fn)
}

// write is mutate for calls that carry answer data: fn still runs after an
// elapsed interstitial is resolved.
func (s *QuizService) write(ctx context.Context, id string, fn func(sess *QuizSession) (submit bool, err error)) (response_models.QuizStateResponse, error) {
	return s.apply(ctx, id, true, fn)
}

func (s *QuizService) apply(ctx context.Context, id string, always bool, fn func(sess *QuizSession) (submit bool, err error)) (response_models.QuizStateResponse, error) {
	unlock := s.locks.lock(id)

	sess, err := s.load(ctx, id)
	if err != nil {
		unlock()
		return response_models.QuizStateResponse{}, err
	}

	resolved, submit := s.resolveInterstitial(sess)
	if !resolved || always {
		more, err := fn(sess)
		if err != nil {
			unlock()
			return response_models.QuizStateResponse{}, err
		}
		submit = submit || more
	}

	if submit {
		sess.Phase = PhaseSubmitting
		sess.Submission = SubmissionInFlight
		sess.SubmissionID = uuid.NewString()
	}
	if err := s.save(ctx, sess); err != nil {
		unlock()
		return response_models.QuizStateResponse{}, err
	}
	unlock()

	if submit {
		return s.submit(ctx, sess)
	}
	return s.view(sess), nil
}

func (s *QuizService) Get(ctx context.Context, id string) (response_models.QuizStateResponse, error) {
	return s.mutate(ctx, id, func(*QuizSession) (bool, error) { return false, nil })
}

func answerFromRequest(q request_models.QuizQuestion, req request_models.AnswerRequest) (AnswerValue, error) {
	switch answerKindFor(q.Type) {
	case AnswerList:
		if req.Text != "" || len(req.Pair) > 0 {
			return AnswerValue{}, fmt.Errorf("%w: %s expects list", utils.ErrAnswerKindMismatch, q.ID)
		}
		return ListAnswer(req.List...), nil
	case AnswerPair:
		if len(req.Pair) != 2 || req.Text != "" || len(req.List) > 0 {
			return AnswerValue{}, fmt.Errorf("%w: %s expects a pair", utils.ErrAnswerKindMismatch, q.ID)
		}
		return PairAnswer(req.Pair[0], req.Pair[1]), nil
	default:
		if len(req.List) > 0 || len(req.Pair) > 0 {
			return AnswerValue{}, fmt.Errorf("%w: %s expects text", utils.ErrAnswerKindMismatch, q.ID)
		}
		return TextAnswer(req.Text), nil
	}
}

// Answer stores one answer. Questions past the furthest reached step are
// rejected.
func (s *QuizService) Answer(ctx context.Context, id string, req request_models.AnswerRequest) (response_models.QuizStateResponse, error) {
	return s.write(ctx, id, func(sess *QuizSession) (bool, error) {
		if sess.submitted() {
			return false, utils.ErrQuizSubmitted
		}
		q, step, ok := s.catalog.Lookup(req.QuestionID)
		if !ok {
			return false, fmt.Errorf("%w: %s", utils.ErrInvalidQuestion, req.QuestionID)
		}
		if step > sess.MaxReached {
			return false, fmt.Errorf("%w: %s", utils.ErrStepUnreachable, req.QuestionID)
		}
		value, err := answerFromRequest(q, req)
		if err != nil {
			return false, err
		}

		form := RestoreFormState(s.catalog, sess.Answers)
		if err := form.UpdateAnswer(req.QuestionID, value); err != nil {
			return false, err
		}
		sess.Answers = form.Answers()
		return false, nil
	})
}

func (s *QuizService) Toggle(ctx context.Context, id, questionID, option string) (response_models.QuizStateResponse, error) {
	return s.write(ctx, id, func(sess *QuizSession) (bool, error) {
		if sess.submitted() {
			return false, utils.ErrQuizSubmitted
		}
		if _, step, ok := s.catalog.Lookup(questionID); ok && step > sess.MaxReached {
			return false, fmt.Errorf("%w: %s", utils.ErrStepUnreachable, questionID)
		}

		form := RestoreFormState(s.catalog, sess.Answers)
		if err := form.ToggleOption(questionID, option); err != nil {
			return false, err
		}
		sess.Answers = form.Answers()
		return false, nil
	})
}

// Next validates the current step and then, in order: unlocks the discount,
// shows a loading interstitial, advances, or submits the quiz.
func (s *QuizService) Next(ctx context.Context, id string) (response_models.QuizStateResponse, error) {
	return s.mutate(ctx, id, func(sess *QuizSession) (bool, error) {
		switch sess.Phase {
		case PhaseSubmitting, PhaseResultShown:
			return false, utils.ErrQuizSubmitted
		case PhaseDiscountUnlock:
			return false, utils.ErrDiscountPending
		case PhaseInterstitial:
			return false, nil
		}

		form := RestoreFormState(s.catalog, sess.Answers)
		if !form.IsStepComplete(sess.Step) {
			q, _ := s.catalog.Question(sess.Step)
			return false, &StepIncompleteError{Step: sess.Step, QuestionID: q.ID}
		}

		if sess.Step == s.catalog.DiscountStep() && sess.Discount == nil {
			s.unlockDiscount(ctx, sess)
			return false, nil
		}
		return s.leaveStep(sess), nil
	})
}

func (s *QuizService) unlockDiscount(ctx context.Context, sess *QuizSession) {
	amount := s.drawDiscount()
	sess.Discount = &amount
	sess.DiscountAcknowledged = false
	sess.Phase = PhaseDiscountUnlock
	sess.Direction = DirectionNone

	if err := s.snapshots.SaveDiscount(ctx, sess.ClientID, amount); err != nil {
		s.logger.Warn("persist discount", zap.String("client_id", sess.ClientID), zap.Error(err))
	}
	profile, metrics := WithMetrics(BuildProfile(sess.Answers))
	if err := s.snapshots.SaveMetrics(ctx, sess.ClientID, profile, metrics); err != nil {
		s.logger.Warn("persist metrics bundle", zap.String("client_id", sess.ClientID), zap.Error(err))
	}
	s.logger.Info("discount unlocked", zap.String("session_id", sess.ID), zap.Int("amount", amount))
}

// AcknowledgeDiscount closes the discount screen and continues forward.
// Calling it when no discount is pending changes nothing.
func (s *QuizService) AcknowledgeDiscount(ctx context.Context, id string) (response_models.QuizStateResponse, error) {
	return s.mutate(ctx, id, func(sess *QuizSession) (bool, error) {
		if sess.Phase != PhaseDiscountUnlock {
			return false, nil
		}
		sess.DiscountAcknowledged = true
		sess.Phase = PhaseQuestion
		return s.leaveStep(sess), nil
	})
}

// Prev steps back; at the first step it ends the session.
func (s *QuizService) Prev(ctx context.Context, id string) (response_models.QuizStateResponse, error) {
	exited := false
	state, err := s.mutate(ctx, id, func(sess *QuizSession) (bool, error) {
		switch sess.Phase {
		case PhaseSubmitting, PhaseResultShown:
			return false, utils.ErrQuizSubmitted
		case PhaseDiscountUnlock:
			return false, utils.ErrDiscountPending
		case PhaseInterstitial:
			return false, nil
		}

		sess.Direction = DirectionBackward
		if sess.Step == 0 {
			sess.Phase = PhaseExited
			exited = true
			return false, nil
		}
		sess.Step--
		return false, nil
	})
	if err != nil || !exited {
		return state, err
	}

	if err := s.Exit(ctx, id); err != nil && !errors.Is(err, utils.ErrSessionNotFound) {
		return state, err
	}
	return state, nil
}

// GoTo jumps to a step already reached whose previous mandatory steps are
// all answered.
func (s *QuizService) GoTo(ctx context.Context, id string, step int) (response_models.QuizStateResponse, error) {
	return s.mutate(ctx, id, func(sess *QuizSession) (bool, error) {
		switch sess.Phase {
		case PhaseSubmitting, PhaseResultShown:
			return false, utils.ErrQuizSubmitted
		case PhaseDiscountUnlock:
			return false, utils.ErrDiscountPending
		case PhaseInterstitial:
			return false, nil
		}

		if step < 0 || step >= s.catalog.Len() || step > sess.MaxReached {
			return false, fmt.Errorf("%w: %d", utils.ErrStepUnreachable, step)
		}
		form := RestoreFormState(s.catalog, sess.Answers)
		if first := form.FirstIncompleteStep(); first != -1 && first < step {
			return false, fmt.Errorf("%w: step %d is unanswered", utils.ErrStepUnreachable, first)
		}

		switch {
		case step > sess.Step:
			sess.Direction = DirectionForward
		case step < sess.Step:
			sess.Direction = DirectionBackward
		}
		sess.Step = step
		return false, nil
	})
}

// Restart replaces the session with a fresh one for the same client.
func (s *QuizService) Restart(ctx context.Context, id string) (response_models.QuizStateResponse, error) {
	unlock := s.locks.lock(id)
	old, err := s.load(ctx, id)
	if err == nil {
		err = s.store.Delete(ctx, sessionKey(id))
	}
	unlock()
	if err != nil {
		return response_models.QuizStateResponse{}, err
	}
	return s.Start(ctx, old.ClientID)
}

func (s *QuizService) Exit(ctx context.Context, id string) error {
	unlock := s.locks.lock(id)
	defer unlock()

	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, sessionKey(id)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.logger.Info("quiz exited", zap.String("session_id", id))
	return nil
}

// submit runs recommendation and analysis concurrently, stores the result
// and dispatches the lead email in the background. It always produces a
// result: analysis errors fall back to the local text.
func (s *QuizService) submit(ctx context.Context, pending *QuizSession) (response_models.QuizStateResponse, error) {
	profile, metrics := WithMetrics(BuildProfile(pending.Answers))

	category := CategoryNormal
	if metrics != nil {
		category, _ = ParseBMICategory(metrics.BMICategory)
	}

	subCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.settings.SubmitTimeout)
	defer cancel()

	var (
		plan     response_models.PlanResponse
		analysis response_models.AnalysisResult
	)
	g, gctx := errgroup.WithContext(subCtx)
	g.Go(func() error {
		plan = s.recommender.Recommend(category, NormalizeActivity(profile.ActivityLevel), NormalizeGoal(profile.Goal))
		return nil
	})
	g.Go(func() error {
		analysis = s.analysis.AnalyzeOrFallback(gctx, profile)
		return nil
	})
	_ = g.Wait()

	if analysis.RecommendedPlan != plan.ID {
		s.logger.Debug("analysis plan overridden by recommendation engine",
			zap.String("suggested", analysis.RecommendedPlan),
			zap.String("plan", plan.ID),
		)
		analysis.RecommendedPlan = plan.ID
	}

	result := &response_models.QuizResult{
		Analysis: analysis,
		Plan:     plan,
		Metrics:  metrics,
		Discount: pending.Discount,
	}

	storeCtx := context.WithoutCancel(ctx)
	unlock := s.locks.lock(pending.ID)
	defer unlock()

	sess, err := s.load(storeCtx, pending.ID)
	if err != nil {
		// exited while the analysis was running
		s.logger.Info("session gone before submission finished", zap.String("session_id", pending.ID))
		return response_models.QuizStateResponse{}, err
	}
	if sess.Phase != PhaseSubmitting || sess.SubmissionID != pending.SubmissionID {
		return s.view(sess), nil
	}

	sess.Result = result
	sess.Phase = PhaseResultShown
	sess.Submission = SubmissionSucceeded

	if !sess.SnapshotWritten {
		if err := s.snapshots.SaveMetrics(storeCtx, sess.ClientID, profile, metrics); err != nil {
			s.logger.Warn("persist metrics bundle", zap.String("client_id", sess.ClientID), zap.Error(err))
		}
		bundle := response_models.AnalysisBundle{Analysis: &analysis, Plan: &plan, Discount: sess.Discount}
		if err := s.snapshots.SaveAnalysis(storeCtx, sess.ClientID, bundle); err != nil {
			s.logger.Warn("persist analysis result", zap.String("client_id", sess.ClientID), zap.Error(err))
		}
		sess.SnapshotWritten = true
	}

	if err := s.save(storeCtx, sess); err != nil {
		sess.Submission = SubmissionFailed
		sess.SubmissionError = err.Error()
		return s.view(sess), err
	}

	s.logger.Info("quiz submitted",
		zap.String("session_id", sess.ID),
		zap.String("plan", plan.ID),
		zap.String("analysis_source", analysis.Source),
	)

	s.dispatchNotification(profile, analysis, sess.Discount)
	return s.view(sess), nil
}

func (s *QuizService) dispatchNotification(profile request_models.Profile, analysis response_models.AnalysisResult, discount *int) {
	if s.notifier == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.settings.NotifyTimeout)
		defer cancel()

		sent, err := s.notifier.Notify(ctx, profile, analysis, discount)
		if err != nil {
			s.logger.Error("lead notification failed", zap.String("email", profile.Email), zap.Error(err))
			return
		}
		if !sent {
			s.logger.Info("lead notification skipped")
		}
	}()
}

// keyedMutex serializes work per session id.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func (k *keyedMutex) lock(key string) (unlock func()) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*refMutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
