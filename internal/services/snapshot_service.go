package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"fitfunnel/internal/models/request_models"
	"fitfunnel/internal/models/response_models"
	"fitfunnel/internal/repositories"
	"fitfunnel/pkg/utils"
)

const (
	SnapshotKeyMetrics  = "metrics_bundle"
	SnapshotKeyAnalysis = "analysis_result"
	SnapshotVersion     = 1
)

type snapshotEnvelope struct {
	Version int             `json:"version"`
	SavedAt time.Time       `json:"saved_at"`
	Payload json.RawMessage `json:"payload"`
}

type SnapshotServiceInterface interface {
	SaveMetrics(ctx context.Context, clientID string, profile request_models.Profile, metrics *response_models.DerivedMetrics) error
	SaveAnalysis(ctx context.Context, clientID string, bundle response_models.AnalysisBundle) error
	SaveDiscount(ctx context.Context, clientID string, discount int) error
	LoadDiscount(ctx context.Context, clientID string) (*int, error)
	Load(ctx context.Context, clientID string) (response_models.SnapshotResponse, error)
}

type SnapshotService struct {
	repo   repositories.SnapshotRepositoryInterface
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger
}

func NewSnapshotService(repo repositories.SnapshotRepositoryInterface, ttl time.Duration, logger *zap.Logger) *SnapshotService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotService{repo: repo, ttl: ttl, now: time.Now, logger: logger}
}

func (s *SnapshotService) save(ctx context.Context, clientID, key string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	env, err := json.Marshal(snapshotEnvelope{Version: SnapshotVersion, SavedAt: s.now().UTC(), Payload: raw})
	if err != nil {
		return fmt.Errorf("encode %s envelope: %w", key, err)
	}
	return s.repo.Save(ctx, clientID, key, env, s.ttl)
}

// load decodes the payload under key into out. Envelopes from another
// version are reported as not found.
func (s *SnapshotService) load(ctx context.Context, clientID, key string, out any) (time.Time, error) {
	data, err := s.repo.Load(ctx, clientID, key)
	if err != nil {
		return time.Time{}, err
	}

	var env snapshotEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		s.logger.Warn("discarding unreadable snapshot", zap.String("client_id", clientID), zap.String("key", key), zap.Error(err))
		return time.Time{}, utils.ErrSnapshotNotFound
	}
	if env.Version != SnapshotVersion {
		s.logger.Info("ignoring snapshot with unknown version", zap.String("key", key), zap.Int("version", env.Version))
		return time.Time{}, utils.ErrSnapshotNotFound
	}
	if err := json.Unmarshal(env.Payload, out); err != nil {
		return time.Time{}, utils.ErrSnapshotNotFound
	}
	return env.SavedAt, nil
}

func (s *SnapshotService) SaveMetrics(ctx context.Context, clientID string, profile request_models.Profile, metrics *response_models.DerivedMetrics) error {
	return s.save(ctx, clientID, SnapshotKeyMetrics, response_models.MetricsBundle{Profile: profile, Metrics: metrics})
}

func (s *SnapshotService) SaveAnalysis(ctx context.Context, clientID string, bundle response_models.AnalysisBundle) error {
	return s.save(ctx, clientID, SnapshotKeyAnalysis, bundle)
}

// SaveDiscount records the discount while keeping any analysis already
// stored for the client.
func (s *SnapshotService) SaveDiscount(ctx context.Context, clientID string, discount int) error {
	var bundle response_models.AnalysisBundle
	if _, err := s.load(ctx, clientID, SnapshotKeyAnalysis, &bundle); err != nil && !errors.Is(err, utils.ErrSnapshotNotFound) {
		return err
	}
	bundle.Discount = &discount
	return s.SaveAnalysis(ctx, clientID, bundle)
}

// LoadDiscount returns nil when no discount was drawn for the client.
func (s *SnapshotService) LoadDiscount(ctx context.Context, clientID string) (*int, error) {
	var bundle response_models.AnalysisBundle
	if _, err := s.load(ctx, clientID, SnapshotKeyAnalysis, &bundle); err != nil {
		if errors.Is(err, utils.ErrSnapshotNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return bundle.Discount, nil
}

func (s *SnapshotService) Load(ctx context.Context, clientID string) (response_models.SnapshotResponse, error) {
	resp := response_models.SnapshotResponse{ClientID: clientID}

	var latest time.Time
	var metrics response_models.MetricsBundle
	savedAt, err := s.load(ctx, clientID, SnapshotKeyMetrics, &metrics)
	switch {
	case err == nil:
		resp.Metrics = &metrics
		latest = savedAt
	case !errors.Is(err, utils.ErrSnapshotNotFound):
		return resp, err
	}

	var analysis response_models.AnalysisBundle
	savedAt, err = s.load(ctx, clientID, SnapshotKeyAnalysis, &analysis)
	switch {
	case err == nil:
		resp.Analysis = &analysis
		if savedAt.After(latest) {
			latest = savedAt
		}
	case !errors.Is(err, utils.ErrSnapshotNotFound):
		return resp, err
	}

	if resp.Metrics == nil && resp.Analysis == nil {
		return resp, utils.ErrSnapshotNotFound
	}
	resp.UpdatedAt = &latest
	return resp, nil
}
