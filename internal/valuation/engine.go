package valuation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"evdeger/server/internal/models"
)

// ErrNoComparables signals that the filtered corpus holds no candidate
// listings for the request. Callers surface it as a not-found outcome, not a
// server error.
var ErrNoComparables = errors.New("no comparable listings found")

// comparableLimit caps the candidate set per request.
const comparableLimit = 10

// aiComparableCount is how many top candidates accompany the AI prompt.
const aiComparableCount = 3

// ComparableFilter selects and orders candidate listings. Every non-empty
// field filters by exact equality; the tokens feed the coarse proximity
// ordering.
type ComparableFilter struct {
	Province     string
	PropertyType string
	District     string
	Neighborhood string
	NetSqm       float64
	RoomToken    string
	AgeToken     string
	Limit        int
}

// RegionFilter scopes the regional aggregates.
type RegionFilter struct {
	District     string
	Neighborhood string
	PropertyType string
}

// ListingStore is the read-only query surface the engine needs from the
// listing corpus.
type ListingStore interface {
	GetComparables(ctx context.Context, filter ComparableFilter) ([]models.Listing, error)
	GetRegionAvgUnitPrice(ctx context.Context, filter RegionFilter) (float64, error)
	GetMarketTrend(ctx context.Context, filter RegionFilter) (MarketTrend, error)
	CountRegionListings(ctx context.Context, district, neighborhood string) (int, error)
}

// AIEstimator produces an external price estimate for the target given its
// most similar comparables. Implementations must fail with an error rather
// than return partial results.
type AIEstimator interface {
	EstimatePrice(ctx context.Context, req models.ValuationRequest, comparables []models.Listing) (*models.AIEstimate, error)
}

// Engine runs the valuation pipeline: normalize, retrieve, score, estimate,
// fuse. Stateless across requests; safe for concurrent use.
type Engine struct {
	store   ListingStore
	ai      AIEstimator
	scorer  *Scorer
	weights *Weights
	logger  *logrus.Logger
	now     func() time.Time
}

// NewEngine wires an engine from its collaborators. A nil weights parameter
// selects the default tuning.
func NewEngine(store ListingStore, ai AIEstimator, weights *Weights, logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	if weights == nil {
		weights = DefaultWeights()
	}
	return &Engine{
		store:   store,
		ai:      ai,
		scorer:  NewScorer(weights),
		weights: weights,
		logger:  logger,
		now:     time.Now,
	}
}

// Estimate values the requested property. Store failures propagate;
// ErrNoComparables marks an empty candidate set; an AI failure degrades to
// the statistical fallback and the request still succeeds.
func (e *Engine) Estimate(ctx context.Context, req models.ValuationRequest) (*models.ValuationResult, error) {
	target := NewTargetProfile(req)

	region := RegionFilter{
		District:     req.District,
		Neighborhood: req.Neighborhood,
		PropertyType: req.PropertyType,
	}

	// The four store reads are independent; issue them concurrently.
	var (
		comparables []models.Listing
		stats       RegionStats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		comparables, err = e.store.GetComparables(gctx, ComparableFilter{
			Province:     req.Province,
			PropertyType: req.PropertyType,
			District:     req.District,
			Neighborhood: req.Neighborhood,
			NetSqm:       req.NetSqm,
			RoomToken:    fmt.Sprintf("%d", target.Rooms),
			AgeToken:     fmt.Sprintf("%d", target.Age),
			Limit:        comparableLimit,
		})
		return err
	})
	g.Go(func() error {
		var err error
		stats.AvgUnitPrice, err = e.store.GetRegionAvgUnitPrice(gctx, region)
		return err
	})
	g.Go(func() error {
		var err error
		stats.Trend, err = e.store.GetMarketTrend(gctx, region)
		return err
	})
	g.Go(func() error {
		var err error
		stats.ListingCount, err = e.store.CountRegionListings(gctx, req.District, req.Neighborhood)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("listing store query failed: %w", err)
	}

	if len(comparables) == 0 {
		return nil, ErrNoComparables
	}

	now := e.now()
	scores := make([]CandidateScore, len(comparables))
	for i, listing := range comparables {
		scores[i] = e.scorer.Score(req, target, listing, stats.AvgUnitPrice, now)
	}

	// Kick off the AI call against the most similar comparables while the
	// statistical aggregation runs; fusion waits on both.
	aiDone := make(chan aiOutcome, 1)
	go func() {
		estimate, err := e.ai.EstimatePrice(ctx, req, topComparables(scores, aiComparableCount))
		aiDone <- aiOutcome{estimate: estimate, err: err}
	}()

	stat := ComputeStatisticalEstimate(scores, stats, req.NetSqm, e.weights)

	outcome := <-aiDone
	aiEstimate := FallbackEstimate(stat)
	if outcome.err != nil {
		e.logger.WithError(outcome.err).Warn("AI estimator unavailable, using statistical fallback")
	} else {
		aiEstimate = *outcome.estimate
	}

	finalPrice, finalConfidence, finalRange := Fuse(stat, aiEstimate, e.weights)

	return &models.ValuationResult{
		EstimatedPrice:      finalPrice,
		TraditionalEstimate: stat.Estimate,
		AIEstimate:          aiEstimate.EstimatedPrice,
		ConfidenceLevel:     finalConfidence,
		PriceRange:          finalRange,
		AIExplanation:       aiEstimate.Explanation,
		SimilarProperties:   comparables,
		PropertyDetails:     req,
	}, nil
}

type aiOutcome struct {
	estimate *models.AIEstimate
	err      error
}

// topComparables returns the n most similar listings, best first.
func topComparables(scores []CandidateScore, n int) []models.Listing {
	sorted := make([]CandidateScore, len(scores))
	copy(sorted, scores)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Similarity > sorted[j].Similarity
	})

	if n > len(sorted) {
		n = len(sorted)
	}
	top := make([]models.Listing, n)
	for i := 0; i < n; i++ {
		top[i] = sorted[i].Listing
	}
	return top
}
