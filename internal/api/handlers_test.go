package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"evdeger/server/internal/database"
	"evdeger/server/internal/models"
	"evdeger/server/internal/queue"
	"evdeger/server/internal/valuation"
)

type stubAI struct {
	estimate *models.AIEstimate
	err      error
}

func (a *stubAI) EstimatePrice(_ context.Context, _ models.ValuationRequest, _ []models.Listing) (*models.AIEstimate, error) {
	return a.estimate, a.err
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func setupTestRouter(t *testing.T, ai valuation.AIEstimator) (*gin.Engine, *database.Database, *queue.ListingQueue) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewDatabase(":memory:")
	assert.NoError(t, err)
	assert.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	logger := testLogger()
	ingestQueue := queue.NewListingQueue(2, logger)
	engine := valuation.NewEngine(db, ai, nil, logger)
	handler := NewHandler(db, engine, ingestQueue, logger)

	router := gin.New()
	SetupRoutes(router, handler)
	return router, db, ingestQueue
}

func seedListing(t *testing.T, db *database.Database, district, neighborhood string, netSqm, price float64) {
	t.Helper()
	_, err := db.GetDB().Exec(`
		INSERT INTO listings (province, district, neighborhood, property_type,
			net_sqm, room_count, building_age, floor_location, price)
		VALUES ('İstanbul', ?, ?, 'Daire', ?, '3+1', '5-10', '3. Kat', ?)
	`, district, neighborhood, netSqm, price)
	assert.NoError(t, err)
}

func performJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestEstimateEndpoint_Success(t *testing.T) {
	ai := &stubAI{
		estimate: &models.AIEstimate{
			EstimatedPrice:  6000000,
			PriceRange:      models.PriceRange{Min: 5500000, Max: 6500000},
			ConfidenceLevel: 80,
			Explanation:     "Emsal ilanlara göre.",
		},
	}
	router, db, _ := setupTestRouter(t, ai)
	seedListing(t, db, "Kadıköy", "Moda", 100, 5000000)

	w := performJSON(router, http.MethodPost, "/api/estimate", models.ValuationRequest{
		Province:     "İstanbul",
		District:     "Kadıköy",
		Neighborhood: "Moda",
		PropertyType: "Daire",
		NetSqm:       100,
		RoomCount:    "3+1",
		BuildingAge:  "5-10",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var result models.ValuationResult
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 6000000.0, result.AIEstimate)
	assert.Greater(t, result.EstimatedPrice, 0.0)
	assert.LessOrEqual(t, result.PriceRange.Min, result.EstimatedPrice)
	assert.GreaterOrEqual(t, result.PriceRange.Max, result.EstimatedPrice)
	assert.Len(t, result.SimilarProperties, 1)
}

func TestEstimateEndpoint_NoComparables(t *testing.T) {
	router, db, _ := setupTestRouter(t, &stubAI{})
	seedListing(t, db, "Kadıköy", "Moda", 100, 5000000)

	w := performJSON(router, http.MethodPost, "/api/estimate", models.ValuationRequest{
		District: "Beşiktaş",
		NetSqm:   100,
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Benzer özellikte emlak bulunamadı")
}

func TestEstimateEndpoint_InvalidRequest(t *testing.T) {
	router, _, _ := setupTestRouter(t, &stubAI{})

	// Missing district and area fail validation.
	w := performJSON(router, http.MethodPost, "/api/estimate", map[string]any{
		"province": "İstanbul",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIngestEndpoint(t *testing.T) {
	router, _, ingestQueue := setupTestRouter(t, &stubAI{})

	batch := []*models.Listing{
		{ID: 1, District: "Kadıköy", Neighborhood: "Moda", NetSqm: 100, Price: 5000000},
	}

	w := performJSON(router, http.MethodPost, "/api/listings", batch)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, 1, ingestQueue.Len())
}

func TestIngestEndpoint_EmptyBatch(t *testing.T) {
	router, _, _ := setupTestRouter(t, &stubAI{})

	w := performJSON(router, http.MethodPost, "/api/listings", []*models.Listing{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIngestEndpoint_QueueFull(t *testing.T) {
	router, _, ingestQueue := setupTestRouter(t, &stubAI{})

	batch := []*models.Listing{{ID: 1, District: "Kadıköy", Price: 1}}
	// Queue capacity is 2 in the test setup; the processor is not running.
	assert.NoError(t, ingestQueue.Push(batch))
	assert.NoError(t, ingestQueue.Push(batch))

	w := performJSON(router, http.MethodPost, "/api/listings", batch)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestInvestmentAnalysisEndpoint(t *testing.T) {
	router, _, _ := setupTestRouter(t, &stubAI{})

	req := httptest.NewRequest(http.MethodGet, "/api/investment-analysis?price=5000000", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var analysis valuation.InvestmentAnalysis
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &analysis))
	assert.Len(t, analysis.LoanScenarios, 3)
	assert.Equal(t, 25000.0, analysis.Rental.MonthlyRental)
}

func TestInvestmentAnalysisEndpoint_MissingPrice(t *testing.T) {
	router, _, _ := setupTestRouter(t, &stubAI{})

	req := httptest.NewRequest(http.MethodGet, "/api/investment-analysis", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLookupEndpoints(t *testing.T) {
	router, db, _ := setupTestRouter(t, &stubAI{})
	seedListing(t, db, "Kadıköy", "Moda", 100, 5000000)
	seedListing(t, db, "Kadıköy", "Fenerbahçe", 90, 4000000)
	seedListing(t, db, "Beşiktaş", "Etiler", 120, 9000000)

	req := httptest.NewRequest(http.MethodGet, "/api/districts", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var districts []string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &districts))
	assert.Equal(t, []string{"Beşiktaş", "Kadıköy"}, districts)

	req = httptest.NewRequest(http.MethodGet, "/api/neighborhoods/Kadıköy", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var neighborhoods []string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &neighborhoods))
	assert.Equal(t, []string{"Fenerbahçe", "Moda"}, neighborhoods)
}
