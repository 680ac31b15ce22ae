package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/gosearchlabs/go-chunk-ranker/config"
	"github.com/gosearchlabs/go-chunk-ranker/internal/analytics"
	"github.com/gosearchlabs/go-chunk-ranker/internal/engine"
	"github.com/gosearchlabs/go-chunk-ranker/model"
	"github.com/gosearchlabs/go-chunk-ranker/services"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *engine.Engine) {
	t.Helper()
	dataDir := t.TempDir()
	eng := engine.NewEngine(dataDir)
	analyticsService := analytics.NewService(eng, dataDir)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupRoutes(router, eng, analyticsService)
	return router, eng
}

func doRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheckHandler(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doRequest(router, "GET", "/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got '%s'", resp["status"])
	}
}

func TestCreateRankerHandler(t *testing.T) {
	router, _ := setupTestRouter(t)

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
	}{
		{
			name: "valid ranker creation",
			requestBody: config.RankerSettings{
				Name:    "products",
				Ranking: config.RankingMin,
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "invalid JSON",
			requestBody:    "invalid json",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "missing ranker name",
			requestBody: config.RankerSettings{
				Ranking: config.RankingMin,
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "unknown ranking policy",
			requestBody: config.RankerSettings{
				Name:    "broken",
				Ranking: "median",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "missing ranking policy",
			requestBody: config.RankerSettings{
				Name: "no-policy",
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, "POST", "/rankers", tt.requestBody)
			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestCreateRankerHandler_Duplicate(t *testing.T) {
	router, _ := setupTestRouter(t)

	settings := config.RankerSettings{Name: "products", Ranking: config.RankingMin}
	if w := doRequest(router, "POST", "/rankers", settings); w.Code != http.StatusCreated {
		t.Fatalf("First creation failed with status %d", w.Code)
	}

	w := doRequest(router, "POST", "/rankers", settings)
	if w.Code != http.StatusConflict {
		t.Errorf("Expected status %d, got %d", http.StatusConflict, w.Code)
	}

	var apiErr APIError
	if err := json.Unmarshal(w.Body.Bytes(), &apiErr); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if apiErr.Code != ErrorCodeRankerExists {
		t.Errorf("Expected error code %s, got %s", ErrorCodeRankerExists, apiErr.Code)
	}
}

func TestListRankersHandler(t *testing.T) {
	router, eng := setupTestRouter(t)

	for _, name := range []string{"products", "articles"} {
		if err := eng.CreateRanker(config.RankerSettings{Name: name, Ranking: config.RankingMax}); err != nil {
			t.Fatalf("CreateRanker(%s) error = %v", name, err)
		}
	}

	w := doRequest(router, "GET", "/rankers", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp struct {
		Rankers []string `json:"rankers"`
		Count   int      `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Count != 2 || len(resp.Rankers) != 2 {
		t.Errorf("Expected 2 rankers, got count=%d rankers=%v", resp.Count, resp.Rankers)
	}
}

func TestGetRankerHandler(t *testing.T) {
	router, eng := setupTestRouter(t)

	if err := eng.CreateRanker(config.RankerSettings{Name: "products", Ranking: config.RankingMeanMin}); err != nil {
		t.Fatalf("CreateRanker() error = %v", err)
	}

	w := doRequest(router, "GET", "/rankers/products", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var settings config.RankerSettings
	if err := json.Unmarshal(w.Body.Bytes(), &settings); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if settings.Name != "products" || settings.Ranking != config.RankingMeanMin {
		t.Errorf("Unexpected settings: %+v", settings)
	}
	if settings.Metric != config.DefaultMetric {
		t.Errorf("Expected defaulted metric %q, got %q", config.DefaultMetric, settings.Metric)
	}

	if w := doRequest(router, "GET", "/rankers/ghost", nil); w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d for unknown ranker, got %d", http.StatusNotFound, w.Code)
	}
}

func TestUpdateSettingsHandler(t *testing.T) {
	router, eng := setupTestRouter(t)

	if err := eng.CreateRanker(config.RankerSettings{Name: "products", Ranking: config.RankingMin}); err != nil {
		t.Fatalf("CreateRanker() error = %v", err)
	}

	update := config.RankerSettings{Ranking: config.RankingMax, TraversalPaths: "@c"}
	w := doRequest(router, "PATCH", "/rankers/products/settings", update)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	settings, err := eng.GetRankerSettings("products")
	if err != nil {
		t.Fatalf("GetRankerSettings() error = %v", err)
	}
	if settings.Ranking != config.RankingMax || settings.TraversalPaths != "@c" {
		t.Errorf("Settings not updated: %+v", settings)
	}

	// Unknown ranker
	if w := doRequest(router, "PATCH", "/rankers/ghost/settings", update); w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, w.Code)
	}

	// Invalid ranking policy
	bad := config.RankerSettings{Ranking: "median"}
	if w := doRequest(router, "PATCH", "/rankers/products/settings", bad); w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestDeleteRankerHandler(t *testing.T) {
	router, eng := setupTestRouter(t)

	if err := eng.CreateRanker(config.RankerSettings{Name: "products", Ranking: config.RankingMin}); err != nil {
		t.Fatalf("CreateRanker() error = %v", err)
	}

	if w := doRequest(router, "DELETE", "/rankers/products", nil); w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
	if w := doRequest(router, "DELETE", "/rankers/products", nil); w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d on second delete, got %d", http.StatusNotFound, w.Code)
	}
}

func newRankTestDocuments() []*model.Document {
	return []*model.Document{
		{
			ID: "doc-1",
			Chunks: []*model.Document{
				{
					ID:          "doc-1-chunk-1",
					ParentID:    "doc-1",
					Granularity: 1,
					Matches: []*model.Document{
						{ID: "m-a1", ParentID: "parent-a", Granularity: 1, Scores: map[string]model.NamedScore{"cosine": {Value: 0.3}}},
						{ID: "m-b1", ParentID: "parent-b", Granularity: 1, Scores: map[string]model.NamedScore{"cosine": {Value: 0.1}}},
					},
				},
				{
					ID:          "doc-1-chunk-2",
					ParentID:    "doc-1",
					Granularity: 1,
					Matches: []*model.Document{
						{ID: "m-a2", ParentID: "parent-a", Granularity: 1, Scores: map[string]model.NamedScore{"cosine": {Value: 0.5}}},
					},
				},
			},
		},
	}
}

func TestRankHandler(t *testing.T) {
	router, eng := setupTestRouter(t)

	if err := eng.CreateRanker(config.RankerSettings{Name: "products", Ranking: config.RankingMin}); err != nil {
		t.Fatalf("CreateRanker() error = %v", err)
	}

	w := doRequest(router, "POST", "/rankers/products/_search", RankRequest{Documents: newRankTestDocuments()})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var result services.RankResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result.QueryId == "" {
		t.Error("Expected a non-empty query_id")
	}
	if len(result.Documents) != 1 {
		t.Fatalf("Expected 1 document, got %d", len(result.Documents))
	}

	matches := result.Documents[0].Matches
	if len(matches) != 2 {
		t.Fatalf("Expected 2 aggregated matches, got %d", len(matches))
	}
	if matches[0].ID != "parent-b" || matches[1].ID != "parent-a" {
		t.Errorf("Match order = [%s %s], want [parent-b parent-a]", matches[0].ID, matches[1].ID)
	}
	if matches[0].Scores["cosine"].Value != 0.1 || matches[1].Scores["cosine"].Value != 0.3 {
		t.Errorf("Match scores = [%v %v], want [0.1 0.3]",
			matches[0].Scores["cosine"].Value, matches[1].Scores["cosine"].Value)
	}
	for i, match := range matches {
		if match.Granularity != 0 || match.ParentID != "" {
			t.Errorf("Match %d not promoted to root level: %+v", i, match)
		}
	}
}

func TestRankHandler_Errors(t *testing.T) {
	router, eng := setupTestRouter(t)

	if err := eng.CreateRanker(config.RankerSettings{Name: "products", Ranking: config.RankingMin}); err != nil {
		t.Fatalf("CreateRanker() error = %v", err)
	}

	// Unknown ranker
	if w := doRequest(router, "POST", "/rankers/ghost/_search", RankRequest{Documents: newRankTestDocuments()}); w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, w.Code)
	}

	// Invalid JSON
	if w := doRequest(router, "POST", "/rankers/products/_search", "invalid json"); w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}

	// Document without an ID
	badDocs := RankRequest{Documents: []*model.Document{{ID: " "}}}
	if w := doRequest(router, "POST", "/rankers/products/_search", badDocs); w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}

	// Invalid traversal override
	badPaths := RankRequest{
		Documents:  newRankTestDocuments(),
		Parameters: services.RankParameters{TraversalPaths: "@x"},
	}
	if w := doRequest(router, "POST", "/rankers/products/_search", badPaths); w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestRankHandler_MissingScore(t *testing.T) {
	router, eng := setupTestRouter(t)

	if err := eng.CreateRanker(config.RankerSettings{Name: "products", Ranking: config.RankingMin}); err != nil {
		t.Fatalf("CreateRanker() error = %v", err)
	}

	docs := newRankTestDocuments()
	docs[0].Chunks[0].Matches = append(docs[0].Chunks[0].Matches, &model.Document{
		ID:          "m-broken",
		ParentID:    "parent-c",
		Granularity: 1,
		Scores:      map[string]model.NamedScore{"euclidean": {Value: 0.2}},
	})

	w := doRequest(router, "POST", "/rankers/products/_search", RankRequest{Documents: docs})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusUnprocessableEntity, w.Code, w.Body.String())
	}

	var apiErr APIError
	if err := json.Unmarshal(w.Body.Bytes(), &apiErr); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if apiErr.Code != ErrorCodeMissingScore {
		t.Errorf("Expected error code %s, got %s", ErrorCodeMissingScore, apiErr.Code)
	}
}

func TestGetAnalyticsHandler(t *testing.T) {
	router, eng := setupTestRouter(t)

	if err := eng.CreateRanker(config.RankerSettings{Name: "products", Ranking: config.RankingMin}); err != nil {
		t.Fatalf("CreateRanker() error = %v", err)
	}

	w := doRequest(router, "GET", "/analytics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var dashboard model.AnalyticsDashboard
	if err := json.Unmarshal(w.Body.Bytes(), &dashboard); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if dashboard.ActiveRankers != 1 {
		t.Errorf("Expected 1 active ranker, got %d", dashboard.ActiveRankers)
	}
}
