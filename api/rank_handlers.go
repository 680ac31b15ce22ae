package api

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	internalErrors "github.com/gosearchlabs/go-chunk-ranker/internal/errors"
	"github.com/gosearchlabs/go-chunk-ranker/internal/traversal"
	"github.com/gosearchlabs/go-chunk-ranker/model"
	"github.com/gosearchlabs/go-chunk-ranker/services"
)

// RankRequest defines the structure for rank queries: a batch of document
// trees plus optional per-call parameter overrides.
type RankRequest struct {
	Documents  []*model.Document       `json:"documents"`
	Parameters services.RankParameters `json:"parameters,omitempty"`
}

// RankHandler handles rank requests against a ranker pipeline.
// Request Body: RankRequest
func (api *API) RankHandler(c *gin.Context) {
	startTime := time.Now()
	rankerName := c.Param("rankerName")

	if result := ValidateRankerName(rankerName); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	ranker, err := api.engine.GetRanker(rankerName)
	if err != nil {
		SendRankerNotFoundError(c, rankerName)
		return
	}

	var req RankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if result := ValidateDocuments(req.Documents); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if err := ranker.Rank(req.Documents, req.Parameters); err != nil {
		switch {
		case errors.Is(err, internalErrors.ErrMissingScore):
			SendMissingScoreError(c, err)
		case errors.Is(err, internalErrors.ErrInvalidConfiguration):
			SendInvalidConfigurationError(c, err)
		default:
			SendRankError(c, rankerName, err)
		}
		return
	}

	settings := ranker.Settings()
	paths := settings.TraversalPaths
	if req.Parameters.TraversalPaths != "" {
		paths = req.Parameters.TraversalPaths
	}

	// Count targets and produced matches for analytics. The paths were
	// already accepted by Rank, so selection cannot fail here.
	documentCount, matchCount := 0, 0
	if targets, err := traversal.Select(req.Documents, paths); err == nil {
		documentCount = len(targets)
		for _, target := range targets {
			matchCount += len(target.Matches)
		}
	}

	event := model.RankEvent{
		RankerName:     rankerName,
		Ranking:        settings.Ranking,
		TraversalPaths: paths,
		DocumentCount:  documentCount,
		MatchCount:     matchCount,
		ResponseTime:   time.Since(startTime),
	}

	// Track the event asynchronously to avoid slowing down the response
	go func() {
		if err := api.analytics.TrackRankEvent(event); err != nil {
			log.Printf("Warning: Failed to track rank event: %v", err)
		}
	}()

	c.JSON(http.StatusOK, services.RankResult{
		Documents: req.Documents,
		Took:      time.Since(startTime).Milliseconds(),
		QueryId:   uuid.New().String(),
	})
}
