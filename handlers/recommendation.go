package handlers

import (
	"errors"
	"net/http"

	"github.com/ujblackjack-cmd/it-da/models"
	"github.com/ujblackjack-cmd/it-da/services/ml"
	"github.com/ujblackjack-cmd/it-da/services/recommend"
	"github.com/ujblackjack-cmd/it-da/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecommendationHandler exposes the recommendation pipeline over HTTP.
type RecommendationHandler struct {
	Service  recommend.RecommendationService
	ModelSet *ml.ModelSet
}

func NewRecommendationHandler(service recommend.RecommendationService, modelSet *ml.ModelSet) *RecommendationHandler {
	return &RecommendationHandler{Service: service, ModelSet: modelSet}
}

// Search handles POST /api/ai/recommendations/search.
func (h *RecommendationHandler) Search(c *gin.Context) {
	var req models.RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	resp, err := h.Service.Recommend(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ml.ErrModelUnavailable) {
			utils.JSONError(c, http.StatusServiceUnavailable, "ranking model unavailable", err.Error())
			return
		}
		utils.GetLogger().Error("recommendation failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "recommendation failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Satisfaction handles POST /api/ai/recommendations/satisfaction.
func (h *RecommendationHandler) Satisfaction(c *gin.Context) {
	var req models.SatisfactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	resp, err := h.Service.PredictSatisfaction(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ml.ErrModelUnavailable) {
			utils.JSONError(c, http.StatusServiceUnavailable, "ranking model unavailable", err.Error())
			return
		}
		utils.GetLogger().Error("satisfaction prediction failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "satisfaction prediction failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Fallback handles POST /api/ai/recommendations/fallback.
func (h *RecommendationHandler) Fallback(c *gin.Context) {
	var req models.FallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	resp, err := h.Service.Fallback(c.Request.Context(), req)
	if err != nil {
		utils.GetLogger().Error("fallback recommendation failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "fallback recommendation failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Health handles GET /healthz.
func (h *RecommendationHandler) Health(c *gin.Context) {
	status := h.ModelSet.Status()
	code := http.StatusOK
	if !status.Ready {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status": "ok",
		"models": status,
	})
}
