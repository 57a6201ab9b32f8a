package api

import (
	"fmt"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"roi-simulator/internal/errors"
	"roi-simulator/internal/logging"
	"roi-simulator/internal/models"
	"roi-simulator/internal/pricing"
	"roi-simulator/internal/scenario"
)

type projectionRequest struct {
	Market    models.MarketConfig     `json:"market"`
	Contracts []models.OptionContract `json:"contracts"`
}

type priceRequest struct {
	Spot          float64 `json:"spot"`
	Strike        float64 `json:"strike"`
	YearsToExpiry float64 `json:"years_to_expiry"`
	RiskFreeRate  float64 `json:"risk_free_rate"`
	Volatility    float64 `json:"volatility"`
}

type priceResponse struct {
	Price     float64 `json:"price"`
	Intrinsic float64 `json:"intrinsic"`
	TimeValue float64 `json:"time_value"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) policy(c *gin.Context) {
	ok(c, s.projector.Policy(), nil)
}

func (s *Server) project(c *gin.Context) {
	var req projectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		fail(c, http.StatusBadRequest, "invalid request body", map[string]any{"error": err.Error()})
		return
	}

	if err := scenario.ValidateInput(req.Market, req.Contracts); err != nil {
		_ = c.Error(err)
		validationFailed(c, err)
		return
	}

	result := s.projector.Project(req.Market, req.Contracts)
	logging.LogProjection(logging.FromContext(c.Request.Context()), req.Market, len(req.Contracts), len(result.Table), result.VolatilityCrush)

	ok(c, result, map[string]any{
		"offsets":   len(result.Table),
		"contracts": len(req.Contracts),
	})
}

func (s *Server) price(c *gin.Context) {
	var req priceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		fail(c, http.StatusBadRequest, "invalid request body", map[string]any{"error": err.Error()})
		return
	}

	if err := validatePriceRequest(req); err != nil {
		_ = c.Error(err)
		validationFailed(c, err)
		return
	}

	price := pricing.CallPrice(req.Spot, req.Strike, req.YearsToExpiry, req.RiskFreeRate, req.Volatility)
	if math.IsNaN(price) || math.IsInf(price, 0) {
		fail(c, http.StatusUnprocessableEntity, "price is not finite for these inputs", map[string]any{"price": fmt.Sprint(price)})
		return
	}

	intrinsic := pricing.Intrinsic(req.Spot, req.Strike)
	ok(c, priceResponse{
		Price:     price,
		Intrinsic: intrinsic,
		TimeValue: price - intrinsic,
	}, nil)
}

func validatePriceRequest(req priceRequest) error {
	switch {
	case !(req.Spot > 0):
		return errors.NewValidationError("spot", req.Spot, "must be positive")
	case !(req.Strike > 0):
		return errors.NewValidationError("strike", req.Strike, "must be positive")
	case req.YearsToExpiry < 0:
		return errors.NewValidationError("years_to_expiry", req.YearsToExpiry, "must not be negative")
	case !(req.Volatility > 0):
		return errors.NewValidationError("volatility", req.Volatility, "must be positive")
	}
	return nil
}

func validationFailed(c *gin.Context, err error) {
	meta := map[string]any{"error": err.Error()}
	var ve *errors.ValidationError
	if errors.As(err, &ve) {
		meta["field"] = ve.Field
	}
	fail(c, http.StatusBadRequest, "validation failed", meta)
}
