package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"scdaid/ml"
	"scdaid/predictor"
)

const bannerMessage = "SCDAid API is running"

// PatientRequest is the JSON body of POST /predict_phenotype. Pointers make
// "required" mean present, so zero values and empty strings are accepted.
type PatientRequest struct {
	Age                   *float64 `json:"age" binding:"required"`
	Weight                *float64 `json:"weight" binding:"required"`
	EGFR                  *float64 `json:"egfr" binding:"required"`
	Sex                   *string  `json:"sex" binding:"required"`
	CYP2D6Inhibitor       *string  `json:"cyp2d6_inhibitor" binding:"required"`
	PriorCodeineResponse  *string  `json:"prior_codeine_response" binding:"required"`
	PriorTramadolResponse *string  `json:"prior_tramadol_response" binding:"required"`
}

func (r PatientRequest) Input() predictor.PatientInput {
	return predictor.PatientInput{
		Age:                   *r.Age,
		Weight:                *r.Weight,
		EGFR:                  *r.EGFR,
		Sex:                   *r.Sex,
		CYP2D6Inhibitor:       *r.CYP2D6Inhibitor,
		PriorCodeineResponse:  *r.PriorCodeineResponse,
		PriorTramadolResponse: *r.PriorTramadolResponse,
	}
}

// Handler holds the read-only dependencies of the API handlers
type Handler struct {
	predictor *predictor.Predictor
	logger    *zap.Logger
	metrics   *Metrics
}

func NewHandler(p *predictor.Predictor, logger *zap.Logger, metrics *Metrics) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &Handler{predictor: p, logger: logger, metrics: metrics}
}

// RegisterHandlers registers the API routes
func RegisterHandlers(r gin.IRoutes, h *Handler) {
	r.GET("/", h.handleRoot)
	r.GET("/health", h.handleHealth)
	r.POST("/predict_phenotype", h.handlePredict)
	r.GET("/metrics", gin.WrapH(h.metrics.Handler()))
}

func (h *Handler) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": bannerMessage})
}

func (h *Handler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) handlePredict(c *gin.Context) {
	var req PatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.observeError("invalid_request")
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "invalid request",
			"details": err.Error(),
		})
		return
	}

	start := time.Now()
	prediction, err := h.predictor.Predict(req.Input())
	elapsed := time.Since(start)
	requestID := GetRequestID(c.Request.Context())

	switch {
	case errors.Is(err, ml.ErrClassesNotFound):
		h.metrics.observeError("classes_not_found")
		h.logger.Error("model artifact exposes no class list",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Model classes not found"})
		return
	case err != nil:
		h.metrics.observeError("inference")
		h.logger.Error("prediction failed",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.metrics.observePrediction(prediction.Predicted, prediction.Confidence.String(), elapsed.Seconds())
	h.logger.Debug("prediction",
		zap.String("request_id", requestID),
		zap.String("predicted", prediction.Predicted),
		zap.String("confidence", prediction.Confidence.String()),
		zap.String("artifact_shape", string(prediction.Shape)),
	)
	c.JSON(http.StatusOK, prediction)
}
