// Package api exposes the card pipeline over HTTP, both as a Lambda
// Function URL handler and as a local net/http server.
package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hunterjsb/leaguecard/internal/card"
	"github.com/hunterjsb/leaguecard/internal/metrics"
	"github.com/hunterjsb/leaguecard/internal/riot"
)

// Client-facing validation messages.
const (
	MsgMissingGameName = "Missing summoner name"
	MsgMissingTagLine  = "Missing tag line"
)

// Query parameter names.
const (
	ParamGameName = "gameName"
	ParamTagLine  = "tagLine"
)

// HeaderRequestID carries the request id on every response.
const HeaderRequestID = "X-Request-Id"

// CardCreator runs the card pipeline.
type CardCreator interface {
	Create(ctx context.Context, gameName, tagLine string) (*card.Card, error)
}

// Response is a transport-neutral HTTP response. When IsBase64Encoded is
// set, Body holds base64 of the binary payload.
type Response struct {
	StatusCode      int
	Headers         map[string]string
	Body            string
	IsBase64Encoded bool
}

// Handler maps card requests to responses.
type Handler struct {
	cards   CardCreator
	metrics *metrics.Collectors
	logger  *zap.Logger
}

// NewHandler creates a Handler. m and logger may be nil.
func NewHandler(cards CardCreator, m *metrics.Collectors, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{cards: cards, metrics: m, logger: logger}
}

// Handle validates the parameters, runs the pipeline and maps the outcome:
//   - missing gameName or tagLine: 400 with a JSON error, before any upstream call
//   - Riot API error: Riot's status code with Riot's message as the body
//   - anything else: 500 with a JSON error
//   - success: 200 with the base64 JPEG
//
// An empty requestID is replaced with a fresh UUID.
func (h *Handler) Handle(ctx context.Context, gameName, tagLine, requestID string) Response {
	if requestID == "" {
		requestID = uuid.NewString()
	}
	log := h.logger.With(
		zap.String("request_id", requestID),
		zap.String("game_name", gameName),
		zap.String("tag_line", tagLine),
	)

	if gameName == "" {
		h.metrics.Card(metrics.ResultBadRequest)
		return jsonError(http.StatusBadRequest, MsgMissingGameName, requestID)
	}
	if tagLine == "" {
		h.metrics.Card(metrics.ResultBadRequest)
		return jsonError(http.StatusBadRequest, MsgMissingTagLine, requestID)
	}

	start := time.Now()
	c, err := h.cards.Create(ctx, gameName, tagLine)
	if err != nil {
		var apiErr *riot.APIError
		if errors.As(err, &apiErr) {
			log.Warn("riot api error",
				zap.Int("status", apiErr.StatusCode),
				zap.String("op", apiErr.Op),
				zap.String("message", apiErr.Message),
			)
			h.metrics.Card(metrics.ResultUpstreamError)
			return Response{
				StatusCode: apiErr.StatusCode,
				Headers: map[string]string{
					"Content-Type":  "text/plain; charset=utf-8",
					HeaderRequestID: requestID,
				},
				Body: apiErr.Message,
			}
		}

		log.Error("card creation failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		h.metrics.Card(metrics.ResultInternalError)
		return jsonError(http.StatusInternalServerError, err.Error(), requestID)
	}

	log.Info("card served", zap.Int("bytes", len(c.Image)), zap.Duration("duration", time.Since(start)))
	h.metrics.Card(metrics.ResultOK)
	return Response{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Content-Type":  "image/jpeg",
			HeaderRequestID: requestID,
		},
		Body:            base64.StdEncoding.EncodeToString(c.Image),
		IsBase64Encoded: true,
	}
}

func jsonError(status int, msg, requestID string) Response {
	body, _ := json.Marshal(map[string]string{"error": msg})
	return Response{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":  "application/json",
			HeaderRequestID: requestID,
		},
		Body: string(body),
	}
}
