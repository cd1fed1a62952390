package api

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
)

// LambdaFunc is the signature lambda.Start expects for Function URL events.
type LambdaFunc func(ctx context.Context, req events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error)

// LambdaHandler adapts h to Lambda Function URL events. Every outcome is
// expressed as a response, so the returned error is always nil.
func LambdaHandler(h *Handler) LambdaFunc {
	return func(ctx context.Context, req events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
		requestID := req.RequestContext.RequestID
		if lc, ok := lambdacontext.FromContext(ctx); ok && requestID == "" {
			requestID = lc.AwsRequestID
		}

		q := req.QueryStringParameters
		resp := h.Handle(ctx, q[ParamGameName], q[ParamTagLine], requestID)

		return events.LambdaFunctionURLResponse{
			StatusCode:      resp.StatusCode,
			Headers:         resp.Headers,
			Body:            resp.Body,
			IsBase64Encoded: resp.IsBase64Encoded,
		}, nil
	}
}
