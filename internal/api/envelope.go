package api

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/NickNterm/recipeapp-server/internal/http/response"
)

// EnvelopeVersion is the version of the response envelope schema, shared
// with the plain-HTTP response helpers so both surfaces emit the same "v".
const EnvelopeVersion = response.EnvelopeVersion

// APIEnvelope wraps successful responses and plain errors.
type APIEnvelope struct {
	Version int    `json:"v" doc:"Envelope schema version"`
	Success bool   `json:"success" doc:"Whether the request succeeded"`
	Data    any    `json:"data,omitempty" doc:"Response payload"`
	Error   string `json:"error,omitempty" doc:"Error message when success is false"`
}

// APIErrorEnvelope wraps errors that carry a machine-readable code.
type APIErrorEnvelope struct {
	Version int    `json:"v" doc:"Envelope schema version"`
	Success bool   `json:"success" doc:"Always false"`
	Code    string `json:"code" doc:"Machine-readable error code"`
	Message string `json:"message" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// EnvelopeTransformer wraps every response body in the versioned envelope.
// Success statuses carry the payload under "data". Errors become either the
// code/message/details form (for APIError values with a code) or the plain
// "error" form for everything else.
//
// Registered via huma config Transformers; must not touch ctx, which is nil
// in unit tests.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	if len(status) > 0 && status[0] == '2' {
		return APIEnvelope{
			Version: EnvelopeVersion,
			Success: true,
			Data:    v,
		}, nil
	}

	if apiErr, ok := v.(*APIError); ok {
		if apiErr.Code != "" {
			return APIErrorEnvelope{
				Version: EnvelopeVersion,
				Success: false,
				Code:    apiErr.Code,
				Message: apiErr.Message,
				Details: apiErr.Details,
			}, nil
		}
		return APIEnvelope{
			Version: EnvelopeVersion,
			Success: false,
			Error:   apiErr.Message,
		}, nil
	}

	if err, ok := v.(error); ok {
		return APIEnvelope{
			Version: EnvelopeVersion,
			Success: false,
			Error:   err.Error(),
		}, nil
	}

	// Non-error payload on an error status; pass it through under data so
	// nothing is silently dropped.
	return APIEnvelope{
		Version: EnvelopeVersion,
		Success: false,
		Data:    v,
	}, nil
}
