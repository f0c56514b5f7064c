package httpadapter

import (
	"net/http"

	"github.com/legitima/aiact-agent/internal/core/domain"
	"github.com/legitima/aiact-agent/internal/infrastructure/resilience"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrUnparsableOutput):
		return http.StatusBadGateway
	case domain.IsKind(err, domain.ErrServiceUnavailable),
		domain.IsKind(err, domain.ErrTemporary),
		resilience.IsCircuitOpen(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
