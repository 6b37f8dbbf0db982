package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/orza-hq/orza-engine/pkg/apperrors"
)

// GetOrganizationID extracts the organization ID from JWT claims in the
// context. Returns empty string if not authenticated.
func GetOrganizationID(ctx context.Context) string {
	claims, ok := GetClaims(ctx)
	if !ok || claims == nil {
		return ""
	}
	return claims.OrganizationID
}

// RequireOrganizationID extracts and validates the organization ID from the
// context. The ID must be a well-formed UUID.
func RequireOrganizationID(ctx context.Context) (string, error) {
	claims, ok := GetClaims(ctx)
	if !ok || claims == nil {
		return "", apperrors.ErrNotAuthenticated
	}
	if claims.OrganizationID == "" {
		return "", apperrors.ErrMissingOrgID
	}
	if _, err := uuid.Parse(claims.OrganizationID); err != nil {
		return "", apperrors.ErrMissingOrgID
	}
	return claims.OrganizationID, nil
}

// GetUserID extracts the subject from JWT claims in the context.
func GetUserID(ctx context.Context) string {
	claims, ok := GetClaims(ctx)
	if !ok || claims == nil {
		return ""
	}
	return claims.Subject
}
