package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

// Claims that may carry the participant identifier, in lookup order.
const (
	jwtClaimSubject = "sub"
	jwtClaimUserID  = "user_id"
)

var ErrNoParticipant = errors.New("participant claims not found in context")

func participantIDFromClaims(claims jwt.MapClaims) (string, error) {
	for _, name := range []string{jwtClaimSubject, jwtClaimUserID} {
		raw, ok := claims[name]
		if !ok {
			continue
		}
		switch v := raw.(type) {
		case string:
			if id := strings.TrimSpace(v); id != "" {
				return id, nil
			}
		case float64:
			if v == float64(int64(v)) {
				return fmt.Sprintf("%d", int64(v)), nil
			}
			return "", fmt.Errorf("'%s' claim is not an integer: %f", name, v)
		default:
			return "", fmt.Errorf("invalid type for '%s' claim: %T", name, raw)
		}
	}
	return "", fmt.Errorf("missing '%s' or '%s' claim in token", jwtClaimSubject, jwtClaimUserID)
}

// GetParticipantIDFromContext returns the opaque caller identifier put there
// by Authenticate.
func GetParticipantIDFromContext(ctx context.Context) (string, error) {
	claims, ok := ctx.Value(participantContextKey).(jwt.MapClaims)
	if !ok {
		return "", ErrNoParticipant
	}
	return participantIDFromClaims(claims)
}

// WithParticipantID stores an already verified identifier, for callers that
// authenticate by other means.
func WithParticipantID(ctx context.Context, participantID string) context.Context {
	return context.WithValue(ctx, participantContextKey, jwt.MapClaims{jwtClaimSubject: participantID})
}
