package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{
			name: "validation error",
			err:  Validation("email is required"),
			want: KindValidation,
		},
		{
			name: "wrapped conflict error",
			err:  fmt.Errorf("set ban: %w", Conflict("active ban exists")),
			want: KindConflict,
		},
		{
			name: "internal error keeps kind through wrapping",
			err:  fmt.Errorf("login: %w", Internal("cache unavailable", errors.New("dial tcp"))),
			want: KindInternal,
		},
		{
			name: "foreign error",
			err:  errors.New("something else"),
			want: KindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestAuthenticationReasons(t *testing.T) {
	expired := Authentication(ReasonExpired, "token has expired")
	invalid := Authentication(ReasonInvalid, "invalid credentials")

	assert.Equal(t, ReasonExpired, ReasonOf(expired))
	assert.Equal(t, ReasonInvalid, ReasonOf(fmt.Errorf("refresh: %w", invalid)))

	// errors.Is with a reasonless target matches any authentication error.
	assert.True(t, errors.Is(expired, &Error{Kind: KindAuthentication}))
	assert.True(t, errors.Is(invalid, &Error{Kind: KindAuthentication}))

	// A reasonful target only matches the same subtype.
	assert.True(t, errors.Is(expired, &Error{Kind: KindAuthentication, Reason: ReasonExpired}))
	assert.False(t, errors.Is(invalid, &Error{Kind: KindAuthentication, Reason: ReasonExpired}))
}

func TestInternalHidesCause(t *testing.T) {
	cause := errors.New("pq: connection refused")
	err := Internal("failed to persist ban", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindInternal, KindOf(err))
}
