package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ExitError
		want string
	}{
		{
			name: "with underlying error",
			err:  NewExitError(ErrNotFound, ExitUser),
			want: "content config not found",
		},
		{
			name: "with wrapped error",
			err:  NewExitError(fmt.Errorf("loading: %w", ErrSchemaParse), ExitUser),
			want: "loading: invalid content config",
		},
		{
			name: "nil underlying error",
			err:  NewExitError(nil, ExitSystem),
			want: "exit code 2",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestExitError_Unwrap(t *testing.T) {
	err := NewUserError(Wrap(ErrSchemaValidation, "checking blog/post.md"), "fix the entry")

	assert.True(t, Is(err, ErrSchemaValidation))
	assert.False(t, Is(err, ErrNotFound))

	var exitErr *ExitError
	require.True(t, As(fmt.Errorf("command: %w", err), &exitErr))
	assert.Equal(t, ExitUser, exitErr.Code)
	assert.Equal(t, "fix the entry", exitErr.Suggestion)
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, ExitSystem, NewSystemError(New("disk"), "check permissions").Code)
	assert.Equal(t, ExitUser, NewConfigError(ErrInvalidConfig).Code)
	assert.NotEmpty(t, NewConfigError(ErrInvalidConfig).Suggestion)
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, "nothing"))
	assert.NoError(t, Wrapf(nil, "nothing %d", 1))
}

func TestHints(t *testing.T) {
	err := WithHint(ErrNotFound, "create content.config.lua")
	assert.True(t, Is(err, ErrNotFound))
	assert.Equal(t, "create content.config.lua", FlattenHints(err))
}
