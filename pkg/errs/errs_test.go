package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/VladPetriv/flastel/pkg/errs"
	"github.com/stretchr/testify/assert"
)

func Test_IsExpected(t *testing.T) {
	t.Parallel()

	testCases := [...]struct {
		name     string
		args     error
		expected bool
	}{
		{
			name:     "should return true, since the error was expected",
			args:     errs.New("unknown parameter"),
			expected: true,
		},
		{
			name:     "should return true, since the wrapped error was expected",
			args:     fmt.Errorf("handle command /ban: %w", errs.New("user not found")),
			expected: true,
		},
		{
			name:     "should return false, since the error wasn't expected",
			args:     errors.New("connection reset"),
			expected: false,
		},
		{
			name:     "should return false, since there is no error",
			args:     nil,
			expected: false,
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			actual := errs.IsExpected(tc.args)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func Test_Message(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "user not found", errs.Message(fmt.Errorf("wrap: %w", errs.New("user not found"))))
	assert.Empty(t, errs.Message(errors.New("connection reset")))
}
