package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvalidTransitionIsValidation(t *testing.T) {
	assert.True(t, errors.Is(ErrInvalidTransition, ErrValidation))
	assert.False(t, errors.Is(ErrValidation, ErrInvalidTransition))
	assert.False(t, errors.Is(ErrTransient, ErrValidation))
}
