package notify

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSinkErrorClassification(t *testing.T) {
	base := errors.New("boom")

	assert.True(t, IsPermanent(Permanent(base)))
	assert.False(t, IsPermanent(Transient(base)))
	assert.False(t, IsPermanent(base))
	assert.True(t, IsPermanent(fmt.Errorf("wrapped: %w", Permanent(base))))
	assert.ErrorIs(t, Permanent(base), base)

	assert.Nil(t, Permanent(nil))
	assert.Nil(t, Transient(nil))
	assert.Equal(t, "permanent sink error: boom", Permanent(base).Error())
}
