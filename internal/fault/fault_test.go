package fault_test

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"schema-deploy/internal/fault"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_NilStaysNil(t *testing.T) {
	assert.NoError(t, fault.New(fault.IO, nil))
}

func TestClassOf_ThroughWrapping(t *testing.T) {
	base := fault.New(fault.IO, os.ErrNotExist)
	wrapped := fmt.Errorf("load schema: %w", base)

	assert.Equal(t, fault.IO, fault.ClassOf(wrapped))
	assert.True(t, fault.Is(wrapped, fault.IO))
	assert.True(t, errors.Is(wrapped, os.ErrNotExist))
}

func TestClassOf_PlainError(t *testing.T) {
	assert.Equal(t, fault.Unknown, fault.ClassOf(errors.New("boom")))
	assert.False(t, fault.Is(nil, fault.Unknown))
}

func TestFatal(t *testing.T) {
	for _, c := range []fault.Class{fault.Config, fault.Input, fault.IO, fault.Database, fault.Unknown} {
		assert.True(t, c.Fatal(), c.String())
	}
	assert.False(t, fault.Capability.Fatal())
	assert.False(t, fault.Verification.Fatal())
}

func TestError_Message(t *testing.T) {
	err := fault.Newf(fault.Input, "connection string is required")
	require.Error(t, err)
	assert.Equal(t, "input error: connection string is required", err.Error())
}
