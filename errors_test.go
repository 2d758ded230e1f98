package kgraph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompileError_ErrorFormatting(t *testing.T) {
	t.Parallel()

	bare := newCompileError("translate expression", KindUnboundVariable, "undefined variable: %s", "a")
	assert.Equal(t, `translate expression: UnboundVariable: undefined variable: a`, bare.Error())

	wrapped := &CompileError{Kind: KindUnresolvedHandle, Phase: "resolve graph handle", Message: "boom", Err: errors.New("root cause")}
	assert.Equal(t, `resolve graph handle: UnresolvedHandle: boom: root cause`, wrapped.Error())
}

func TestCompileError_Unwrap(t *testing.T) {
	t.Parallel()

	root := errors.New("root cause")
	wrapped := &CompileError{Kind: KindUnboundParameter, Phase: "p", Message: "m", Err: root}

	assert.ErrorIs(t, wrapped, root)
}
