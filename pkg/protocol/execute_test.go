package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExecuteStaticFunctions(t *testing.T) {
	require.IsType(t, &Pong{}, Execute(&Ping{}))

	res := Execute(&GetVersion{})
	version, ok := res.(*Version)
	require.True(t, ok)
	require.Equal(t, VersionString, version.Value)
}

func TestExecuteRejectsStatefulFunctions(t *testing.T) {
	res := Execute(&AddMessage{ConversationID: 1, MessageID: 2})
	e, ok := res.(*Error)
	require.True(t, ok)
	require.Equal(t, int32(400), e.Code)

	res = Execute(nil)
	e, ok = res.(*Error)
	require.True(t, ok)
	require.Equal(t, int32(400), e.Code)
}

func TestErrorIsGoError(t *testing.T) {
	var err error = NewError(400, "Invalid session identifier specified")
	require.Contains(t, err.Error(), "Invalid session identifier")
}

func TestResponseMarkers(t *testing.T) {
	require.True(t, Response{}.IsTimeout())
	require.False(t, Response{SessionID: 3}.IsTimeout())

	require.True(t, Response{SessionID: 3}.IsSessionClosed())
	require.False(t, Response{SessionID: 3, RequestID: 1}.IsSessionClosed())
	require.False(t, Response{SessionID: 3, Result: &Ok{}}.IsSessionClosed())
	require.False(t, Response{}.IsSessionClosed())
}
