package mtpx

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorClassification(t *testing.T) {
	cases := []struct {
		name           string
		rpcErr         *Error
		flood          bool
		defaultHandled bool
	}{
		{"FloodWait", NewError(420, "FLOOD_WAIT_30", ""), true, true},
		{"FloodWaitLong", NewError(420, "FLOOD_WAIT_86400", ""), true, true},
		{"Internal", NewError(500, "INTERNAL", ""), false, true},
		{"GatewayTimeout", NewError(504, "GATEWAY_TIMEOUT", ""), false, true},
		{"NegativeCode", NewError(-503, "", "connection lost"), false, true},
		{"ClientSide", NewError(ClientErrorCode, "RESPONSE_PARSE_FAILED", ""), false, true},
		{"PeerInvalid", NewError(400, "PEER_ID_INVALID", ""), false, false},
		{"Unauthorized", NewError(401, "AUTH_KEY_UNREGISTERED", ""), false, false},
		{"NotFlood", NewError(400, "FLOOD", ""), false, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.flood, IsFloodError(tc.rpcErr))
			assert.Equal(t, tc.defaultHandled, IsTemporaryError(tc.rpcErr))
			assert.Equal(t, tc.defaultHandled, IsDefaultHandledError(tc.rpcErr))
		})
	}
}

func TestErrorString(t *testing.T) {
	assert.Equal(t,
		"rpc error 400: PEER_ID_INVALID",
		NewError(400, "PEER_ID_INVALID", "").Error())
	assert.Equal(t,
		"rpc error 420: FLOOD_WAIT_30 (too many requests)",
		NewError(420, "FLOOD_WAIT_30", "too many requests").Error())
}

func TestWrapParseError(t *testing.T) {
	parseErr := errors.New("unexpected vector length 7")
	rpcErr := WrapParseError(parseErr)

	assert.EqualValues(t, ClientErrorCode, rpcErr.Code)
	assert.Equal(t, "RESPONSE_PARSE_FAILED", rpcErr.Type)
	assert.Contains(t, rpcErr.Description, "unexpected vector length 7")

	// The original decode failure stays reachable through the chain.
	require.True(t, errors.Is(rpcErr, parseErr))
	assert.True(t, IsDefaultHandledError(rpcErr))
}
