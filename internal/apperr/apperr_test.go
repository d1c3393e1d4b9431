package apperr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvalidParameterMessage(t *testing.T) {
	err := InvalidParameter("language", "javascript", []string{"solidity"}, "not supported for component %q", "smart-contract")

	assert.Contains(t, err.Error(), `"language"`)
	assert.Contains(t, err.Error(), "javascript")
	assert.Contains(t, err.Error(), `"solidity"`)
	assert.Equal(t, KindInvalidParameter, KindOf(err))
}

func TestKindOfJoined(t *testing.T) {
	joined := errors.Join(
		InvalidParameter("a", "x", nil, "bad"),
		InvalidParameter("b", "y", nil, "bad"),
	)
	assert.Equal(t, KindInvalidParameter, KindOf(joined))

	var ipe *InvalidParameterError
	require.ErrorAs(t, joined, &ipe)
	assert.Equal(t, "a", ipe.Param)
}

func TestNetworkWrap(t *testing.T) {
	assert.NoError(t, Network("mainnet", "eth_call", nil))

	err := Network("mainnet", "verificationConfigV2Exists", context.DeadlineExceeded)
	assert.Equal(t, KindNetwork, KindOf(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// Already-classified errors are not wrapped twice.
	wrapped := fmt.Errorf("read config: %w", err)
	assert.Equal(t, wrapped, Network("testnet", "other", wrapped))
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(nil))
	assert.Equal(t, KindUnknown, KindOf(errors.New("boom")))
	assert.Equal(t, KindUnknownOperation, KindOf(&UnknownOperationError{Name: "nope"}))
	assert.Equal(t, KindInternalConsistency, KindOf(InternalConsistency("missing %s", "x")))
}
