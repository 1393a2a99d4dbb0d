package errors

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/require"
)

func TestErrorsClone(t *testing.T) {
	e := NewError(200, "showme")
	e0 := e.Clone()

	// a clone is a separate value with its own data map
	require.NotEqual(t, fmt.Sprintf("%p", e), fmt.Sprintf("%p", e0))

	e0.Code = 201
	require.NotEqual(t, e.Code, e0.Code)

	e0.SetData("showme", "killme")
	require.NotEqual(t, e.Data, e0.Data)
}

func TestErrorsSetDataChains(t *testing.T) {
	e := ElectionNotFound.Clone().SetData("election", "GXYZ")
	require.Equal(t, ElectionNotFound.Code, e.Code)
	require.Equal(t, "GXYZ", e.Data["election"])

	// the shared value stays untouched
	require.Empty(t, ElectionNotFound.Data)
}

func TestErrorsRLP(t *testing.T) {
	{
		_, err := rlp.EncodeToBytes(ResultsAlreadyPublished)
		require.NoError(t, err)
	}

	{ // with `SetData()`, the rlp encoded value must be different
		encoded, err := rlp.EncodeToBytes(ResultsAlreadyPublished)
		require.NoError(t, err)

		e := ResultsAlreadyPublished.Clone()
		e.SetData("findme", "killme")
		encoded0, err := rlp.EncodeToBytes(e)
		require.NoError(t, err)
		require.NotEqual(t, encoded, encoded0)
	}
}

func TestErrorsJSON(t *testing.T) {
	e := VoterNotFound.Clone().SetData("voter", "GABC")

	var decoded Error
	require.NoError(t, json.Unmarshal([]byte(e.Error()), &decoded))
	require.Equal(t, VoterNotFound.Code, decoded.Code)
	require.Equal(t, VoterNotFound.Message, decoded.Message)
	require.Equal(t, "GABC", decoded.Data["voter"])
}
