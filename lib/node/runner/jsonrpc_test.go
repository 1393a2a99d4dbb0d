package runner

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	rpcjson "github.com/gorilla/rpc/json"
	"github.com/stretchr/testify/require"

	"boscoin.io/agora/lib/common"
	"boscoin.io/agora/lib/common/keypair"
	"boscoin.io/agora/lib/operation"
	"boscoin.io/agora/lib/storage"
)

type jsonrpcServerTestHelper struct {
	server   *httptest.Server
	endpoint *common.Endpoint
	st       *storage.LevelDBBackend
	js       *JSONRPCServer
	t        *testing.T
}

func (jp *jsonrpcServerTestHelper) prepare() {
	jp.server = httptest.NewUnstartedServer(nil)
	endpoint, _ := common.NewEndpointFromString("http://localhost/jsonrpc")
	jp.st = storage.NewTestStorage()

	jp.js = NewJSONRPCServer(endpoint, jp.st)
	jp.server.Config = &http.Server{Handler: jp.js.Ready()}
	jp.server.Start()

	u, _ := url.Parse(jp.server.URL)
	endpoint.Host = u.Host
	endpoint.Scheme = u.Scheme

	jp.endpoint = endpoint
}

func (jp *jsonrpcServerTestHelper) done() {
	jp.server.Close()
	jp.st.Close()
}

func (jp *jsonrpcServerTestHelper) request(method string, args interface{}) *http.Response {
	message, err := rpcjson.EncodeClientRequest(method, &args)
	require.NoError(jp.t, err)

	req, err := http.NewRequest("POST", jp.endpoint.String(), bytes.NewBuffer(message))
	require.NoError(jp.t, err)

	req.Header.Set("Content-Type", "application/json")
	client := new(http.Client)
	resp, err := client.Do(req)
	require.NoError(jp.t, err)
	require.Equal(jp.t, 200, resp.StatusCode)

	return resp
}

// saveRecords appends records for n register operations and returns their
// hashes in sequence order.
func (jp *jsonrpcServerTestHelper) saveRecords(n int) []string {
	kp := keypair.Random()

	hashes := []string{}
	for i := 0; i < n; i++ {
		op := operation.TestMakeOperation(
			networkID,
			kp,
			operation.NewRegisterVoter("showme", keypair.Random().Address(), fmt.Sprintf("voter %d", i), ""),
		)
		if _, err := operation.SaveRecord(jp.st, op); err != nil {
			panic(err)
		}
		hashes = append(hashes, op.H.Hash)
	}

	return hashes
}

func TestJSONRPCServerEcho(t *testing.T) {
	jp := jsonrpcServerTestHelper{t: t}
	jp.prepare()
	defer jp.done()

	token := common.NowISO8601()

	args := DBEchoArgs(token)
	resp := jp.request("DB.Echo", &args)
	defer resp.Body.Close()

	var result DBEchoResult
	err := rpcjson.DecodeClientResponse(resp.Body, &result)
	require.NoError(t, err)

	require.Equal(t, token, string(result))
}

func TestJSONRPCServerDBHas(t *testing.T) {
	jp := jsonrpcServerTestHelper{t: t}
	jp.prepare()
	defer jp.done()

	hashes := jp.saveRecords(1)
	key := operation.GetRecordKey(hashes[0])

	{
		args := DBHasArgs(key)
		resp := jp.request("DB.Has", &args)
		defer resp.Body.Close()

		var result DBHasResult
		err := rpcjson.DecodeClientResponse(resp.Body, &result)
		require.NoError(t, err)

		require.Equal(t, true, bool(result))
	}

	{
		args := DBHasArgs(key + "hahaha")
		resp := jp.request("DB.Has", &args)
		defer resp.Body.Close()

		var result DBHasResult
		err := rpcjson.DecodeClientResponse(resp.Body, &result)
		require.NoError(t, err)

		require.Equal(t, false, bool(result))
	}
}

func TestJSONRPCServerDBGet(t *testing.T) {
	jp := jsonrpcServerTestHelper{t: t}
	jp.prepare()
	defer jp.done()

	hashes := jp.saveRecords(1)
	key := operation.GetRecordKey(hashes[0])

	args := DBGetArgs(key)
	resp := jp.request("DB.Get", &args)
	defer resp.Body.Close()

	var result DBGetResult
	err := rpcjson.DecodeClientResponse(resp.Body, &result)
	require.NoError(t, err)
	require.Equal(t, key, string(result.Key))

	var rd operation.Record
	require.NoError(t, json.Unmarshal(result.Value, &rd))
	require.Equal(t, hashes[0], rd.Hash)
	require.Equal(t, uint64(0), rd.Sequence)
}

func TestJSONRPCServerDBGetIterator(t *testing.T) {
	jp := jsonrpcServerTestHelper{t: t}
	jp.prepare()
	defer jp.done()

	expected := jp.saveRecords(10)

	{ // the sequence index in order
		args := DBGetIteratorArgs{
			Prefix:  operation.RecordPrefixSeq,
			Options: GetIteratorOptions{Limit: uint64(len(expected) + 100)},
		}
		resp := jp.request("DB.GetIterator", &args)
		defer resp.Body.Close()

		var result DBGetIteratorResult
		err := rpcjson.DecodeClientResponse(resp.Body, &result)
		require.NoError(t, err)

		require.Equal(t, len(expected), len(result.Items))
		for i, item := range result.Items {
			var hash string
			require.NoError(t, json.Unmarshal(item.Value, &hash))
			require.Equal(t, expected[i], hash)
		}
	}

	{ // with reverse
		args := DBGetIteratorArgs{
			Prefix: operation.RecordPrefixSeq,
			Options: GetIteratorOptions{
				Limit:   uint64(len(expected) + 100),
				Reverse: true,
			},
		}
		resp := jp.request("DB.GetIterator", &args)
		defer resp.Body.Close()

		var result DBGetIteratorResult
		err := rpcjson.DecodeClientResponse(resp.Body, &result)
		require.NoError(t, err)

		require.Equal(t, len(expected), len(result.Items))
		for i, item := range result.Items {
			var hash string
			require.NoError(t, json.Unmarshal(item.Value, &hash))
			require.Equal(t, expected[len(expected)-i-1], hash)
		}
	}
}

func TestJSONRPCServerDBGetIteratorWithLimit(t *testing.T) {
	jp := jsonrpcServerTestHelper{t: t}
	jp.prepare()
	defer jp.done()

	expected := jp.saveRecords(10)

	limit := 3
	args := DBGetIteratorArgs{
		Prefix:  operation.RecordPrefixSeq,
		Options: GetIteratorOptions{Limit: uint64(limit)},
	}

	resp := jp.request("DB.GetIterator", args)
	defer resp.Body.Close()

	var result DBGetIteratorResult
	err := rpcjson.DecodeClientResponse(resp.Body, &result)
	require.NoError(t, err)

	require.Equal(t, limit, len(result.Items))
	for i, item := range result.Items {
		var hash string
		require.NoError(t, json.Unmarshal(item.Value, &hash))
		require.Equal(t, expected[i], hash)
	}
}
