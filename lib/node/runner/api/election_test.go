package api

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"boscoin.io/agora/lib/common"
	"boscoin.io/agora/lib/common/keypair"
	"boscoin.io/agora/lib/election"
)

func TestGetElectionHandler(t *testing.T) {
	ts, storage := prepareAPIServer()
	defer storage.Close()
	defer ts.Close()

	rg, _ := election.TestMakeRegistry(storage)
	fa, _ := election.TestMakeFactory(storage, rg.Address)
	el, _ := election.TestMakeOpenElection(storage, fa.Address, rg.Address, "yes", "no")

	{
		// unknown election
		req, _ := http.NewRequest("GET", ts.URL+strings.Replace(GetElectionHandlerPattern, "{id}", "showme", -1), nil)
		resp, err := ts.Client().Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	}

	{
		respBody := request(ts, strings.Replace(GetElectionHandlerPattern, "{id}", el.Address, -1), false)
		defer respBody.Close()

		readByte, err := ioutil.ReadAll(bufio.NewReader(respBody))
		require.NoError(t, err)

		recv := make(map[string]interface{})
		json.Unmarshal(readByte, &recv)
		require.Equal(t, el.Address, recv["address"])
		require.Equal(t, fa.Address, recv["factory"])
		require.Equal(t, "unittest election", recv["title"])
		require.Equal(t, "OPEN", recv["state"])
		require.Equal(t, 2, len(recv["options"].([]interface{})))

		// the tally only appears once published
		_, ok := recv["results"]
		require.False(t, ok)
	}
}

func TestGetElectionOptionsHandler(t *testing.T) {
	ts, storage := prepareAPIServer()
	defer storage.Close()
	defer ts.Close()

	rg, _ := election.TestMakeRegistry(storage)
	fa, _ := election.TestMakeFactory(storage, rg.Address)
	el, _ := election.TestMakeOpenElection(storage, fa.Address, rg.Address, "yes", "no")

	respBody := request(ts, strings.Replace(GetElectionOptionsHandlerPattern, "{id}", el.Address, -1), false)
	defer respBody.Close()

	readByte, err := ioutil.ReadAll(bufio.NewReader(respBody))
	require.NoError(t, err)

	var recv []map[string]interface{}
	json.Unmarshal(readByte, &recv)
	require.Equal(t, 2, len(recv), "length is not same")
	require.Equal(t, "yes", recv[0]["name"])
	require.Equal(t, "no", recv[1]["name"])
}

func TestGetBallotByVoterHandler(t *testing.T) {
	ts, storage := prepareAPIServer()
	defer storage.Close()
	defer ts.Close()

	rg, managerKP := election.TestMakeRegistry(storage)
	fa, _ := election.TestMakeFactory(storage, rg.Address)
	el, _ := election.TestMakeOpenElection(storage, fa.Address, rg.Address, "yes", "no")
	voterKP := election.TestRegisterVoter(storage, rg, managerKP)

	url := strings.Replace(GetBallotByVoterHandlerPattern, "{id}", el.Address, -1)
	url = strings.Replace(url, "{address}", voterKP.Address(), -1)

	{
		// no ballot stored yet
		req, _ := http.NewRequest("GET", ts.URL+url, nil)
		resp, err := ts.Client().Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	}

	_, err := election.Vote(storage, el.Address, voterKP.Address(), "unittest bundle")
	require.NoError(t, err)

	{
		respBody := request(ts, url, false)
		defer respBody.Close()

		readByte, err := ioutil.ReadAll(bufio.NewReader(respBody))
		require.NoError(t, err)

		recv := make(map[string]interface{})
		json.Unmarshal(readByte, &recv)
		require.Equal(t, el.Address, recv["election"])
		require.Equal(t, voterKP.Address(), recv["voter"])
		require.Equal(t, "unittest bundle", recv["bundle"])
	}
}

func TestGetBallotByVoterHandlerStream(t *testing.T) {
	ts, storage := prepareAPIServer()
	defer storage.Close()
	defer ts.Close()

	rg, managerKP := election.TestMakeRegistry(storage)
	fa, _ := election.TestMakeFactory(storage, rg.Address)
	el, _ := election.TestMakeOpenElection(storage, fa.Address, rg.Address, "yes", "no")
	voterKP := election.TestRegisterVoter(storage, rg, managerKP)

	_, err := election.Vote(storage, el.Address, voterKP.Address(), "bundle-1")
	require.NoError(t, err)

	url := strings.Replace(GetBallotByVoterHandlerPattern, "{id}", el.Address, -1)
	url = strings.Replace(url, "{address}", voterKP.Address(), -1)

	respBody := request(ts, url, true)
	defer respBody.Close()
	reader := bufio.NewReader(respBody)

	// the stored ballot is rendered up front
	line, err := reader.ReadBytes('\n')
	require.NoError(t, err)
	recv := make(map[string]interface{})
	json.Unmarshal(bytes.Trim(line, "\n"), &recv)
	require.Equal(t, "bundle-1", recv["bundle"])

	// a revote overwrites the ballot and shows up as the next line
	time.Sleep(100 * time.Millisecond)
	_, err = election.Vote(storage, el.Address, voterKP.Address(), "bundle-2")
	require.NoError(t, err)

	line, err = reader.ReadBytes('\n')
	require.NoError(t, err)
	recv = make(map[string]interface{})
	json.Unmarshal(bytes.Trim(line, "\n"), &recv)
	require.Equal(t, "bundle-2", recv["bundle"])
}

func TestGetBallotsByElectionHandler(t *testing.T) {
	ts, storage := prepareAPIServer()
	defer storage.Close()
	defer ts.Close()

	rg, managerKP := election.TestMakeRegistry(storage)
	fa, _ := election.TestMakeFactory(storage, rg.Address)
	el, _ := election.TestMakeOpenElection(storage, fa.Address, rg.Address, "yes", "no")

	expected := make(map[string]string)
	for i := 0; i < 3; i++ {
		voterKP := election.TestRegisterVoter(storage, rg, managerKP)
		bundle := fmt.Sprintf("bundle-%d", i)
		_, err := election.Vote(storage, el.Address, voterKP.Address(), bundle)
		require.NoError(t, err)
		expected[voterKP.Address()] = bundle
	}

	{
		// unknown election
		req, _ := http.NewRequest("GET", ts.URL+strings.Replace(GetBallotsByElectionHandlerPattern, "{id}", "showme", -1), nil)
		resp, err := ts.Client().Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	}

	{
		url := strings.Replace(GetBallotsByElectionHandlerPattern, "{id}", el.Address, -1)
		respBody := request(ts, url, false)
		defer respBody.Close()

		readByte, err := ioutil.ReadAll(bufio.NewReader(respBody))
		require.NoError(t, err)

		recv := make(map[string]interface{})
		json.Unmarshal(readByte, &recv)
		records := recv["_embedded"].(map[string]interface{})["records"].([]interface{})
		require.Equal(t, 3, len(records), "length is not same")

		// ballots are keyed by voter address, so assert by membership
		for _, record := range records {
			b := record.(map[string]interface{})
			require.Equal(t, el.Address, b["election"])
			require.Equal(t, expected[b["voter"].(string)], b["bundle"])
		}
	}
}

func TestGetElectionResultsHandler(t *testing.T) {
	ts, storage := prepareAPIServer()
	defer storage.Close()
	defer ts.Close()

	rg, _ := election.TestMakeRegistry(storage)
	fa, _ := election.TestMakeFactory(storage, rg.Address)

	managerKP := keypair.Random()
	now := common.Now()
	el := election.NewElection(managerKP.Address(), fa.Address, rg.Address, "done", "", now.Add(-2*time.Hour), now.Add(-time.Hour), "key")
	el.Options = []election.Option{{Name: "yes"}, {Name: "no"}}
	require.NoError(t, el.Save(storage))

	url := strings.Replace(GetElectionResultsHandlerPattern, "{id}", el.Address, -1)

	{
		// nothing published yet
		req, _ := http.NewRequest("GET", ts.URL+url, nil)
		resp, err := ts.Client().Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	}

	_, err := election.PublishResults(storage, el.Address, managerKP.Address(), []uint64{3, 2})
	require.NoError(t, err)

	{
		respBody := request(ts, url, false)
		defer respBody.Close()

		readByte, err := ioutil.ReadAll(bufio.NewReader(respBody))
		require.NoError(t, err)

		recv := make(map[string]interface{})
		json.Unmarshal(readByte, &recv)
		require.Equal(t, el.Address, recv["election"])
		require.NotEmpty(t, recv["published_at"])

		results := recv["results"].([]interface{})
		require.Equal(t, 2, len(results), "length is not same")
		require.Equal(t, uint64(3), uint64(results[0].(float64)))
		require.Equal(t, uint64(2), uint64(results[1].(float64)))
	}
}
