package resource

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"boscoin.io/agora/lib/common"
	"boscoin.io/agora/lib/common/keypair"
	"boscoin.io/agora/lib/election"
	"boscoin.io/agora/lib/operation"
	"boscoin.io/agora/lib/storage"
)

func TestResourceElection(t *testing.T) {
	storage := storage.NewTestStorage()
	defer storage.Close()

	rg, managerKP := election.TestMakeRegistry(storage)
	voterKP := election.TestRegisterVoter(storage, rg, managerKP)

	// Registry
	{
		rr := NewRegistry(rg, 1)
		r := rr.Resource()
		j, _ := json.MarshalIndent(r, "", " ")

		{
			var f interface{}
			common.MustUnmarshalJSON(j, &f)
			m := f.(map[string]interface{})
			require.Equal(t, rg.Address, m["address"])
			require.Equal(t, rg.Manager, m["manager"])
			require.Equal(t, uint64(1), uint64(m["voter_count"].(float64)))

			l := m["_links"].(map[string]interface{})
			require.Equal(t, strings.Replace(URLRegistries, "{id}", rg.Address, -1), l["self"].(map[string]interface{})["href"])
		}
	}

	// Voter
	{
		vt, err := election.GetVoter(storage, rg.Address, voterKP.Address())
		require.NoError(t, err)

		rv := NewVoter(vt)
		r := rv.Resource()
		j, _ := json.MarshalIndent(r, "", " ")

		{
			var f interface{}
			common.MustUnmarshalJSON(j, &f)
			m := f.(map[string]interface{})
			require.Equal(t, rg.Address, m["registry"])
			require.Equal(t, voterKP.Address(), m["address"])
			require.Equal(t, true, m["registered"])

			self := strings.Replace(URLVoters, "{id}", rg.Address, -1)
			self = strings.Replace(self, "{address}", voterKP.Address(), -1)
			l := m["_links"].(map[string]interface{})
			require.Equal(t, self, l["self"].(map[string]interface{})["href"])
		}
	}

	fa, _ := election.TestMakeFactory(storage, rg.Address)
	el, _ := election.TestMakeOpenElection(storage, fa.Address, rg.Address, "yes", "no")

	// Factory
	{
		rf := NewFactory(fa)
		r := rf.Resource()
		j, _ := json.MarshalIndent(r, "", " ")

		{
			var f interface{}
			common.MustUnmarshalJSON(j, &f)
			m := f.(map[string]interface{})
			require.Equal(t, fa.Address, m["address"])
			require.Equal(t, rg.Address, m["registry"])

			l := m["_links"].(map[string]interface{})
			require.Equal(t, strings.Replace(URLFactories, "{id}", fa.Address, -1), l["self"].(map[string]interface{})["href"])
			require.Equal(t, strings.Replace(URLRegistries, "{id}", rg.Address, -1), l["registry"].(map[string]interface{})["href"])
		}
	}

	// Election
	{
		re := NewElection(el)
		r := re.Resource()
		j, _ := json.MarshalIndent(r, "", " ")

		{
			var f interface{}
			common.MustUnmarshalJSON(j, &f)
			m := f.(map[string]interface{})
			require.Equal(t, el.Address, m["address"])
			require.Equal(t, el.Title, m["title"])
			require.Equal(t, "OPEN", m["state"])
			require.Equal(t, 2, len(m["options"].([]interface{})))
			_, ok := m["results"]
			require.False(t, ok)

			l := m["_links"].(map[string]interface{})
			require.Equal(t, strings.Replace(URLElections, "{id}", el.Address, -1), l["self"].(map[string]interface{})["href"])
		}
	}

	// Ballot
	{
		bt := election.NewBallot(el.Address, voterKP.Address(), "916c", common.Now())

		rb := NewBallot(bt)
		r := rb.Resource()
		j, _ := json.MarshalIndent(r, "", " ")

		{
			var f interface{}
			common.MustUnmarshalJSON(j, &f)
			m := f.(map[string]interface{})
			require.Equal(t, el.Address, m["election"])
			require.Equal(t, voterKP.Address(), m["voter"])
			require.Equal(t, "916c", m["bundle"])

			self := strings.Replace(URLBallotByVoter, "{id}", el.Address, -1)
			self = strings.Replace(self, "{address}", voterKP.Address(), -1)
			l := m["_links"].(map[string]interface{})
			require.Equal(t, self, l["self"].(map[string]interface{})["href"])
		}
	}
}

func TestResourceOperation(t *testing.T) {
	kp := keypair.Random()
	target := keypair.Random().Address()

	op, err := operation.NewOperation(kp.Address(), operation.NewRegisterVoter("showme", target, "unittest voter", ""))
	require.NoError(t, err)

	rd := operation.NewRecord(op, 0)
	ro := NewOperation(rd)
	r := ro.Resource()
	j, _ := json.MarshalIndent(r, "", " ")

	{
		var f interface{}
		common.MustUnmarshalJSON(j, &f)
		m := f.(map[string]interface{})
		require.Equal(t, rd.Hash, m["hash"])
		require.Equal(t, kp.Address(), m["source"])
		require.Equal(t, string(operation.TypeRegisterVoter), m["type"])
		require.Equal(t, target, m["target"])

		body := m["body"].(map[string]interface{})
		require.Equal(t, "showme", body["registry"])

		l := m["_links"].(map[string]interface{})
		require.Equal(t, strings.Replace(URLOperationByHash, "{id}", rd.Hash, -1), l["self"].(map[string]interface{})["href"])
		require.Equal(t, strings.Replace(URLAccountOperations, "{id}", kp.Address(), -1), l["account"].(map[string]interface{})["href"])
	}
}
