package resource

import (
	"strings"

	"github.com/nvellon/hal"

	"boscoin.io/agora/lib/common"
	"boscoin.io/agora/lib/election"
)

type Voter struct {
	vt *election.Voter
}

func NewVoter(vt *election.Voter) *Voter {
	v := &Voter{
		vt: vt,
	}
	return v
}

func (v Voter) GetMap() hal.Entry {
	return hal.Entry{
		"registry":   v.vt.Registry,
		"address":    v.vt.Address,
		"name":       v.vt.Name,
		"contact":    v.vt.Contact,
		"registered": v.vt.Registered,
		"updated_at": v.vt.UpdatedAt,
	}
}

func (v Voter) Resource() *hal.Resource {
	r := hal.NewResource(v, v.LinkSelf())
	r.AddNewLink("registry", strings.Replace(URLRegistries, "{id}", v.vt.Registry, -1))
	return r
}

func (v Voter) LinkSelf() string {
	self := strings.Replace(URLVoters, "{id}", v.vt.Registry, -1)
	self = strings.Replace(self, "{address}", v.vt.Address, -1)
	return self
}

func (v Voter) MarshalJSON() ([]byte, error) {
	r := v.Resource()
	return common.JSONMarshalWithoutEscapeHTML(r.GetMap())
}
