package resource

import (
	"strings"

	"github.com/nvellon/hal"

	"boscoin.io/agora/lib/election"
)

type Registry struct {
	rg         *election.Registry
	voterCount uint64
}

func NewRegistry(rg *election.Registry, voterCount uint64) *Registry {
	r := &Registry{
		rg:         rg,
		voterCount: voterCount,
	}
	return r
}

func (r Registry) GetMap() hal.Entry {
	return hal.Entry{
		"address":     r.rg.Address,
		"manager":     r.rg.Manager,
		"voter_count": r.voterCount,
		"created_at":  r.rg.CreatedAt,
	}
}

func (r Registry) Resource() *hal.Resource {
	address := r.rg.Address

	res := hal.NewResource(r, r.LinkSelf())
	res.AddLink("voters", hal.NewLink(strings.Replace(URLVoters, "{id}", address, -1), hal.LinkAttr{"templated": true}))
	return res
}

func (r Registry) LinkSelf() string {
	address := r.rg.Address
	return strings.Replace(URLRegistries, "{id}", address, -1)
}
