package resource

import (
	"strings"

	"github.com/nvellon/hal"

	"boscoin.io/agora/lib/election"
)

type Factory struct {
	fa *election.Factory
}

func NewFactory(fa *election.Factory) *Factory {
	f := &Factory{
		fa: fa,
	}
	return f
}

func (f Factory) GetMap() hal.Entry {
	return hal.Entry{
		"address":        f.fa.Address,
		"manager":        f.fa.Manager,
		"registry":       f.fa.Registry,
		"election_count": f.fa.ElectionCount,
		"created_at":     f.fa.CreatedAt,
	}
}

func (f Factory) Resource() *hal.Resource {
	address := f.fa.Address

	r := hal.NewResource(f, f.LinkSelf())
	r.AddLink("elections", hal.NewLink(strings.Replace(URLFactoryElections, "{id}", address, -1)+"{?cursor,limit,reverse}", hal.LinkAttr{"templated": true}))
	r.AddNewLink("registry", strings.Replace(URLRegistries, "{id}", f.fa.Registry, -1))
	return r
}

func (f Factory) LinkSelf() string {
	address := f.fa.Address
	return strings.Replace(URLFactories, "{id}", address, -1)
}
