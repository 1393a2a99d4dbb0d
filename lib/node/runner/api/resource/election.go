package resource

import (
	"strings"

	"github.com/nvellon/hal"

	"boscoin.io/agora/lib/common"
	"boscoin.io/agora/lib/election"
)

type Election struct {
	el *election.Election
}

func NewElection(el *election.Election) *Election {
	e := &Election{
		el: el,
	}
	return e
}

func (e Election) GetMap() hal.Entry {
	entry := hal.Entry{
		"address":      e.el.Address,
		"manager":      e.el.Manager,
		"factory":      e.el.Factory,
		"registry":     e.el.Registry,
		"title":        e.el.Title,
		"description":  e.el.Description,
		"start":        e.el.Start,
		"end":          e.el.End,
		"public_key":   e.el.PublicKey,
		"state":        e.el.State(),
		"options":      e.el.Options,
		"ballots_cast": e.el.BallotsCast,
		"created_at":   e.el.CreatedAt,
	}

	if e.el.IsPublished() {
		entry["results"] = e.el.Results
		entry["published_at"] = e.el.PublishedAt
	}

	return entry
}

func (e Election) Resource() *hal.Resource {
	address := e.el.Address

	r := hal.NewResource(e, e.LinkSelf())
	r.AddNewLink("options", strings.Replace(URLElectionOptions, "{id}", address, -1))
	r.AddLink("ballots", hal.NewLink(strings.Replace(URLElectionBallots, "{id}", address, -1)+"{?cursor,limit,reverse}", hal.LinkAttr{"templated": true}))
	r.AddNewLink("results", strings.Replace(URLElectionResults, "{id}", address, -1))
	r.AddNewLink("factory", strings.Replace(URLFactories, "{id}", e.el.Factory, -1))
	return r
}

func (e Election) LinkSelf() string {
	address := e.el.Address
	return strings.Replace(URLElections, "{id}", address, -1)
}

func (e Election) MarshalJSON() ([]byte, error) {
	r := e.Resource()
	return common.JSONMarshalWithoutEscapeHTML(r.GetMap())
}
