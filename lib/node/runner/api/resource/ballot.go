package resource

import (
	"strings"

	"github.com/nvellon/hal"

	"boscoin.io/agora/lib/election"
)

type Ballot struct {
	bt *election.Ballot
}

func NewBallot(bt *election.Ballot) *Ballot {
	b := &Ballot{
		bt: bt,
	}
	return b
}

func (b Ballot) GetMap() hal.Entry {
	return hal.Entry{
		"election": b.bt.Election,
		"voter":    b.bt.Voter,
		"bundle":   b.bt.Bundle,
		"voted_at": b.bt.VotedAt,
	}
}

func (b Ballot) Resource() *hal.Resource {
	r := hal.NewResource(b, b.LinkSelf())
	r.AddNewLink("election", strings.Replace(URLElections, "{id}", b.bt.Election, -1))
	return r
}

func (b Ballot) LinkSelf() string {
	self := strings.Replace(URLBallotByVoter, "{id}", b.bt.Election, -1)
	self = strings.Replace(self, "{address}", b.bt.Voter, -1)
	return self
}
