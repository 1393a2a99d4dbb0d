package resource

import (
	"strings"

	"github.com/nvellon/hal"

	"boscoin.io/agora/lib/election"
)

// ElectionResults is only served once the election manager has published
// the decrypted tally.
type ElectionResults struct {
	el *election.Election
}

func NewElectionResults(el *election.Election) *ElectionResults {
	r := &ElectionResults{
		el: el,
	}
	return r
}

func (r ElectionResults) GetMap() hal.Entry {
	return hal.Entry{
		"election":     r.el.Address,
		"options":      r.el.Options,
		"results":      r.el.Results,
		"ballots_cast": r.el.BallotsCast,
		"published_at": r.el.PublishedAt,
	}
}

func (r ElectionResults) Resource() *hal.Resource {
	res := hal.NewResource(r, r.LinkSelf())
	res.AddNewLink("election", strings.Replace(URLElections, "{id}", r.el.Address, -1))
	return res
}

func (r ElectionResults) LinkSelf() string {
	return strings.Replace(URLElectionResults, "{id}", r.el.Address, -1)
}
