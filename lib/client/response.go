package client

import (
	"encoding/json"
	"fmt"
)

// Problem is the RFC 7807 document a node answers on failure. It
// implements `error` so callers can match on it with a type assertion.
type Problem struct {
	Type     string                     `json:"type"`
	Title    string                     `json:"title"`
	Status   int                        `json:"status,omitempty"`
	Detail   string                     `json:"detail,omitempty"`
	Instance string                     `json:"instance,omitempty"`
	Extras   map[string]json.RawMessage `json:"extras,omitempty"`
}

func (p Problem) Error() string {
	return fmt.Sprintf("%s (status %d)", p.Title, p.Status)
}

type Link struct {
	Href      string `json:"href"`
	Templated bool   `json:"templated,omitempty"`
}

type Registry struct {
	Links struct {
		Self   Link `json:"self"`
		Voters Link `json:"voters"`
	} `json:"_links"`

	Address    string `json:"address"`
	Manager    string `json:"manager"`
	VoterCount uint64 `json:"voter_count"`
	CreatedAt  string `json:"created_at"`
}

type Voter struct {
	Links struct {
		Self     Link `json:"self"`
		Registry Link `json:"registry"`
	} `json:"_links"`

	Registry   string `json:"registry"`
	Address    string `json:"address"`
	Name       string `json:"name"`
	Contact    string `json:"contact"`
	Registered bool   `json:"registered"`
	UpdatedAt  string `json:"updated_at"`
}

type Factory struct {
	Links struct {
		Self      Link `json:"self"`
		Elections Link `json:"elections"`
		Registry  Link `json:"registry"`
	} `json:"_links"`

	Address       string `json:"address"`
	Manager       string `json:"manager"`
	Registry      string `json:"registry"`
	ElectionCount uint64 `json:"election_count"`
	CreatedAt     string `json:"created_at"`
}

type Option struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Election mirrors the election resource. `Results` and `PublishedAt` are
// only present once the manager has published the tally.
type Election struct {
	Links struct {
		Self    Link `json:"self"`
		Options Link `json:"options"`
		Ballots Link `json:"ballots"`
		Results Link `json:"results"`
		Factory Link `json:"factory"`
	} `json:"_links"`

	Address     string   `json:"address"`
	Manager     string   `json:"manager"`
	Factory     string   `json:"factory"`
	Registry    string   `json:"registry"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
	PublicKey   string   `json:"public_key"`
	State       string   `json:"state"`
	Options     []Option `json:"options"`
	BallotsCast uint64   `json:"ballots_cast"`
	Results     []uint64 `json:"results,omitempty"`
	PublishedAt string   `json:"published_at,omitempty"`
	CreatedAt   string   `json:"created_at"`
}

type ElectionsPage struct {
	Links struct {
		Self Link `json:"self"`
		Next Link `json:"next"`
		Prev Link `json:"prev"`
	} `json:"_links"`
	Embedded struct {
		Records []Election `json:"records"`
	} `json:"_embedded"`
}

type Ballot struct {
	Links struct {
		Self     Link `json:"self"`
		Election Link `json:"election"`
	} `json:"_links"`

	Election string `json:"election"`
	Voter    string `json:"voter"`
	Bundle   string `json:"bundle"`
	VotedAt  string `json:"voted_at"`
}

type BallotsPage struct {
	Links struct {
		Self Link `json:"self"`
		Next Link `json:"next"`
		Prev Link `json:"prev"`
	} `json:"_links"`
	Embedded struct {
		Records []Ballot `json:"records"`
	} `json:"_embedded"`
}

type Results struct {
	Links struct {
		Self     Link `json:"self"`
		Election Link `json:"election"`
	} `json:"_links"`

	Election    string   `json:"election"`
	Options     []Option `json:"options"`
	Results     []uint64 `json:"results"`
	BallotsCast uint64   `json:"ballots_cast"`
	PublishedAt string   `json:"published_at"`
}

// Operation is one applied record. `Body` stays raw json; its shape
// depends on `Type`.
type Operation struct {
	Links struct {
		Self    Link `json:"self"`
		Account Link `json:"account"`
	} `json:"_links"`

	Hash      string          `json:"hash"`
	Source    string          `json:"source"`
	Type      string          `json:"type"`
	Sequence  uint64          `json:"sequence"`
	Body      json.RawMessage `json:"body"`
	Target    string          `json:"target,omitempty"`
	AppliedAt string          `json:"applied_at"`
}

type OperationsPage struct {
	Links struct {
		Self Link `json:"self"`
		Next Link `json:"next"`
		Prev Link `json:"prev"`
	} `json:"_links"`
	Embedded struct {
		Records []Operation `json:"records"`
	} `json:"_embedded"`
}
