package election

import (
	"fmt"
	"time"

	"boscoin.io/agora/lib/common"
	"boscoin.io/agora/lib/common/observer"
	"boscoin.io/agora/lib/errors"
	"boscoin.io/agora/lib/storage"
)

// models
//  * 'election'
// 	- 'el-election-<Election.Address>': `Election`

const ElectionPrefix string = "el-election-"

// Election is the state machine. The derived states follow the clock:
// CONFIGURING before `Start`, OPEN inside [Start, End], CLOSED after `End`.
// PUBLISHED is explicit and terminal; `PublishedAt` doubles as the flag.
type Election struct {
	Address     string   `json:"address"`
	Manager     string   `json:"manager"`
	Factory     string   `json:"factory"`
	Registry    string   `json:"registry"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
	PublicKey   string   `json:"public_key"`
	Options     []Option `json:"options"`
	BallotsCast uint64   `json:"ballots_cast"`
	Results     []uint64 `json:"results"`
	PublishedAt string   `json:"published_at"`
	CreatedAt   string   `json:"created_at"`
}

type Option struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func NewElection(manager, factory, registry, title, description string, start, end time.Time, publicKey string) *Election {
	e := &Election{
		Manager:     manager,
		Factory:     factory,
		Registry:    registry,
		Title:       title,
		Description: description,
		Start:       common.FormatISO8601(start),
		End:         common.FormatISO8601(end),
		PublicKey:   publicKey,
		CreatedAt:   common.NowISO8601(),
	}
	e.Address = NewHandle("election", manager, factory, registry, title, e.CreatedAt)

	return e
}

func (e *Election) String() string {
	return string(common.MustMarshalJSON(e))
}

func GetElectionKey(address string) string {
	return fmt.Sprintf("%s%s", ElectionPrefix, address)
}

func (e *Election) Save(st *storage.LevelDBBackend) (err error) {
	key := GetElectionKey(e.Address)

	var exists bool
	if exists, err = st.Has(key); err != nil {
		return
	}

	if exists {
		err = st.Set(key, e)
	} else {
		err = st.New(key, e)
	}
	if err == nil {
		event := "saved"
		event += " " + fmt.Sprintf("address-%s", e.Address)
		event += " " + fmt.Sprintf("factory-%s", e.Factory)
		observer.ElectionObserver.Trigger(event, e)
	}

	return
}

func ExistsElection(st *storage.LevelDBBackend, address string) (bool, error) {
	return st.Has(GetElectionKey(address))
}

func GetElection(st *storage.LevelDBBackend, address string) (e *Election, err error) {
	var exists bool
	if exists, err = ExistsElection(st, address); err != nil {
		return
	} else if !exists {
		err = errors.ElectionNotFound
		return
	}

	err = st.Get(GetElectionKey(address), &e)

	return
}

func (e *Election) StartTime() time.Time {
	t, _ := common.ParseISO8601(e.Start)
	return t
}

func (e *Election) EndTime() time.Time {
	t, _ := common.ParseISO8601(e.End)
	return t
}

func (e *Election) IsPublished() bool {
	return len(e.PublishedAt) > 0
}

// InVotingWindow is inclusive on both ends.
func (e *Election) InVotingWindow(t time.Time) bool {
	return !t.Before(e.StartTime()) && !t.After(e.EndTime())
}

func (e *Election) StateAt(t time.Time) State {
	if e.IsPublished() {
		return StatePUBLISHED
	}
	if t.Before(e.StartTime()) {
		return StateCONFIGURING
	}
	if !t.After(e.EndTime()) {
		return StateOPEN
	}

	return StateCLOSED
}

func (e *Election) State() State {
	return e.StateAt(common.Now())
}

// AddOption appends a candidate row. Only the election manager may call it
// and only while no ballot has been accepted, so every stored ballot always
// covers the full option list.
func AddOption(st *storage.LevelDBBackend, address, caller, name, description string) (index int, err error) {
	index = -1

	var e *Election
	if e, err = GetElection(st, address); err != nil {
		return
	}

	if e.Manager != caller {
		err = errors.NotElectionManager
		return
	}

	if e.IsPublished() {
		err = errors.ResultsAlreadyPublished
		return
	}

	if e.BallotsCast > 0 {
		err = errors.VotesAlreadyCast
		return
	}

	e.Options = append(e.Options, Option{Name: name, Description: description})
	if err = e.Save(st); err != nil {
		return
	}

	index = len(e.Options) - 1

	return
}

// GetOptions returns the option rows in order.
func GetOptions(st *storage.LevelDBBackend, address string) (options []Option, err error) {
	var e *Election
	if e, err = GetElection(st, address); err != nil {
		return
	}

	options = e.Options

	return
}

// Vote stores the caller's ciphertext bundle. The caller must be registered
// in the bound registry and the clock must be inside the voting window. A
// revote replaces the stored bundle; only the first vote of a voter moves
// `BallotsCast`.
func Vote(st *storage.LevelDBBackend, address, caller, bundle string) (b *Ballot, err error) {
	var e *Election
	if e, err = GetElection(st, address); err != nil {
		return
	}

	var eligible bool
	if eligible, err = IsVoter(st, e.Registry, caller); err != nil {
		return
	}
	if !eligible {
		err = errors.NotEligibleVoter
		return
	}

	now := common.Now()
	if !e.InVotingWindow(now) {
		err = errors.OutsideVotingWindow
		return
	}

	var voted bool
	if voted, err = ExistsBallot(st, e.Address, caller); err != nil {
		return
	}

	b = NewBallot(e.Address, caller, bundle, now)
	if err = b.Save(st); err != nil {
		b = nil
		return
	}

	if !voted {
		e.BallotsCast++
		if err = e.Save(st); err != nil {
			b = nil
			return
		}
	}

	return
}

// HasVoted reports whether a ballot is stored for `voter`.
func HasVoted(st *storage.LevelDBBackend, address, voter string) (bool, error) {
	return ExistsBallot(st, address, voter)
}

// GetEncryptedVote returns the last stored bundle of `voter`, at any time.
// Reading before the window closes is a caller discipline; the bundle is
// ciphertext either way.
func GetEncryptedVote(st *storage.LevelDBBackend, address, voter string) (bundle string, err error) {
	var b *Ballot
	if b, err = GetBallot(st, address, voter); err != nil {
		return
	}

	bundle = b.Bundle

	return
}

// PublishResults stores the decrypted tally exactly once. Only the election
// manager may call it, only after the window closed, and the tally length
// must match the option list. Decrypting the bundles happens off the node,
// with the private counterpart of `PublicKey`.
func PublishResults(st *storage.LevelDBBackend, address, caller string, tally []uint64) (e *Election, err error) {
	if e, err = GetElection(st, address); err != nil {
		return
	}

	if e.Manager != caller {
		e = nil
		err = errors.NotElectionManager
		return
	}

	if e.IsPublished() {
		e = nil
		err = errors.ResultsAlreadyPublished
		return
	}

	if !common.Now().After(e.EndTime()) {
		e = nil
		err = errors.VotingStillOpen
		return
	}

	if len(tally) != len(e.Options) {
		err = errors.ResultsLengthMismatch.Clone().
			SetData("options", len(e.Options)).
			SetData("results", len(tally))
		e = nil
		return
	}

	e.Results = tally
	e.PublishedAt = common.NowISO8601()
	if err = e.Save(st); err != nil {
		e = nil
		return
	}

	return
}

// GetResults returns the stored tallies, empty until publication.
func GetResults(st *storage.LevelDBBackend, address string) (results []uint64, err error) {
	var e *Election
	if e, err = GetElection(st, address); err != nil {
		return
	}

	results = e.Results

	return
}
