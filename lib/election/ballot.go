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
//  * 'ballot'
// 	- 'el-ballot-<Election.Address>-<Voter.Address>': `Ballot`
//
// One record per voter and election; a revote overwrites in place, there is
// no ballot history.

const BallotPrefix string = "el-ballot-"

// Ballot holds one voter's last submitted bundle. The bundle is an opaque
// serialized ciphertext sequence; it is never parsed here.
type Ballot struct {
	Election string `json:"election"`
	Voter    string `json:"voter"`
	Bundle   string `json:"bundle"`
	VotedAt  string `json:"voted_at"`
}

func NewBallot(election, voter, bundle string, votedAt time.Time) *Ballot {
	return &Ballot{
		Election: election,
		Voter:    voter,
		Bundle:   bundle,
		VotedAt:  common.FormatISO8601(votedAt),
	}
}

func (b *Ballot) String() string {
	return string(common.MustMarshalJSON(b))
}

func GetBallotKey(election, voter string) string {
	return fmt.Sprintf("%s%s-%s", BallotPrefix, election, voter)
}

func GetBallotKeyPrefix(election string) string {
	return fmt.Sprintf("%s%s-", BallotPrefix, election)
}

func (b *Ballot) Save(st *storage.LevelDBBackend) (err error) {
	key := GetBallotKey(b.Election, b.Voter)

	var exists bool
	if exists, err = st.Has(key); err != nil {
		return
	}

	if exists {
		err = st.Set(key, b)
	} else {
		err = st.New(key, b)
	}
	if err == nil {
		event := "saved"
		event += " " + fmt.Sprintf("election-%s", b.Election)
		event += " " + fmt.Sprintf("voter-%s", b.Voter)
		event += " " + fmt.Sprintf("election-voter-%s%s", b.Election, b.Voter)
		observer.ElectionObserver.Trigger(event, b)
	}

	return
}

func ExistsBallot(st *storage.LevelDBBackend, election, voter string) (bool, error) {
	return st.Has(GetBallotKey(election, voter))
}

func GetBallot(st *storage.LevelDBBackend, election, voter string) (b *Ballot, err error) {
	var exists bool
	if exists, err = ExistsBallot(st, election, voter); err != nil {
		return
	} else if !exists {
		err = errors.BallotNotFound
		return
	}

	err = st.Get(GetBallotKey(election, voter), &b)

	return
}

// GetBallotsByElection walks every stored ballot of one election, ordered
// by voter address.
func GetBallotsByElection(st *storage.LevelDBBackend, election string, options storage.ListOptions) (func() (*Ballot, bool, []byte), func()) {
	iterFunc, closeFunc := st.GetIterator(GetBallotKeyPrefix(election), options)

	return (func() (*Ballot, bool, []byte) {
			item, hasNext := iterFunc()
			if !hasNext {
				return nil, false, item.Key
			}

			var b Ballot
			common.MustUnmarshalJSON(item.Value, &b)
			return &b, hasNext, item.Key
		}), (func() {
			closeFunc()
		})
}
