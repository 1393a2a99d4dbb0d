package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	neturl "net/url"
	"strings"

	"github.com/pkg/errors"

	"boscoin.io/agora/lib/common"
	"boscoin.io/agora/lib/common/observer"
	"boscoin.io/agora/lib/node"
)

const (
	UrlPrefixForAPIV1 = "/api/v1"

	UrlRegistry          = "/registries/{id}"
	UrlVoter             = "/registries/{id}/voters/{address}"
	UrlFactory           = "/factories/{id}"
	UrlFactoryElections  = "/factories/{id}/elections"
	UrlElection          = "/elections/{id}"
	UrlElectionOptions   = "/elections/{id}/options"
	UrlElectionBallots   = "/elections/{id}/ballots"
	UrlElectionResults   = "/elections/{id}/results"
	UrlBallotByVoter     = "/elections/{id}/ballots/{address}"
	UrlOperations        = "/operations"
	UrlOperationByHash   = "/operations/{id}"
	UrlAccountOperations = "/accounts/{id}/operations"
	UrlSubscribe         = "/subscribe"
)

type QueryKey string

func (qk QueryKey) String() string {
	return string(qk)
}

const (
	QueryLimit   QueryKey = "limit"
	QueryReverse QueryKey = "reverse"
	QueryCursor  QueryKey = "cursor"
	QueryType    QueryKey = "type"
)

type Q struct {
	Key   QueryKey
	Value string
}

type Queries []Q

func (qs Queries) toQueryString() string {
	if len(qs) == 0 {
		return ""
	}
	urlValues := neturl.Values{}
	for _, q := range qs {
		switch q.Key {
		case QueryLimit, QueryReverse, QueryCursor, QueryType:
			urlValues.Add(q.Key.String(), q.Value)
		}
	}
	return "?" + urlValues.Encode()
}

// Client talks to the versioned HTTP API of one node. The transport
// retries transient failures, so a flaky connection does not surface as a
// failed read.
type Client struct {
	URL string

	HTTP *common.HTTP2Client
}

func NewClient(url string) *Client {
	httpClient, err := common.NewPersistentHTTP2Client(0, 0, true, common.DefaultRetrySetting())
	if err != nil {
		panic(err)
	}
	return &Client{
		URL:  url,
		HTTP: httpClient,
	}
}

// toResponse drains the answer into `response`. Non-2xx answers decode
// into a Problem, which comes back as the error.
func (c *Client) toResponse(resp *http.Response, response interface{}) error {
	defer resp.Body.Close()
	decoder := json.NewDecoder(resp.Body)

	if !(resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices) {
		var p Problem
		if err := decoder.Decode(&p); err != nil {
			return errors.Wrapf(err, "request answered %d with an unreadable body", resp.StatusCode)
		}
		return p
	}

	if err := decoder.Decode(response); err != nil {
		return errors.Wrap(err, "decode answer")
	}
	return nil
}

func (c *Client) Get(path string, headers http.Header) (*http.Response, error) {
	url := c.URL + UrlPrefixForAPIV1 + path
	return c.HTTP.Get(url, headers)
}

func (c *Client) Post(path string, body []byte, headers http.Header) (*http.Response, error) {
	url := c.URL + UrlPrefixForAPIV1 + path
	return c.HTTP.Post(url, body, headers)
}

func (c *Client) get(path string, response interface{}) error {
	headers := http.Header{}
	headers.Set("Accept", "application/json")
	resp, err := c.Get(path, headers)
	if err != nil {
		return errors.Wrapf(err, "GET %s", path)
	}
	return c.toResponse(resp, response)
}

func (c *Client) Registry(id string) (registry Registry, err error) {
	url := strings.Replace(UrlRegistry, "{id}", id, -1)
	err = c.get(url, &registry)
	return
}

func (c *Client) Voter(registry, address string) (voter Voter, err error) {
	url := strings.Replace(UrlVoter, "{id}", registry, -1)
	url = strings.Replace(url, "{address}", address, -1)
	err = c.get(url, &voter)
	return
}

func (c *Client) Factory(id string) (factory Factory, err error) {
	url := strings.Replace(UrlFactory, "{id}", id, -1)
	err = c.get(url, &factory)
	return
}

// DeployedElections pages through the elections one factory has deployed,
// oldest first unless reversed.
func (c *Client) DeployedElections(id string, queries ...Q) (ePage ElectionsPage, err error) {
	url := strings.Replace(UrlFactoryElections, "{id}", id, -1)
	url += Queries(queries).toQueryString()
	err = c.get(url, &ePage)
	return
}

func (c *Client) Election(id string) (election Election, err error) {
	url := strings.Replace(UrlElection, "{id}", id, -1)
	err = c.get(url, &election)
	return
}

func (c *Client) Options(id string) (options []Option, err error) {
	url := strings.Replace(UrlElectionOptions, "{id}", id, -1)
	err = c.get(url, &options)
	return
}

func (c *Client) Ballots(id string, queries ...Q) (bPage BallotsPage, err error) {
	url := strings.Replace(UrlElectionBallots, "{id}", id, -1)
	url += Queries(queries).toQueryString()
	err = c.get(url, &bPage)
	return
}

// EncryptedVote reads the stored ballot of one voter. The bundle stays
// encrypted; only the holder of the election key can open it.
func (c *Client) EncryptedVote(id, voter string) (ballot Ballot, err error) {
	url := strings.Replace(UrlBallotByVoter, "{id}", id, -1)
	url = strings.Replace(url, "{address}", voter, -1)
	err = c.get(url, &ballot)
	return
}

// Results fails with a Problem until the election manager has published.
func (c *Client) Results(id string) (results Results, err error) {
	url := strings.Replace(UrlElectionResults, "{id}", id, -1)
	err = c.get(url, &results)
	return
}

func (c *Client) Operation(hash string) (op Operation, err error) {
	url := strings.Replace(UrlOperationByHash, "{id}", hash, -1)
	err = c.get(url, &op)
	return
}

func (c *Client) Operations(queries ...Q) (oPage OperationsPage, err error) {
	url := UrlOperations + Queries(queries).toQueryString()
	err = c.get(url, &oPage)
	return
}

func (c *Client) OperationsBySource(source string, queries ...Q) (oPage OperationsPage, err error) {
	url := strings.Replace(UrlAccountOperations, "{id}", source, -1)
	url += Queries(queries).toQueryString()
	err = c.get(url, &oPage)
	return
}

// SubmitOperation posts one signed envelope and answers with the record
// the node stored for it. Rejections come back as a Problem carrying the
// error code of the failed check.
func (c *Client) SubmitOperation(body []byte) (op Operation, err error) {
	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	resp, err := c.Post(UrlOperations, body, headers)
	if err != nil {
		return op, errors.Wrap(err, "submit operation")
	}
	err = c.toResponse(resp, &op)
	return
}

// NodeInfo reads the root endpoint, which lives outside the versioned
// prefix.
func (c *Client) NodeInfo() (nodeInfo node.NodeInfo, err error) {
	headers := http.Header{}
	headers.Set("Accept", "application/json")
	resp, err := c.HTTP.Get(c.URL+"/", headers)
	if err != nil {
		return nodeInfo, errors.Wrap(err, "node info")
	}
	err = c.toResponse(resp, &nodeInfo)
	return
}

// Stream follows one resource endpoint as newline separated json. The
// handler sees one payload per line; returning an error stops the stream.
// Cancelling the context closes the connection and returns nil.
func (c *Client) Stream(ctx context.Context, theUrl string, cursor *string, handler func(data []byte) error) error {
	if cursor != nil {
		query := neturl.Values{}
		query.Set("cursor", *cursor)
		theUrl += "?" + query.Encode()
	}

	request, err := http.NewRequest("GET", c.URL+UrlPrefixForAPIV1+theUrl, nil)
	if err != nil {
		return err
	}
	request.Header.Set("Accept", "text/event-stream")
	request = request.WithContext(ctx)

	resp, err := c.HTTP.Do(request)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return errors.Wrapf(err, "GET %s", theUrl)
	}
	defer resp.Body.Close()

	if !(resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices) {
		var p Problem
		if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
			return errors.Wrapf(err, "stream answered %d with an unreadable body", resp.StatusCode)
		}
		return p
	}

	return c.readStream(ctx, resp, handler)
}

func (c *Client) readStream(ctx context.Context, resp *http.Response, handler func(data []byte) error) error {
	reader := bufio.NewReader(resp.Body)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			// the transport closes the body when the context is cancelled
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		if err := handler(line); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		default:
		}
	}
}

func (c *Client) StreamVoter(ctx context.Context, registry, address string, handler func(Voter)) error {
	url := strings.Replace(UrlVoter, "{id}", registry, -1)
	url = strings.Replace(url, "{address}", address, -1)
	handlerFunc := func(b []byte) error {
		var v Voter
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		handler(v)
		return nil
	}
	return c.Stream(ctx, url, nil, handlerFunc)
}

func (c *Client) StreamElection(ctx context.Context, id string, handler func(Election)) error {
	url := strings.Replace(UrlElection, "{id}", id, -1)
	handlerFunc := func(b []byte) error {
		var v Election
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		handler(v)
		return nil
	}
	return c.Stream(ctx, url, nil, handlerFunc)
}

// StreamDeployedElections replays the elections of one factory, then keeps
// delivering every election the factory deploys or updates.
func (c *Client) StreamDeployedElections(ctx context.Context, id string, cursor *string, handler func(Election)) error {
	url := strings.Replace(UrlFactoryElections, "{id}", id, -1)
	handlerFunc := func(b []byte) error {
		var v Election
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		handler(v)
		return nil
	}
	return c.Stream(ctx, url, cursor, handlerFunc)
}

// StreamBallots replays the stored ballots of one election from the
// cursor, then keeps delivering ballots as they are cast.
func (c *Client) StreamBallots(ctx context.Context, id string, cursor *string, handler func(Ballot)) error {
	url := strings.Replace(UrlElectionBallots, "{id}", id, -1)
	handlerFunc := func(b []byte) error {
		var v Ballot
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		handler(v)
		return nil
	}
	return c.Stream(ctx, url, cursor, handlerFunc)
}

func (c *Client) StreamOperationsBySource(ctx context.Context, source string, cursor *string, handler func(Operation)) error {
	url := strings.Replace(UrlAccountOperations, "{id}", source, -1)
	handlerFunc := func(b []byte) error {
		var v Operation
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		handler(v)
		return nil
	}
	return c.Stream(ctx, url, cursor, handlerFunc)
}

// Subscribe opens the firehose endpoint for the given events. Payload
// shape differs per event, so the handler gets raw json lines.
func (c *Client) Subscribe(ctx context.Context, handler func(data []byte) error, events ...observer.Event) error {
	body, err := json.Marshal([]observer.Subscribe{observer.NewSubscribe(events...)})
	if err != nil {
		return err
	}

	request, err := http.NewRequest("POST", c.URL+UrlPrefixForAPIV1+UrlSubscribe, bytes.NewReader(body))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "text/event-stream")
	request = request.WithContext(ctx)

	resp, err := c.HTTP.Do(request)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return errors.Wrap(err, "subscribe")
	}
	defer resp.Body.Close()

	if !(resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices) {
		var p Problem
		if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
			return errors.Wrapf(err, "subscribe answered %d with an unreadable body", resp.StatusCode)
		}
		return p
	}

	return c.readStream(ctx, resp, handler)
}
