package api

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"boscoin.io/agora/lib/common"
	"boscoin.io/agora/lib/errors"
	"boscoin.io/agora/lib/node/runner/api/resource"
	"boscoin.io/agora/lib/storage"
)

const (
	DefaultLimit uint64 = 20
	MaxLimit     uint64 = 100
)

// PageQuery reads the paging controls of a list request, `reverse`,
// `cursor` and `limit`, and renders the paging links of the response.
type PageQuery struct {
	request *http.Request
	cursor  []byte
	reverse bool
	limit   uint64

	encodeCursor bool // cursors travel base64 encoded
}

type PageQueryOption func(*PageQuery)

// WithEncodePageCursor turns base64 cursor encoding off, for endpoints
// whose cursors are plain printable keys.
func WithEncodePageCursor(ok bool) PageQueryOption {
	return func(p *PageQuery) {
		p.encodeCursor = ok
	}
}

// WithDefaultReverse sets the iteration order used when the request
// does not name one.
func WithDefaultReverse(ok bool) PageQueryOption {
	return func(p *PageQuery) {
		p.reverse = ok
	}
}

func NewPageQuery(r *http.Request, opts ...PageQueryOption) (*PageQuery, error) {
	p := &PageQuery{
		request:      r,
		limit:        DefaultLimit,
		encodeCursor: true,
	}
	for _, o := range opts {
		o(p)
	}
	if err := p.parseRequest(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *PageQuery) Limit() uint64 {
	return p.limit
}

func (p *PageQuery) Reverse() bool {
	return p.reverse
}

func (p *PageQuery) Cursor() []byte {
	return p.cursor
}

func (p *PageQuery) SelfLink() string {
	return p.request.URL.String()
}

func (p *PageQuery) PrevLink(cursor []byte) string {
	return p.link(cursor, true)
}

func (p *PageQuery) NextLink(cursor []byte) string {
	return p.link(cursor, false)
}

func (p *PageQuery) link(cursor []byte, reverse bool) string {
	return fmt.Sprintf("%s?%s", p.request.URL.Path, p.urlValues(cursor, reverse).Encode())
}

func (p *PageQuery) ListOptions() storage.ListOptions {
	return storage.NewDefaultListOptions(p.reverse, p.cursor, p.limit)
}

// ResourceList wraps rs with the paging links. firstCursor and
// lastCursor belong to the first and last rendered record.
func (p *PageQuery) ResourceList(rs []resource.Resource, firstCursor, lastCursor []byte) *resource.ResourceList {
	if p.reverse {
		return resource.NewResourceList(rs, p.SelfLink(), p.NextLink(firstCursor), p.PrevLink(lastCursor))
	}
	return resource.NewResourceList(rs, p.SelfLink(), p.NextLink(lastCursor), p.PrevLink(firstCursor))
}

func (p *PageQuery) parseRequest() error {
	q := p.request.URL.Query()

	if r := q.Get("reverse"); r != "" {
		reverse, err := common.ParseBoolQueryString(r)
		if err != nil {
			return err
		}
		p.reverse = reverse
	}

	if c := q.Get("cursor"); c != "" {
		p.cursor = []byte(c)
		if p.encodeCursor {
			// an undecodable cursor is taken as it came
			if bs, err := base64.StdEncoding.DecodeString(c); err == nil {
				p.cursor = bs
			}
		}
	}

	if l := q.Get("limit"); l != "" {
		limit, err := strconv.ParseUint(l, 10, 64)
		if err != nil {
			return err
		}
		if limit > MaxLimit {
			return errors.PageQueryLimitMaxExceed
		}
		p.limit = limit
	}

	return nil
}

func (p PageQuery) urlValues(cursor []byte, reverse bool) url.Values {
	v := url.Values{
		"reverse": []string{strconv.FormatBool(reverse)},
	}

	if len(cursor) > 0 {
		if p.encodeCursor {
			v.Set("cursor", base64.StdEncoding.EncodeToString(cursor))
		} else {
			v.Set("cursor", string(cursor))
		}
	}
	if p.limit > 0 {
		v.Set("limit", strconv.FormatUint(p.limit, 10))
	}

	return v
}
