package resource

import (
	"strings"

	"github.com/nvellon/hal"

	"boscoin.io/agora/lib/operation"
)

type Operation struct {
	rd *operation.Record
}

func NewOperation(rd *operation.Record) *Operation {
	o := &Operation{
		rd: rd,
	}
	return o
}

func (o Operation) Record() *operation.Record {
	return o.rd
}

func (o Operation) GetMap() hal.Entry {
	entry := hal.Entry{
		"hash":       o.rd.Hash,
		"source":     o.rd.Source,
		"type":       o.rd.Type,
		"sequence":   o.rd.Sequence,
		"body":       o.rd.Operation.B.Data,
		"applied_at": o.rd.AppliedAt,
	}

	if t, ok := o.rd.Operation.B.Data.(operation.Targetable); ok {
		entry["target"] = t.TargetAddress()
	}

	return entry
}

func (o Operation) Resource() *hal.Resource {
	r := hal.NewResource(o, o.LinkSelf())
	r.AddNewLink("account", strings.Replace(URLAccountOperations, "{id}", o.rd.Source, -1))
	return r
}

func (o Operation) LinkSelf() string {
	return strings.Replace(URLOperationByHash, "{id}", o.rd.Hash, -1)
}
