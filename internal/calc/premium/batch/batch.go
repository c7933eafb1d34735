// Package batch sizes many joints in one request.
package batch

import (
	"fmt"

	"Boltcalc/internal/apperr"
	"Boltcalc/internal/calc/pin"
	"Boltcalc/internal/material"
	"Boltcalc/internal/record"
)

type Input struct {
	Items []pin.Request `json:"items"`
}

type Item struct {
	Index   int            `json:"index"`
	Bolt    map[string]any `json:"bolt"`
	Summary record.Report  `json:"summary"`
	Result  pin.Result     `json:"result"`
}

type Result struct {
	Results []Item `json:"results"`
}

// Size sizes every item with its own fresh bolt. The first failure aborts
// the batch; the error names the item index.
func Size(e *pin.Engine, c *material.Catalog, items []pin.Request) (Result, error) {
	if len(items) == 0 {
		return Result{}, apperr.Validation("batch.Size", "no items")
	}
	out := Result{Results: make([]Item, 0, len(items))}
	for i, req := range items {
		item, err := SizeOne(e, c, req)
		if err != nil {
			return Result{}, fmt.Errorf("item %d: %w", i, err)
		}
		item.Index = i
		out.Results = append(out.Results, item)
	}
	return out, nil
}

func SizeOne(e *pin.Engine, c *material.Catalog, req pin.Request) (Item, error) {
	b, in, err := req.Build(c)
	if err != nil {
		return Item{}, err
	}
	res, err := e.Size(b, in)
	if err != nil {
		return Item{}, err
	}
	return Item{Bolt: b.CADRecord(), Summary: pin.Summary(b, res), Result: res}, nil
}
