package service

import (
	"context"

	"salao/terminal/internal/domain"

	"golang.org/x/sync/errgroup"
)

type ReferenceData struct {
	Products  []domain.Product
	Tables    []domain.Table
	Customers []domain.Customer

	// RejectedTables holds the ids of tables left out for an unknown status.
	RejectedTables []string
}

func (r *ReferenceData) Table(id string) (domain.Table, bool) {
	for _, t := range r.Tables {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Table{}, false
}

type Loader struct {
	api API
}

func NewLoader(api API) *Loader {
	return &Loader{api: api}
}

// Load fetches products, tables and customers concurrently. The first
// failure cancels the other requests. Only available products are kept, and
// tables with a status the terminal does not know are left out.
func (l *Loader) Load(ctx context.Context) (*ReferenceData, error) {
	var (
		products  []domain.Product
		tables    domain.TableList
		customers []domain.Customer
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return l.api.Get(gctx, "/customers", nil, &customers)
	})
	g.Go(func() error {
		return l.api.Get(gctx, "/tables", nil, &tables)
	})
	g.Go(func() error {
		return l.api.Get(gctx, "/products", nil, &products)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &ReferenceData{
		Products:       AvailableProducts(products),
		Tables:         tables.Tables,
		Customers:      customers,
		RejectedTables: tables.Rejected,
	}, nil
}
