package service

import (
	"salao/terminal/internal/domain"
)

type ViewFilter struct {
	Search     string
	Categories []string
}

type ProductView struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Price        float64       `json:"price"`
	Stock        int           `json:"stock"`
	ImageURL     string        `json:"image_url,omitempty"`
	Quantity     int           `json:"quantity"`
	Course       domain.Course `json:"course"`
	CanDecrement bool          `json:"can_decrement"`
	CanIncrement bool          `json:"can_increment"`
}

type GroupView struct {
	Category string        `json:"category"`
	Products []ProductView `json:"products"`
}

type SummaryLine struct {
	ProductID string        `json:"product_id"`
	Name      string        `json:"name"`
	Quantity  int           `json:"quantity"`
	Course    domain.Course `json:"course"`
	Subtotal  float64       `json:"subtotal"`
}

type TableOption struct {
	ID     string             `json:"id"`
	Number int                `json:"number"`
	Status domain.TableStatus `json:"status"`
}

// DraftView is everything a display needs to render a draft.
type DraftView struct {
	ID                 string        `json:"id"`
	State              DraftState    `json:"state"`
	Error              string        `json:"error,omitempty"`
	Search             string        `json:"search"`
	Categories         []string      `json:"categories"`
	SelectedCategories []string      `json:"selected_categories"`
	Groups             []GroupView   `json:"groups"`
	Summary            []SummaryLine `json:"summary"`
	Tables             []TableOption `json:"tables"`
	TableID            string        `json:"table_id"`
	Seat               string        `json:"seat"`
	SeatOptions        []string      `json:"seat_options"`
	CustomerName       string        `json:"customer_name"`
	Note               string        `json:"note"`
	Prepare            bool          `json:"prepare"`
	Total              float64       `json:"total"`
	Submitting         bool          `json:"submitting"`
}

// View renders the draft through filter. Filtering only narrows the product
// groups; the summary and total always cover every line item.
func (d *Draft) View(filter ViewFilter) DraftView {
	d.mu.Lock()
	defer d.mu.Unlock()

	view := DraftView{
		ID:                 d.ID,
		State:              d.state,
		Error:              d.loadErr,
		Search:             filter.Search,
		SelectedCategories: filter.Categories,
		TableID:            d.tableID,
		Seat:               d.seat,
		CustomerName:       d.customerName,
		Note:               d.note,
		Prepare:            d.prepare,
		Submitting:         d.submitting,
	}
	if d.state != DraftReady {
		return view
	}

	selected := make(map[string]bool, len(filter.Categories))
	for _, c := range filter.Categories {
		selected[c] = true
	}

	view.Categories = UniqueCategories(d.ref.Products)
	for _, group := range GroupByCategory(FilterProducts(d.ref.Products, filter.Search, selected)) {
		gv := GroupView{Category: group.Label}
		for _, p := range group.Products {
			item := d.items[d.index[p.ID]]
			gv.Products = append(gv.Products, ProductView{
				ID:           p.ID,
				Name:         p.Name,
				Price:        p.Price,
				Stock:        p.Stock,
				ImageURL:     p.ImageURL,
				Quantity:     item.Quantity,
				Course:       item.Course,
				CanDecrement: item.Quantity > 0,
				CanIncrement: item.Quantity < p.Stock,
			})
		}
		view.Groups = append(view.Groups, gv)
	}

	for _, item := range d.items {
		if item.Quantity <= 0 {
			continue
		}
		p := d.products[item.ProductID]
		view.Summary = append(view.Summary, SummaryLine{
			ProductID: item.ProductID,
			Name:      p.Name,
			Quantity:  item.Quantity,
			Course:    item.Course,
			Subtotal:  RoundCents(p.Price * float64(item.Quantity)),
		})
	}

	for _, t := range d.ref.Tables {
		view.Tables = append(view.Tables, TableOption{ID: t.ID, Number: t.Number, Status: t.Status})
	}
	view.SeatOptions = d.seatOptionsLocked()
	view.Total = RoundCents(Total(d.items, d.prices))
	return view
}
