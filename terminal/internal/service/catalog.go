package service

import (
	"math"
	"strings"

	"salao/terminal/internal/domain"
)

// LineItem is the requested quantity and course of one product in a draft.
type LineItem struct {
	ProductID string        `json:"product"`
	Quantity  int           `json:"quantidade"`
	Course    domain.Course `json:"tipo"`
}

// PriceList maps product id to unit price.
type PriceList map[string]float64

func Prices(products []domain.Product) PriceList {
	prices := make(PriceList, len(products))
	for _, p := range products {
		prices[p.ID] = p.Price
	}
	return prices
}

// Total is the order value of items: the sum of quantity times price over
// every item with a positive quantity. Items whose product is not priced are
// ignored.
func Total(items []LineItem, prices PriceList) float64 {
	var total float64
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		if price, ok := prices[item.ProductID]; ok {
			total += price * float64(item.Quantity)
		}
	}
	return total
}

// RoundCents rounds a value in reais for display.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func AvailableProducts(products []domain.Product) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.Available {
			out = append(out, p)
		}
	}
	return out
}

// FilterProducts keeps the products whose name contains search
// (case-insensitive) and, when categories is non-empty, whose category label
// is one of them.
func FilterProducts(products []domain.Product, search string, categories map[string]bool) []domain.Product {
	term := strings.ToLower(strings.TrimSpace(search))
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if term != "" && !strings.Contains(strings.ToLower(p.Name), term) {
			continue
		}
		if len(categories) > 0 && !categories[p.CategoryLabel()] {
			continue
		}
		out = append(out, p)
	}
	return out
}

type CategoryGroup struct {
	Label    string           `json:"categoria"`
	Products []domain.Product `json:"produtos"`
}

// GroupByCategory groups products by category label. Groups appear in the
// order their label is first seen.
func GroupByCategory(products []domain.Product) []CategoryGroup {
	var groups []CategoryGroup
	index := make(map[string]int)
	for _, p := range products {
		label := p.CategoryLabel()
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, CategoryGroup{Label: label})
		}
		groups[i].Products = append(groups[i].Products, p)
	}
	return groups
}

func UniqueCategories(products []domain.Product) []string {
	seen := make(map[string]bool)
	var labels []string
	for _, p := range products {
		label := p.CategoryLabel()
		if !seen[label] {
			seen[label] = true
			labels = append(labels, label)
		}
	}
	return labels
}
