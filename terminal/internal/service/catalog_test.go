package service_test

import (
	"testing"

	"salao/terminal/internal/domain"
	"salao/terminal/internal/service"

	"github.com/stretchr/testify/assert"
)

func TestTotal(t *testing.T) {
	prices := service.PriceList{"p1": 10, "p2": 2.5}

	tests := []struct {
		name  string
		items []service.LineItem
		want  float64
	}{
		{name: "empty", items: nil, want: 0},
		{
			name:  "sums positive quantities",
			items: []service.LineItem{{ProductID: "p1", Quantity: 3}, {ProductID: "p2", Quantity: 2}},
			want:  35,
		},
		{
			name:  "ignores zero quantities",
			items: []service.LineItem{{ProductID: "p1", Quantity: 0}, {ProductID: "p2", Quantity: 1}},
			want:  2.5,
		},
		{
			name:  "ignores unpriced products",
			items: []service.LineItem{{ProductID: "gone", Quantity: 4}, {ProductID: "p1", Quantity: 1}},
			want:  10,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, service.Total(testCase.items, prices))
		})
	}
}

func TestRoundCents(t *testing.T) {
	assert.Equal(t, 0.3, service.RoundCents(0.1+0.2))
	assert.Equal(t, 12.35, service.RoundCents(12.345000001))
}

func TestAvailableProducts(t *testing.T) {
	hidden := product("p2", "Vinho", "Bebidas", 80, 3)
	hidden.Available = false

	got := service.AvailableProducts([]domain.Product{product("p1", "Suco", "Bebidas", 8, 10), hidden})

	assert.Len(t, got, 1)
	assert.Equal(t, "p1", got[0].ID)
}

func TestFilterProducts(t *testing.T) {
	products := []domain.Product{
		product("p1", "Suco de Laranja", "Bebidas", 8, 10),
		product("p2", "Bolo de Laranja", "Sobremesas", 12, 4),
		product("p3", "Pão de queijo", "", 5, 20),
	}

	tests := []struct {
		name       string
		search     string
		categories map[string]bool
		want       []string
	}{
		{name: "no filter keeps everything", want: []string{"p1", "p2", "p3"}},
		{name: "search is case-insensitive", search: "LARANJA", want: []string{"p1", "p2"}},
		{name: "category narrows", categories: map[string]bool{"Bebidas": true}, want: []string{"p1"}},
		{name: "uncategorised falls under Outros", categories: map[string]bool{domain.UncategorizedLabel: true}, want: []string{"p3"}},
		{name: "search and category combine", search: "bolo", categories: map[string]bool{"Bebidas": true}, want: []string{}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			got := service.FilterProducts(products, testCase.search, testCase.categories)
			ids := []string{}
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, testCase.want, ids)
		})
	}
}

func TestGroupByCategory(t *testing.T) {
	products := []domain.Product{
		product("p1", "Suco", "Bebidas", 8, 10),
		product("p2", "Pudim", "Sobremesas", 9, 5),
		product("p3", "Água", "Bebidas", 4, 50),
		product("p4", "Pão", "", 5, 20),
	}

	groups := service.GroupByCategory(products)

	assert.Len(t, groups, 3)
	assert.Equal(t, "Bebidas", groups[0].Label)
	assert.Equal(t, "p1", groups[0].Products[0].ID)
	assert.Equal(t, "p3", groups[0].Products[1].ID)
	assert.Equal(t, "Sobremesas", groups[1].Label)
	assert.Equal(t, domain.UncategorizedLabel, groups[2].Label)

	assert.Equal(t, []string{"Bebidas", "Sobremesas", domain.UncategorizedLabel}, service.UniqueCategories(products))
}
