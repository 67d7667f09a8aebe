package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMissingTableStatus marks a table the backend sent without a status.
var ErrMissingTableStatus = errors.New("table has no status")

type TableStatus string

const (
	TableFree     TableStatus = "livre"
	TableOccupied TableStatus = "ocupada"
	TableReserved TableStatus = "reservada"
	TableDirty    TableStatus = "suja"
)

// ParseTableStatus accepts any casing; the backend is not consistent.
func ParseTableStatus(s string) (TableStatus, error) {
	switch TableStatus(strings.ToLower(strings.TrimSpace(s))) {
	case TableFree:
		return TableFree, nil
	case TableOccupied:
		return TableOccupied, nil
	case TableReserved:
		return TableReserved, nil
	case TableDirty:
		return TableDirty, nil
	}
	return "", fmt.Errorf("unknown table status %q", s)
}

func (s *TableStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseTableStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Valid reports whether s is one of the known statuses. A table decoded
// without a status field carries the zero value, which is not.
func (s TableStatus) Valid() bool {
	switch s {
	case TableFree, TableOccupied, TableReserved, TableDirty:
		return true
	}
	return false
}

// Transitions lists the statuses a table may move to from s. These are the
// actions a floor operator is offered for a table in that state.
func (s TableStatus) Transitions() []TableStatus {
	switch s {
	case TableFree:
		return []TableStatus{TableOccupied, TableReserved}
	case TableReserved:
		return []TableStatus{TableOccupied, TableFree}
	case TableOccupied:
		return []TableStatus{TableFree}
	case TableDirty:
		return []TableStatus{TableFree}
	}
	panic(fmt.Sprintf("domain: unhandled table status %q", string(s)))
}

func (s TableStatus) CanTransition(next TableStatus) bool {
	for _, allowed := range s.Transitions() {
		if allowed == next {
			return true
		}
	}
	return false
}

type TableShape string

const (
	ShapeSquare   TableShape = "quadrada"
	ShapeCircular TableShape = "circular"
)

func (s *TableShape) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch TableShape(strings.ToLower(raw)) {
	case ShapeCircular:
		*s = ShapeCircular
	case ShapeSquare, "":
		*s = ShapeSquare
	default:
		return fmt.Errorf("unknown table shape %q", raw)
	}
	return nil
}

// Course tags a line item for kitchen routing.
type Course string

const (
	CourseStarter Course = "entrada"
	CourseMain    Course = "prato principal"
	CourseDessert Course = "sobremesa"
)

var Courses = []Course{CourseStarter, CourseMain, CourseDessert}

func ParseCourse(s string) (Course, error) {
	switch Course(strings.ToLower(strings.TrimSpace(s))) {
	case CourseStarter:
		return CourseStarter, nil
	case CourseMain:
		return CourseMain, nil
	case CourseDessert:
		return CourseDessert, nil
	}
	return "", fmt.Errorf("unknown course %q", s)
}

func (c *Course) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseCourse(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c Course) Label() string {
	switch c {
	case CourseStarter:
		return "Entrada"
	case CourseMain:
		return "Prato Principal"
	case CourseDessert:
		return "Sobremesa"
	}
	panic(fmt.Sprintf("domain: unhandled course %q", string(c)))
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "Pendente"
	OrderPreparing OrderStatus = "Preparando"
	OrderReady     OrderStatus = "Pronto"
	OrderDelivered OrderStatus = "Entregue"
	OrderFinalized OrderStatus = "finalizado"
)

// OrderStages is the order board, left to right.
var OrderStages = []OrderStatus{OrderPending, OrderPreparing, OrderReady, OrderDelivered}

func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, status := range append(OrderStages, OrderFinalized) {
		if strings.EqualFold(string(status), strings.TrimSpace(s)) {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseOrderStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Next returns the stage after s on the board. Delivered and finalized
// orders have no next stage.
func (s OrderStatus) Next() (OrderStatus, bool) {
	switch s {
	case OrderPending:
		return OrderPreparing, true
	case OrderPreparing:
		return OrderReady, true
	case OrderReady:
		return OrderDelivered, true
	case OrderDelivered, OrderFinalized:
		return "", false
	}
	panic(fmt.Sprintf("domain: unhandled order status %q", string(s)))
}
