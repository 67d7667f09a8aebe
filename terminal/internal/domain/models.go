package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// UncategorizedLabel groups products that carry no category.
const UncategorizedLabel = "Outros"

type Category struct {
	ID      string `json:"_id"`
	Label   string `json:"categoria"`
	Enabled bool   `json:"habilitado"`
}

type Product struct {
	ID        string    `json:"_id"`
	Name      string    `json:"nome"`
	Price     float64   `json:"preco"`
	Stock     int       `json:"quantidadeEstoque"`
	Available bool      `json:"disponivel"`
	Category  *Category `json:"categoria,omitempty"`
	ImageURL  string    `json:"imagem,omitempty"`
}

func (p Product) CategoryLabel() string {
	if p.Category != nil && p.Category.Label != "" {
		return p.Category.Label
	}
	return UncategorizedLabel
}

type Seat struct {
	ID           string `json:"_id,omitempty"`
	Number       int    `json:"numeroAssento"`
	OccupantName string `json:"nomeCliente,omitempty"`
}

type Position struct {
	ID     string  `json:"_id,omitempty"`
	X      float64 `json:"pos_x"`
	Y      float64 `json:"pos_y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Table struct {
	ID             string      `json:"_id"`
	Number         int         `json:"numeroMesa"`
	Capacity       int         `json:"capacidade"`
	Shape          TableShape  `json:"formato,omitempty"`
	Status         TableStatus `json:"status"`
	Seats          []Seat      `json:"assentos,omitempty"`
	SeatSeparation bool        `json:"seatSeparation"`
	Position       []Position  `json:"posicao,omitempty"`
}

// TableList decodes a table listing. Tables whose status is missing or
// unknown are set aside in Rejected instead of failing the whole list.
type TableList struct {
	Tables   []Table
	Rejected []string
}

func (l *TableList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	l.Tables = make([]Table, 0, len(raw))
	l.Rejected = nil
	for _, item := range raw {
		var table Table
		if err := json.Unmarshal(item, &table); err != nil || !table.Status.Valid() {
			var ref struct {
				ID string `json:"_id"`
			}
			json.Unmarshal(item, &ref)
			l.Rejected = append(l.Rejected, ref.ID)
			continue
		}
		l.Tables = append(l.Tables, table)
	}
	return nil
}

type Customer struct {
	ID       string `json:"_id"`
	Name     string `json:"nome"`
	Phone    string `json:"telefone,omitempty"`
	Email    string `json:"email,omitempty"`
	Document string `json:"cpfCnpj,omitempty"`
}

type Reservation struct {
	ID           string    `json:"_id"`
	Status       string    `json:"status"`
	Date         time.Time `json:"dataReserva"`
	PartySize    int       `json:"numeroPessoas"`
	CustomerName string    `json:"nomeCliente"`
	Phone        string    `json:"telefoneCliente,omitempty"`
	Table        *Table    `json:"mesa,omitempty"`
}

// ProductRef is a product reference inside a stored order. The backend sends
// either the bare id or the populated product document.
type ProductRef struct {
	ID   string `json:"_id"`
	Name string `json:"nome,omitempty"`
}

func (r *ProductRef) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte(`"`)) {
		return json.Unmarshal(data, &r.ID)
	}
	type plain ProductRef
	return json.Unmarshal(data, (*plain)(r))
}

type OrderItem struct {
	Product  ProductRef `json:"product"`
	Quantity int        `json:"quantidade"`
	Course   Course     `json:"tipo"`
}

type Order struct {
	ID           string      `json:"_id"`
	Status       OrderStatus `json:"status"`
	Seat         string      `json:"assento,omitempty"`
	CustomerName string      `json:"nomeCliente,omitempty"`
	Note         string      `json:"observacao,omitempty"`
	Items        []OrderItem `json:"itens"`
	Total        float64     `json:"total"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// OrderTypeLocal is the only order type the terminal creates.
const OrderTypeLocal = "local"

type OrderPayloadItem struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantidade"`
	Course   Course `json:"tipo"`
}

type OrderPayload struct {
	OrderType    string             `json:"tipoPedido"`
	TableID      string             `json:"mesaId"`
	Seat         string             `json:"assento,omitempty"`
	Prepare      bool               `json:"preparar"`
	Items        []OrderPayloadItem `json:"itens"`
	CustomerName string             `json:"nomeCliente,omitempty"`
	Note         string             `json:"observacao"`
}

type User struct {
	ID    string `json:"_id"`
	Name  string `json:"nome"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

type KitchenTicketItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

// KitchenTicket is one course of a submitted order, routed to the station
// that prepares it.
type KitchenTicket struct {
	DraftID     string              `json:"draft_id"`
	TableID     string              `json:"table_id"`
	TableNumber int                 `json:"table_number"`
	Seat        string              `json:"seat,omitempty"`
	Course      Course              `json:"course"`
	Items       []KitchenTicketItem `json:"items"`
	Note        string              `json:"note,omitempty"`
	Prepare     bool                `json:"prepare"`
	CreatedAt   time.Time           `json:"created_at"`
}
