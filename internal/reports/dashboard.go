// Package reports aggregates quotation rows into the sales dashboard.
package reports

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const (
	statusDraft    = "draft"
	statusAccepted = "accepted"
	statusRejected = "rejected"

	topClientsLimit = 5
)

// NoClientLabel names quotations without a client.
const NoClientLabel = "Sin cliente"

// Row is one visible quotation.
type Row struct {
	Total      float64
	Status     string
	ClientName string
	CreatedAt  time.Time
}

type MonthBucket struct {
	Month    string  `json:"month"` // YYYY-MM
	Cotizado float64 `json:"cotizado"`
	Ganado   float64 `json:"ganado"`
}

type ClientTotal struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}

type Dashboard struct {
	Cotizado     float64        `json:"cotizado"`
	Vendido      float64        `json:"vendido"`
	Conversion   float64        `json:"conversion"`
	Monthly      []MonthBucket  `json:"monthly"`
	StatusCounts map[string]int `json:"status_counts"`
	TopClients   []ClientTotal  `json:"top_clients"`
}

type bucket struct {
	month    string
	created  time.Time
	cotizado decimal.Decimal
	ganado   decimal.Decimal
}

// BuildDashboard aggregates rows in a single pass. Monthly buckets are
// ordered by the timestamp of the row that opened them.
func BuildDashboard(rows []Row) Dashboard {
	cotizado, vendido := decimal.Zero, decimal.Zero
	counts := map[string]int{statusDraft: 0, statusAccepted: 0, statusRejected: 0}
	buckets := map[string]*bucket{}
	var order []*bucket
	perClient := map[string]decimal.Decimal{}

	for _, r := range rows {
		total := decimal.NewFromFloat(r.Total)
		accepted := r.Status == statusAccepted
		cotizado = cotizado.Add(total)
		counts[r.Status]++

		key := r.CreatedAt.Format("2006-01")
		b, ok := buckets[key]
		if !ok {
			b = &bucket{month: key, created: r.CreatedAt}
			buckets[key] = b
			order = append(order, b)
		}
		b.cotizado = b.cotizado.Add(total)

		if accepted {
			vendido = vendido.Add(total)
			b.ganado = b.ganado.Add(total)
			name := r.ClientName
			if name == "" {
				name = NoClientLabel
			}
			perClient[name] = perClient[name].Add(total)
		}
	}

	d := Dashboard{
		Cotizado:     money(cotizado),
		Vendido:      money(vendido),
		StatusCounts: counts,
		Monthly:      make([]MonthBucket, 0, len(order)),
		TopClients:   make([]ClientTotal, 0, topClientsLimit),
	}
	if !cotizado.IsZero() {
		d.Conversion, _ = vendido.Div(cotizado).Mul(decimal.NewFromInt(100)).Round(1).Float64()
	}

	sort.SliceStable(order, func(i, j int) bool { return order[i].created.Before(order[j].created) })
	for _, b := range order {
		d.Monthly = append(d.Monthly, MonthBucket{Month: b.month, Cotizado: money(b.cotizado), Ganado: money(b.ganado)})
	}

	clients := make([]ClientTotal, 0, len(perClient))
	for name, total := range perClient {
		clients = append(clients, ClientTotal{Name: name, Total: money(total)})
	}
	sort.Slice(clients, func(i, j int) bool {
		if clients[i].Total != clients[j].Total {
			return clients[i].Total > clients[j].Total
		}
		return clients[i].Name < clients[j].Name
	})
	if len(clients) > topClientsLimit {
		clients = clients[:topClientsLimit]
	}
	d.TopClients = append(d.TopClients, clients...)
	return d
}

func money(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
