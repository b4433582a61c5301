package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	"liberia/internal/external"
	"liberia/internal/mapping"
	"liberia/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	count     = flag.Int("count", 10, "Number of orders to generate")
	startID   = flag.Int64("start-id", 90000, "First order id")
	seed      = flag.Int64("seed", 0, "Random seed (0 = time based)")
	postURL   = flag.String("post", "", "Webhook URL to deliver the orders to; prints them when empty")
	secret    = flag.String("secret", os.Getenv("WOO_WEBHOOK_SECRET"), "Webhook secret used to sign deliveries")
	daysAhead = flag.Int("days", 30, "Trips fall within this many days from today")
)

var (
	hotels    = []string{"Hotel Riu Palace", "Hotel Riu Guanacaste", "Dreams Las Mareas", "Westin Conchal", "Hilton Papagayo"}
	names     = []string{"Ana", "Luis", "Marta", "John", "Emily", "Carlos", "Sofía", "Peter"}
	surnames  = []string{"López", "Smith", "Rojas", "Brown", "Vargas", "Miller"}
	airlines  = []string{"AA", "UA", "DL", "WN", "AV", "CM"}
	statuses  = []string{"processing", "processing", "on-hold", "completed", "pending"}
	tripTypes = []string{"Round Trip", "One way to hotel", "One way to airport"}
)

// OrderGenerator builds synthetic store orders shaped like real bookings.
type OrderGenerator struct {
	rnd  *rand.Rand
	next int64
	now  time.Time
}

func main() {
	flag.Parse()

	s := *seed
	if s == 0 {
		s = time.Now().UnixNano()
	}
	g := &OrderGenerator{rnd: rand.New(rand.NewSource(s)), next: *startID, now: time.Now()}

	slog.Info("Generating orders", "count", *count, "seed", s)

	client := &http.Client{Timeout: 15 * time.Second}
	delivered := 0
	for i := 0; i < *count; i++ {
		order := g.Order()

		if *postURL == "" {
			out, _ := json.MarshalIndent(order, "", "  ")
			fmt.Println(string(out))
			continue
		}

		if err := deliver(client, *postURL, *secret, order); err != nil {
			slog.Error("Failed to deliver order", "order_id", order.ID, "error", err)
			continue
		}
		delivered++
	}

	if *postURL != "" {
		slog.Info("Delivery finished", "delivered", delivered, "failed", *count-delivered)
		if delivered < *count {
			os.Exit(1)
		}
	}
}

// Order returns the next synthetic order.
func (g *OrderGenerator) Order() *models.WooOrder {
	id := g.next
	g.next++

	first := pick(g.rnd, names)
	last := pick(g.rnd, surnames)
	tripType := pick(g.rnd, tripTypes)
	pax := 1 + g.rnd.Intn(6)

	arrival := g.now.AddDate(0, 0, g.rnd.Intn(*daysAhead+1))
	departure := arrival.AddDate(0, 0, 3+g.rnd.Intn(10))

	itemMeta := []models.WooMeta{
		{Key: mapping.KeyTripType, Value: tripType},
		{Key: mapping.KeyPassengers, Value: strconv.Itoa(pax)},
	}
	if tripType != "One way to airport" {
		itemMeta = append(itemMeta,
			models.WooMeta{Key: mapping.KeyArrivalDate, Value: arrival.Format("01/02/2006")},
			models.WooMeta{Key: mapping.KeyArrivalTime, Value: g.clock(true)},
			models.WooMeta{Key: mapping.KeyArrivalFlight, Value: g.flight()},
		)
	}
	if tripType != "One way to hotel" {
		itemMeta = append(itemMeta,
			models.WooMeta{Key: mapping.KeyDepartureDate, Value: departure.Format("2006-01-02")},
			models.WooMeta{Key: mapping.KeyPickupTime, Value: g.clock(false)},
			models.WooMeta{Key: mapping.KeyDepartureFlight, Value: g.flight()},
		)
	}

	price := decimal.NewFromInt(int64(35 + 10*pax))
	if tripType == "Round Trip" {
		price = price.Mul(decimal.NewFromFloat(1.8)).Round(2)
	}
	tax := price.Mul(decimal.NewFromFloat(0.13)).Round(2)

	return &models.WooOrder{
		ID:          id,
		Status:      pick(g.rnd, statuses),
		DateCreated: g.now.Add(-time.Duration(g.rnd.Intn(72)) * time.Hour).UTC().Format("2006-01-02T15:04:05"),
		Billing: models.WooAddress{
			FirstName: first,
			LastName:  last,
			Email:     fmt.Sprintf("guest%d@example.com", id),
			Phone:     fmt.Sprintf("+1 555 %04d", g.rnd.Intn(10000)),
			Country:   "US",
		},
		PaymentMethodTitle: "Credit card",
		LineItems: []models.WooLineItem{{
			Name:     pick(g.rnd, hotels),
			Quantity: 1,
			Subtotal: models.Amount(price.StringFixed(2)),
			Total:    models.Amount(price.StringFixed(2)),
			MetaData: itemMeta,
		}},
		TaxLines: []models.WooTaxLine{{Label: "IVA", TaxTotal: models.Amount(tax.StringFixed(2))}},
		Total:    models.Amount(price.Add(tax).StringFixed(2)),
		MetaData: []models.WooMeta{
			{Key: mapping.KeyPrivacyEmail, Value: strconv.Itoa(g.rnd.Intn(2))},
		},
	}
}

// clock mixes 24h and 12h renderings the way the booking form does.
func (g *OrderGenerator) clock(twentyFour bool) string {
	h, m := g.rnd.Intn(24), 5*g.rnd.Intn(12)
	if twentyFour {
		return fmt.Sprintf("%02d:%02d", h, m)
	}
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, m, suffix)
}

func (g *OrderGenerator) flight() string {
	return fmt.Sprintf("%s %d", pick(g.rnd, airlines), 100+g.rnd.Intn(9000))
}

func pick(rnd *rand.Rand, options []string) string {
	return options[rnd.Intn(len(options))]
}

func deliver(client *http.Client, url, secret string, order *models.WooOrder) error {
	body, err := json.Marshal(order)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(external.HeaderWebhookTopic, "order.created")
	req.Header.Set(external.HeaderWebhookResource, "order")
	req.Header.Set(external.HeaderWebhookDeliveryID, uuid.NewString())
	if secret != "" {
		req.Header.Set(external.HeaderWebhookSignature, external.SignWebhook(body, secret))
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("webhook answered %d", resp.StatusCode)
	}
	return nil
}
