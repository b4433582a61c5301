package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a money value as the store API sends it: usually a string ("12.50"),
// sometimes a bare number.
type Amount string

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	*a = Amount(data)
	return nil
}

// Decimal parses the amount, treating anything unparseable as zero.
func (a Amount) Decimal() decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(string(a)))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// AmountFromFloat formats a stored money column the way the store API does.
func AmountFromFloat(v float64) Amount {
	return Amount(decimal.NewFromFloat(v).StringFixed(2))
}

// WooMeta is one metadata entry. Value may be any JSON type.
type WooMeta struct {
	ID           int64  `json:"id,omitempty"`
	Key          string `json:"key"`
	Value        any    `json:"value"`
	DisplayKey   string `json:"display_key,omitempty"`
	DisplayValue any    `json:"display_value,omitempty"`
}

// StringValue renders Value as text. Objects and arrays come back as JSON.
func (m WooMeta) StringValue() string {
	switch v := m.Value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case json.Number:
		return v.String()
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

type WooAddress struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company,omitempty"`
	Address1  string `json:"address_1"`
	Address2  string `json:"address_2,omitempty"`
	City      string `json:"city"`
	State     string `json:"state,omitempty"`
	Postcode  string `json:"postcode,omitempty"`
	Country   string `json:"country"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

type WooLineItem struct {
	ID        int64     `json:"id,omitempty"`
	Name      string    `json:"name"`
	ProductID int64     `json:"product_id,omitempty"`
	Quantity  int       `json:"quantity"`
	Subtotal  Amount    `json:"subtotal"`
	Total     Amount    `json:"total,omitempty"`
	MetaData  []WooMeta `json:"meta_data,omitempty"`
}

type WooFeeLine struct {
	ID    int64  `json:"id,omitempty"`
	Name  string `json:"name"`
	Total Amount `json:"total"`
}

type WooTaxLine struct {
	ID       int64  `json:"id,omitempty"`
	Label    string `json:"label"`
	TaxTotal Amount `json:"tax_total"`
}

type WooCouponLine struct {
	ID       int64  `json:"id,omitempty"`
	Code     string `json:"code"`
	Discount Amount `json:"discount"`
}

// WooOrder is the order document exchanged with the store API. The frontend
// projection of a Reserva uses the same shape.
type WooOrder struct {
	ID                 int64           `json:"id"`
	Status             string          `json:"status"`
	DateCreated        string          `json:"date_created"`
	DateModified       string          `json:"date_modified,omitempty"`
	Billing            WooAddress      `json:"billing"`
	Shipping           WooAddress      `json:"shipping"`
	PaymentMethodTitle string          `json:"payment_method_title"`
	LineItems          []WooLineItem   `json:"line_items"`
	FeeLines           []WooFeeLine    `json:"fee_lines"`
	TaxLines           []WooTaxLine    `json:"tax_lines"`
	CouponLines        []WooCouponLine `json:"coupon_lines"`
	Total              Amount          `json:"total"`
	MetaData           []WooMeta       `json:"meta_data"`
}

// BillingUpdate carries the billing fields a staff edit may change.
type BillingUpdate struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty" binding:"omitempty,email"`
	Phone     *string `json:"phone,omitempty" binding:"omitempty,max=64"`
	Country   *string `json:"country,omitempty" binding:"omitempty,max=8"`
	Address1  *string `json:"address_1,omitempty"`
}

// OrderUpdate is the PUT body used to push local edits upstream.
type OrderUpdate struct {
	Status   string         `json:"status,omitempty"`
	Billing  *BillingUpdate `json:"billing,omitempty"`
	MetaData []WooMeta      `json:"meta_data,omitempty"`
}

// Empty reports whether the update would change nothing upstream.
func (u OrderUpdate) Empty() bool {
	return u.Status == "" && u.Billing == nil && len(u.MetaData) == 0
}
