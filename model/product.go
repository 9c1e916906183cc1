package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Product is a catalog product and, once in the cart, a line item.
// Amount is only meaningful for line items. Fields the catalog sends beyond
// the typed ones are kept verbatim in Extra and written back out.
type Product struct {
	ID     int64           `json:"id"`
	Title  string          `json:"title"`
	Price  decimal.Decimal `json:"price"`
	Image  string          `json:"image"`
	Amount int             `json:"amount"`

	Extra map[string]json.RawMessage `json:"-"`
}

var productKeys = []string{"id", "title", "price", "image", "amount"}

func isProductKey(k string) bool {
	for _, known := range productKeys {
		if strings.EqualFold(k, known) {
			return true
		}
	}
	return false
}

// productFields has Product's layout without its JSON methods.
type productFields Product

func (p *Product) UnmarshalJSON(data []byte) error {
	var known productFields
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for k, v := range all {
		if isProductKey(k) {
			delete(all, k)
			continue
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, v); err != nil {
			return err
		}
		all[k] = buf.Bytes()
	}
	if len(all) == 0 {
		all = nil
	}
	known.Extra = all
	*p = Product(known)
	return nil
}

// MarshalJSON writes the typed fields over Extra. Price is a JSON number, as
// the catalog serves it.
func (p Product) MarshalJSON() ([]byte, error) {
	fields := make(map[string]json.RawMessage, len(p.Extra)+len(productKeys))
	for k, v := range p.Extra {
		if !isProductKey(k) {
			fields[k] = v
		}
	}

	title, err := json.Marshal(p.Title)
	if err != nil {
		return nil, err
	}
	image, err := json.Marshal(p.Image)
	if err != nil {
		return nil, err
	}
	fields["id"] = json.RawMessage(strconv.FormatInt(p.ID, 10))
	fields["title"] = title
	fields["price"] = json.RawMessage(p.Price.String())
	fields["image"] = image
	fields["amount"] = json.RawMessage(strconv.Itoa(p.Amount))

	return json.Marshal(fields)
}

// Subtotal is price times amount.
func (p Product) Subtotal() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Amount)))
}

// Stock is the remote availability of one product.
type Stock struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}

// UpdateProductAmount asks for a line item's amount to be set to Amount.
type UpdateProductAmount struct {
	ProductID int64 `json:"product_id"`
	Amount    int   `json:"amount"`
}

var (
	ErrInvalidAmount = errors.New("line item amount must be >= 1")
	ErrDuplicateItem = errors.New("product appears more than once")
)

// Cart is the ordered list of line items, in first-added order.
type Cart []Product

// Clone returns a copy that shares nothing mutable with c.
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	for i := range out {
		if out[i].Extra == nil {
			continue
		}
		extra := make(map[string]json.RawMessage, len(out[i].Extra))
		for k, v := range out[i].Extra {
			extra[k] = v
		}
		out[i].Extra = extra
	}
	return out
}

// Index returns the position of productID, or -1.
func (c Cart) Index(productID int64) int {
	for i, p := range c {
		if p.ID == productID {
			return i
		}
	}
	return -1
}

// Validate checks the line item invariants.
func (c Cart) Validate() error {
	seen := make(map[int64]struct{}, len(c))
	for _, p := range c {
		if p.Amount < 1 {
			return fmt.Errorf("product %d: %w", p.ID, ErrInvalidAmount)
		}
		if _, ok := seen[p.ID]; ok {
			return fmt.Errorf("product %d: %w", p.ID, ErrDuplicateItem)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

// Equal reports whether both carts hold the same items in the same order.
func (c Cart) Equal(other Cart) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		a, b := c[i], other[i]
		if a.ID != b.ID || a.Title != b.Title || a.Image != b.Image || a.Amount != b.Amount || !a.Price.Equal(b.Price) {
			return false
		}
		if !equalExtra(a.Extra, b.Extra) {
			return false
		}
	}
	return true
}

func equalExtra(a, b map[string]json.RawMessage) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		w, ok := b[k]
		if !ok || !bytes.Equal(v, w) {
			return false
		}
	}
	return true
}

// Total sums every line item's subtotal.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, p := range c {
		total = total.Add(p.Subtotal())
	}
	return total
}

// Amounts maps product id to amount in cart. The product listing uses it to
// badge each product.
func (c Cart) Amounts() map[int64]int {
	out := make(map[int64]int, len(c))
	for _, p := range c {
		out[p.ID] = p.Amount
	}
	return out
}

// Count is the number of distinct products in the cart.
func (c Cart) Count() int {
	return len(c)
}
