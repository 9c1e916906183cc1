package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func sneaker(id int64, price string, amount int) Product {
	return Product{
		ID:     id,
		Title:  "Tênis",
		Price:  decimal.RequireFromString(price),
		Image:  "https://example.com/shoe.jpg",
		Amount: amount,
	}
}

func TestCloneDoesNotShareItems(t *testing.T) {
	c := Cart{sneaker(1, "179.9", 1)}
	cp := c.Clone()
	cp[0].Amount = 4

	if c[0].Amount != 1 {
		t.Fatalf("clone mutated original: %+v", c[0])
	}
}

func TestIndex(t *testing.T) {
	c := Cart{sneaker(1, "10", 1), sneaker(5, "10", 2)}
	if got := c.Index(5); got != 1 {
		t.Fatalf("expected index 1, got %d", got)
	}
	if got := c.Index(9); got != -1 {
		t.Fatalf("expected -1 for absent product, got %d", got)
	}
}

func TestValidate(t *testing.T) {
	if err := (Cart{sneaker(1, "10", 1), sneaker(2, "10", 3)}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (Cart{sneaker(1, "10", 0)}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if err := (Cart{sneaker(1, "10", 1), sneaker(1, "10", 1)}).Validate(); !errors.Is(err, ErrDuplicateItem) {
		t.Fatalf("expected ErrDuplicateItem, got %v", err)
	}
}

func TestPricing(t *testing.T) {
	c := Cart{sneaker(1, "179.90", 2), sneaker(2, "139.90", 1)}

	if got := c[0].Subtotal(); !got.Equal(decimal.RequireFromString("359.80")) {
		t.Fatalf("unexpected subtotal %s", got)
	}
	if got := c.Total(); !got.Equal(decimal.RequireFromString("499.70")) {
		t.Fatalf("unexpected total %s", got)
	}
	if got := (Cart{}).Total(); !got.IsZero() {
		t.Fatalf("expected zero total for empty cart, got %s", got)
	}
	amounts := c.Amounts()
	if amounts[1] != 2 || amounts[2] != 1 || len(amounts) != 2 {
		t.Fatalf("unexpected amounts %v", amounts)
	}
	if c.Count() != 2 {
		t.Fatalf("expected count 2, got %d", c.Count())
	}
}

func TestEqual(t *testing.T) {
	a := Cart{sneaker(1, "179.9", 1)}
	b := Cart{sneaker(1, "179.90", 1)}
	if !a.Equal(b) {
		t.Fatalf("expected carts with equal prices to be equal")
	}
	b[0].Amount = 2
	if a.Equal(b) {
		t.Fatalf("expected different amounts to differ")
	}
	if a.Equal(Cart{}) {
		t.Fatalf("expected different lengths to differ")
	}
}

func TestProductKeepsUnknownFields(t *testing.T) {
	raw := []byte(`{"id":1,"title":"t","price":179.9,"image":"i","description":"leve","brand":{"name": "X"}}`)

	var p Product
	if err := json.Unmarshal(raw, &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.ID != 1 || p.Title != "t" || !p.Price.Equal(decimal.RequireFromString("179.9")) {
		t.Fatalf("typed fields not decoded: %+v", p)
	}
	if string(p.Extra["description"]) != `"leve"` || string(p.Extra["brand"]) != `{"name":"X"}` {
		t.Fatalf("unexpected extra fields: %v", p.Extra)
	}
	if _, ok := p.Extra["price"]; ok {
		t.Fatalf("typed fields must not be duplicated into Extra")
	}

	p.Amount = 1
	out, err := json.Marshal(Cart{p})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `[{"amount":1,"brand":{"name":"X"},"description":"leve","id":1,"image":"i","price":179.9,"title":"t"}]`
	if string(out) != want {
		t.Fatalf("unexpected encoding\n got %s\nwant %s", out, want)
	}

	var back Cart
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("unmarshal cart: %v", err)
	}
	if !back.Equal(Cart{p}) {
		t.Fatalf("round trip lost data: %+v", back)
	}
}

func TestProductWithoutExtrasHasNilExtra(t *testing.T) {
	var p Product
	if err := json.Unmarshal([]byte(`{"id":2,"title":"t","price":"10.5","image":"i"}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.Extra != nil {
		t.Fatalf("expected nil Extra, got %v", p.Extra)
	}
	if !p.Price.Equal(decimal.RequireFromString("10.5")) {
		t.Fatalf("quoted prices from older snapshots must still decode, got %s", p.Price)
	}
}

func TestEqualComparesExtra(t *testing.T) {
	a := sneaker(1, "10", 1)
	a.Extra = map[string]json.RawMessage{"description": json.RawMessage(`"leve"`)}
	b := sneaker(1, "10", 1)

	if (Cart{a}).Equal(Cart{b}) {
		t.Fatalf("expected carts with different extras to differ")
	}
	c := (Cart{a}).Clone()
	c[0].Extra["description"] = json.RawMessage(`"pesado"`)
	if string(a.Extra["description"]) != `"leve"` {
		t.Fatalf("clone shares Extra with original")
	}
}
