package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"rocketcart/model"
)

// ErrCorrupt is returned by Load when a snapshot exists but is unreadable or
// breaks the line item invariants.
var ErrCorrupt = errors.New("cart snapshot is corrupt")

func encode(cart model.Cart) ([]byte, error) {
	if cart == nil {
		cart = model.Cart{}
	}
	return json.Marshal(cart)
}

func decode(payload []byte) (model.Cart, error) {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 {
		return model.Cart{}, nil
	}

	var cart model.Cart
	if err := json.Unmarshal(payload, &cart); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if cart == nil {
		return model.Cart{}, nil
	}
	if err := cart.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return cart, nil
}
