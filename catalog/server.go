package catalog

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/mux"

	"rocketcart/model"
)

// Seed is a json-server style catalog document.
type Seed struct {
	Products []model.Product `json:"products"`
	Stock    []model.Stock   `json:"stock"`
}

// LoadSeed reads a Seed from a JSON file.
func LoadSeed(path string) (Seed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, err
	}
	var seed Seed
	if err := json.Unmarshal(raw, &seed); err != nil {
		return Seed{}, fmt.Errorf("parse catalog seed %s: %w", path, err)
	}
	return seed, nil
}

type fixture struct {
	products map[int64]model.Product
	stock    map[int64]model.Stock
	order    []int64
}

// NewHandler serves a read-only catalog from seed:
//
//	GET /products
//	GET /products/{id}
//	GET /stock/{id}
func NewHandler(seed Seed) http.Handler {
	f := &fixture{
		products: make(map[int64]model.Product, len(seed.Products)),
		stock:    make(map[int64]model.Stock, len(seed.Stock)),
	}
	for _, p := range seed.Products {
		if _, dup := f.products[p.ID]; !dup {
			f.order = append(f.order, p.ID)
		}
		f.products[p.ID] = p
	}
	for _, s := range seed.Stock {
		f.stock[s.ID] = s
	}

	r := mux.NewRouter()
	r.HandleFunc("/products", f.listProducts).Methods("GET")
	r.HandleFunc("/products/{id:[0-9]+}", f.getProduct).Methods("GET")
	r.HandleFunc("/stock/{id:[0-9]+}", f.getStock).Methods("GET")
	return r
}

func (f *fixture) listProducts(w http.ResponseWriter, r *http.Request) {
	out := make([]model.Product, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.products[id])
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *fixture) getProduct(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	p, ok := f.products[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (f *fixture) getStock(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	s, ok := f.stock[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{})
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
