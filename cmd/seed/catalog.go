package main

import (
	"context"
	"fmt"
	"io"

	"stockdesk/internal/dto"
	"stockdesk/internal/service"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type catalog struct {
	Products []catalogItem `yaml:"products"`
}

type catalogItem struct {
	Name         string  `yaml:"name"`
	BuyingPrice  string  `yaml:"buying_price"`
	SellingPrice string  `yaml:"selling_price"`
	Stock        int     `yaml:"stock"`
	ReorderLevel *int    `yaml:"reorder_level"`
	ImageURL     *string `yaml:"image_url"`
}

// readCatalog decodes and validates every entry before anything is written.
func readCatalog(r io.Reader) ([]dto.CreateProductRequest, error) {
	var c catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	reqs := make([]dto.CreateProductRequest, 0, len(c.Products))
	for i, it := range c.Products {
		if it.Name == "" {
			return nil, fmt.Errorf("product %d: name is required", i+1)
		}
		buy, err := decimal.NewFromString(it.BuyingPrice)
		if err != nil {
			return nil, fmt.Errorf("product %q: buying_price: %w", it.Name, err)
		}
		sell, err := decimal.NewFromString(it.SellingPrice)
		if err != nil {
			return nil, fmt.Errorf("product %q: selling_price: %w", it.Name, err)
		}
		if it.Stock < 0 {
			return nil, fmt.Errorf("product %q: stock must not be negative", it.Name)
		}
		reqs = append(reqs, dto.CreateProductRequest{
			Name:         it.Name,
			BuyingPrice:  buy,
			SellingPrice: sell,
			CurrentStock: it.Stock,
			ReorderLevel: it.ReorderLevel,
			ImageURL:     it.ImageURL,
		})
	}
	return reqs, nil
}

// seed adds each product in order and stops at the first failure.
func seed(ctx context.Context, svc service.ProductService, reqs []dto.CreateProductRequest) (int, error) {
	for i, req := range reqs {
		if _, err := svc.Create(ctx, req); err != nil {
			return i, fmt.Errorf("add %q: %w", req.Name, err)
		}
	}
	return len(reqs), nil
}
