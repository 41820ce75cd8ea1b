package handler

import (
	"net/http"

	"stockdesk/internal/apierror"
	"stockdesk/internal/dto"
	"stockdesk/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductsHandler struct{ svc service.ProductService }

func NewProductsHandler(svc service.ProductService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List supports ?name=, ?low_stock=true and ?format=csv.
func (h *ProductsHandler) List(c *gin.Context) {
	var filter dto.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	products, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	if !wantsCSV(c) {
		c.JSON(http.StatusOK, products)
		return
	}

	rows := make([][]string, 0, len(products))
	for _, p := range products {
		image := ""
		if p.ImageURL != nil {
			image = *p.ImageURL
		}
		rows = append(rows, []string{
			utoa(p.ID), p.Name, money(p.BuyingPrice), money(p.SellingPrice),
			itoa(p.CurrentStock), itoa(p.ReorderLevel), image,
		})
	}
	writeCSV(c, "products.csv",
		[]string{"product_id", "name", "buying_price", "selling_price", "current_stock", "reorder_level", "image_url"},
		rows)
}

func (h *ProductsHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProductsHandler) StockAlerts(c *gin.Context) {
	resp, err := h.svc.StockAlerts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) PriceComparison(c *gin.Context) {
	resp, err := h.svc.PriceComparison(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if !wantsCSV(c) {
		c.JSON(http.StatusOK, resp)
		return
	}

	rows := make([][]string, 0, len(resp.Products))
	for _, r := range resp.Products {
		rows = append(rows, []string{
			utoa(r.ProductID), r.Name, money(r.BuyingPrice), money(r.SellingPrice),
			money(r.ProfitPerUnit), money(r.MarginPct), itoa(r.CurrentStock),
			money(r.StockValue), money(r.RetailValue), money(r.PotentialProfit),
		})
	}
	writeCSV(c, "price_comparison.csv",
		[]string{"product_id", "name", "buying_price", "selling_price", "profit_per_unit",
			"margin_pct", "current_stock", "stock_value", "retail_value", "potential_profit"},
		rows)
}
