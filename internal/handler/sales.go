package handler

import (
	"net/http"
	"strconv"
	"time"

	"stockdesk/internal/apierror"
	"stockdesk/internal/dto"
	"stockdesk/internal/service"

	"github.com/gin-gonic/gin"
)

// SalesHandler renders CSV timestamps in loc, the zone report days are cut in.
type SalesHandler struct {
	svc service.SaleService
	loc *time.Location
}

func NewSalesHandler(svc service.SaleService, loc *time.Location) *SalesHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &SalesHandler{svc: svc, loc: loc}
}

func (h *SalesHandler) Record(c *gin.Context) {
	var req dto.RecordSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Record(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Monthly lists the sales of ?year=&month=.
func (h *SalesHandler) Monthly(c *gin.Context) {
	year, ok := queryInt(c, "year")
	if !ok {
		return
	}
	month, ok := queryInt(c, "month")
	if !ok {
		return
	}
	sales, err := h.svc.MonthlySales(c.Request.Context(), year, month)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sales)
}

// History filters by ?start=, ?end= (YYYY-MM-DD, both inclusive) and
// ?product_id=, with ?format=csv for a download.
func (h *SalesHandler) History(c *gin.Context) {
	var filter dto.SaleFilter
	var ok bool
	if filter.Start, ok = queryDate(c, "start"); !ok {
		return
	}
	if filter.End, ok = queryDate(c, "end"); !ok {
		return
	}
	if raw := c.Query("product_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New(`query parameter "product_id" must be an integer`))
			return
		}
		pid := uint(id)
		filter.ProductID = &pid
	}

	resp, err := h.svc.History(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	if !wantsCSV(c) {
		c.JSON(http.StatusOK, resp)
		return
	}
	writeCSV(c, "sales_history.csv", saleCSVHeader, saleRows(resp.Sales, h.loc))
}

var saleCSVHeader = []string{"sale_id", "sale_date", "product_id", "product_name", "quantity",
	"sale_price", "cost_price", "revenue", "profit"}

func saleRows(sales []dto.SaleResponse, loc *time.Location) [][]string {
	rows := make([][]string, 0, len(sales))
	for _, s := range sales {
		rows = append(rows, []string{
			utoa(s.ID), s.SaleDate.In(loc).Format("2006-01-02 15:04:05"), utoa(s.ProductID), s.ProductName,
			itoa(s.Quantity), money(s.SalePrice), money(s.CostPrice), money(s.Revenue), money(s.Profit),
		})
	}
	return rows
}
