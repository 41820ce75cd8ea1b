package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"stockdesk/internal/apierror"
	"stockdesk/internal/service"

	"github.com/gin-gonic/gin"
)

const defaultReportMonths = 6

type ReportsHandler struct {
	svc service.ReportService
	loc *time.Location
}

func NewReportsHandler(svc service.ReportService, loc *time.Location) *ReportsHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportsHandler{svc: svc, loc: loc}
}

// Monthly returns the stats and sales of ?year=&month=; ?format=csv exports
// the sales list.
func (h *ReportsHandler) Monthly(c *gin.Context) {
	year, ok := queryInt(c, "year")
	if !ok {
		return
	}
	month, ok := queryInt(c, "month")
	if !ok {
		return
	}
	resp, err := h.svc.MonthlyReport(c.Request.Context(), year, month)
	if err != nil {
		respondError(c, err)
		return
	}
	if !wantsCSV(c) {
		c.JSON(http.StatusOK, resp)
		return
	}
	writeCSV(c, fmt.Sprintf("sales_%s.csv", resp.Stats.Period()), saleCSVHeader, saleRows(resp.Sales, h.loc))
}

// Stats returns ?months= (default 6) monthly aggregates ending this month.
func (h *ReportsHandler) Stats(c *gin.Context) {
	n, ok := monthsParam(c)
	if !ok {
		return
	}
	resp, err := h.svc.MultiMonthStats(c.Request.Context(), n)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportsHandler) Trends(c *gin.Context) {
	n, ok := monthsParam(c)
	if !ok {
		return
	}
	resp, err := h.svc.Trends(c.Request.Context(), n)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportsHandler) Dashboard(c *gin.Context) {
	resp, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func monthsParam(c *gin.Context) (int, bool) {
	raw := c.Query("months")
	if raw == "" {
		return defaultReportMonths, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(`query parameter "months" must be an integer`))
		return 0, false
	}
	return n, true
}
