package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/LexDocket/internal/application/cascade"
	"github.com/turtacn/LexDocket/internal/application/deadlines"
	"github.com/turtacn/LexDocket/internal/domain/docket"
	"github.com/turtacn/LexDocket/pkg/errors"
	"github.com/turtacn/LexDocket/pkg/types/common"
)

// DocketHandler serves the deadline calculation and trigger cascade endpoints.
type DocketHandler struct {
	svc    *deadlines.Service
	engine *cascade.Engine
}

// NewDocketHandler wires the handler.
func NewDocketHandler(svc *deadlines.Service, engine *cascade.Engine) *DocketHandler {
	return &DocketHandler{svc: svc, engine: engine}
}

// RegisterRoutes mounts the handler under the given group.
func (h *DocketHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/calculate", h.Calculate)
	rg.GET("/holidays", h.Holidays)

	rg.POST("/triggers", h.CreateTrigger)
	rg.GET("/triggers/:id", h.GetTrigger)
	rg.POST("/triggers/:id/recalculate", h.Recalculate)
	rg.DELETE("/triggers/:id", h.DeleteTrigger)
	rg.GET("/triggers/:id/deadlines", h.ListDeadlines)
	rg.GET("/triggers/:id/export/ical", h.ExportICal)

	rg.GET("/deadlines/upcoming", h.UpcomingDeadlines)
	rg.GET("/deadlines/overdue", h.OverdueDeadlines)
	rg.POST("/deadlines/:id/complete", h.CompleteDeadline)
}

// Calculate runs a one-off deadline computation.
func (h *DocketHandler) Calculate(c *gin.Context) {
	var req deadlines.CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.InvalidParam("invalid calculation request").WithCause(err))
		return
	}
	result, err := h.svc.Calculate(req)
	if err != nil {
		writeError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, result)
}

// Holidays lists the holiday calendar for ?jurisdiction=&year=.
func (h *DocketHandler) Holidays(c *gin.Context) {
	jurisdiction := c.Query("jurisdiction")
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		writeError(c, errors.InvalidParam("year must be an integer"))
		return
	}
	holidays, err := h.svc.Holidays(jurisdiction, year)
	if err != nil {
		writeError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"jurisdiction": jurisdiction,
		"year":         year,
		"holidays":     holidays,
	})
}

type createTriggerRequest struct {
	CaseID         string `json:"caseId" binding:"required"`
	TriggerType    string `json:"triggerType" binding:"required"`
	TriggerDate    string `json:"triggerDate" binding:"required"`
	ServiceMethod  string `json:"serviceMethod" binding:"required"`
	RuleTemplateID string `json:"ruleTemplateId" binding:"required"`
}

// CreateTrigger records a trigger event and expands its cascade.
func (h *DocketHandler) CreateTrigger(c *gin.Context) {
	var req createTriggerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.InvalidParam("invalid trigger request").WithCause(err))
		return
	}
	triggerDate, err := docket.ParseDate(req.TriggerDate)
	if err != nil {
		writeError(c, err)
		return
	}
	service, err := docket.ParseServiceMethod(req.ServiceMethod)
	if err != nil {
		writeError(c, err)
		return
	}
	result, err := h.engine.CreateTrigger(c.Request.Context(), cascade.CreateTriggerInput{
		CaseID:         common.ID(req.CaseID),
		TriggerType:    req.TriggerType,
		TriggerDate:    triggerDate,
		ServiceMethod:  service,
		RuleTemplateID: req.RuleTemplateID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, result)
}

// GetTrigger returns a trigger with its cascade.
func (h *DocketHandler) GetTrigger(c *gin.Context) {
	trigger, ds, err := h.engine.GetTrigger(c.Request.Context(), common.ID(c.Param("id")))
	if err != nil {
		writeError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"trigger": trigger, "deadlines": ds})
}

type recalculateRequest struct {
	TriggerDate       string `json:"triggerDate" binding:"required"`
	ServiceMethod     string `json:"serviceMethod" binding:"required"`
	OverrideCompleted bool   `json:"overrideCompleted"`
}

// Recalculate regenerates a trigger's cascade after an edit.
func (h *DocketHandler) Recalculate(c *gin.Context) {
	var req recalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.InvalidParam("invalid recalculation request").WithCause(err))
		return
	}
	triggerDate, err := docket.ParseDate(req.TriggerDate)
	if err != nil {
		writeError(c, err)
		return
	}
	service, err := docket.ParseServiceMethod(req.ServiceMethod)
	if err != nil {
		writeError(c, err)
		return
	}
	result, err := h.engine.Recalculate(c.Request.Context(), common.ID(c.Param("id")), cascade.RecalculateInput{
		TriggerDate:       triggerDate,
		ServiceMethod:     service,
		OverrideCompleted: req.OverrideCompleted,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, result)
}

// DeleteTrigger cancels a trigger and tears down its cascade.
func (h *DocketHandler) DeleteTrigger(c *gin.Context) {
	result, err := h.engine.DeleteTrigger(c.Request.Context(), common.ID(c.Param("id")))
	if err != nil {
		writeError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, result)
}

// ListDeadlines returns the deadlines owned by a trigger.
func (h *DocketHandler) ListDeadlines(c *gin.Context) {
	_, ds, err := h.engine.GetTrigger(c.Request.Context(), common.ID(c.Param("id")))
	if err != nil {
		writeError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"deadlines": ds})
}

// ExportICal renders a trigger's cascade as an iCalendar file.
func (h *DocketHandler) ExportICal(c *gin.Context) {
	trigger, ds, err := h.engine.GetTrigger(c.Request.Context(), common.ID(c.Param("id")))
	if err != nil {
		writeError(c, err)
		return
	}
	body := h.svc.ExportICal(trigger, ds)
	c.Header("Content-Disposition", `attachment; filename="deadlines.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", body)
}

func pageFromQuery(c *gin.Context) common.Pagination {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("pageSize", "0"))
	return common.Pagination{Page: page, PageSize: size}
}

// UpcomingDeadlines lists pending deadlines due within ?days= (default 14).
func (h *DocketHandler) UpcomingDeadlines(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "14"))
	if err != nil {
		writeError(c, errors.InvalidParam("days must be an integer"))
		return
	}
	result, err := h.engine.UpcomingDeadlines(c.Request.Context(), days, pageFromQuery(c))
	if err != nil {
		writeError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, result)
}

// OverdueDeadlines lists pending deadlines whose date has passed.
func (h *DocketHandler) OverdueDeadlines(c *gin.Context) {
	result, err := h.engine.OverdueDeadlines(c.Request.Context(), pageFromQuery(c))
	if err != nil {
		writeError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, result)
}

// CompleteDeadline marks a deadline as satisfied.
func (h *DocketHandler) CompleteDeadline(c *gin.Context) {
	deadline, err := h.engine.CompleteDeadline(c.Request.Context(), common.ID(c.Param("id")))
	if err != nil {
		writeError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, deadline)
}
