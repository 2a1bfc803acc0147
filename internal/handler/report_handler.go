package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/laporinapp/laporin/internal/model"
	"github.com/laporinapp/laporin/internal/service"
)

// ReportHandler handles citizen reports and RT announcements
type ReportHandler struct {
	reports *service.ReportService
}

func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// CreateReport godoc
// @Summary Submit a report
// @Description Create a new civic report for the authenticated citizen
// @Tags reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.CreateReportRequest true "Report details"
// @Success 201 {object} model.Report
// @Failure 400 {object} model.ErrorResponse
// @Router /reports [post]
func (h *ReportHandler) CreateReport(c *gin.Context) {
	userID := currentUserID(c)

	var req model.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	report, err := h.reports.CreateReport(userID, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "failed to create report"})
		return
	}

	c.JSON(http.StatusCreated, report)
}

// GetReport godoc
// @Summary Get a report
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Success 200 {object} model.Report
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /reports/{id} [get]
func (h *ReportHandler) GetReport(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid report id"})
		return
	}

	report, err := h.reports.GetReport(id)
	if err != nil {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "report not found"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// UpdateStatus godoc
// @Summary Update report status
// @Description RT admin moves a report through its lifecycle; the reporter is notified
// @Tags reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Param request body model.UpdateReportStatusRequest true "New status"
// @Success 200 {object} model.Report
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /reports/{id}/status [put]
func (h *ReportHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid report id"})
		return
	}

	var req model.UpdateReportStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	report, err := h.reports.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "report not found"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// CreateAnnouncement godoc
// @Summary Publish an announcement
// @Description RT admin publishes a neighborhood announcement; all citizens are notified
// @Tags announcements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.CreateAnnouncementRequest true "Announcement"
// @Success 201 {object} model.Announcement
// @Failure 400 {object} model.ErrorResponse
// @Router /announcements [post]
func (h *ReportHandler) CreateAnnouncement(c *gin.Context) {
	userID := currentUserID(c)

	var req model.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	announcement, err := h.reports.CreateAnnouncement(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "failed to create announcement"})
		return
	}

	c.JSON(http.StatusCreated, announcement)
}
