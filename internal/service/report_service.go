package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/laporinapp/laporin/internal/model"
)

// Notifier is the fan-out entry point report/announcement actions call into
type Notifier interface {
	Notify(ctx context.Context, recipients []uuid.UUID, category model.NotificationCategory, payload model.PushPayload) (model.DispatchResult, error)
	NotifyRole(ctx context.Context, role model.Role, category model.NotificationCategory, payload model.PushPayload) (model.DispatchResult, error)
}

// ReportStore is the persistence surface the report actions need
type ReportStore interface {
	Create(report *model.Report) error
	FindByID(id uuid.UUID) (*model.Report, error)
	UpdateStatus(id uuid.UUID, status model.ReportStatus) error
	CreateAnnouncement(a *model.Announcement) error
}

// ReportService drives the two fan-out entry points: single-recipient notify
// on report status changes and broadcast-to-role on new announcements.
type ReportService struct {
	reports ReportStore
	push    Notifier
}

func NewReportService(reports ReportStore, push Notifier) *ReportService {
	return &ReportService{reports: reports, push: push}
}

// CreateReport files a new citizen report
func (s *ReportService) CreateReport(userID uuid.UUID, req model.CreateReportRequest) (*model.Report, error) {
	report := &model.Report{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Status:      model.ReportStatusReceived,
	}
	if err := s.reports.Create(report); err != nil {
		return nil, err
	}
	return s.reports.FindByID(report.ID)
}

// GetReport loads a report with its reporter
func (s *ReportService) GetReport(id uuid.UUID) (*model.Report, error) {
	return s.reports.FindByID(id)
}

// UpdateStatus moves a report to a new status and notifies the owner.
// Notification is best-effort: the status update succeeds even when the
// fan-out fails, which is only logged.
func (s *ReportService) UpdateStatus(ctx context.Context, reportID uuid.UUID, status model.ReportStatus) (*model.Report, error) {
	report, err := s.reports.FindByID(reportID)
	if err != nil {
		return nil, err
	}
	if err := s.reports.UpdateStatus(reportID, status); err != nil {
		return nil, err
	}
	report.Status = status

	payload := model.PushPayload{
		Title:    "Laporan kamu diperbarui",
		Body:     fmt.Sprintf("Status laporan \"%s\" sekarang %s", report.Title, status),
		ClickURL: fmt.Sprintf("/reports/%s", report.ID),
		Icon:     "/icons/report.png",
	}
	if _, err := s.push.Notify(ctx, []uuid.UUID{report.UserID}, model.NotificationCategoryReport, payload); err != nil {
		log.Printf("⚠️  Report %s status notify failed: %v", report.ID, err)
	}

	return report, nil
}

// CreateAnnouncement publishes an announcement and broadcasts it to every
// citizen. Same best-effort rule as status updates.
func (s *ReportService) CreateAnnouncement(ctx context.Context, authorID uuid.UUID, req model.CreateAnnouncementRequest) (*model.Announcement, error) {
	announcement := &model.Announcement{
		AuthorID: authorID,
		Title:    req.Title,
		Body:     req.Body,
	}
	if err := s.reports.CreateAnnouncement(announcement); err != nil {
		return nil, err
	}

	payload := model.PushPayload{
		Title:    "Pengumuman RT",
		Body:     announcement.Title,
		ClickURL: fmt.Sprintf("/announcements/%s", announcement.ID),
		Icon:     "/icons/announcement.png",
	}
	if _, err := s.push.NotifyRole(ctx, model.RoleCitizen, model.NotificationCategoryAnnouncement, payload); err != nil {
		log.Printf("⚠️  Announcement %s broadcast failed: %v", announcement.ID, err)
	}

	return announcement, nil
}
