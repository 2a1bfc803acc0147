package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/laporinapp/laporin/internal/model"
)

// ReportRepository handles database operations for Report and Announcement
type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create inserts a new report
func (r *ReportRepository) Create(report *model.Report) error {
	return r.db.Create(report).Error
}

// FindByID finds a report with its reporter preloaded
func (r *ReportRepository) FindByID(id uuid.UUID) (*model.Report, error) {
	var report model.Report
	err := r.db.
		Preload("Reporter").
		Where("id = ?", id).
		First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// UpdateStatus moves a report to a new handling status
func (r *ReportRepository) UpdateStatus(id uuid.UUID, status model.ReportStatus) error {
	return r.db.Model(&model.Report{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// CreateAnnouncement inserts a new announcement
func (r *ReportRepository) CreateAnnouncement(a *model.Announcement) error {
	return r.db.Create(a).Error
}
