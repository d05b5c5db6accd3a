package repos

import (
	"github.com/tauraamui/medianstream/pkg/database/dbconn"
	"github.com/tauraamui/medianstream/pkg/database/models"
	"github.com/tauraamui/xerror"
)

type FrameRecordRepository struct {
	DB dbconn.GormWrapper
}

func (r *FrameRecordRepository) Create(record *models.FrameRecord) error {
	return r.DB.Create(record).Error()
}

func (r *FrameRecordRepository) FindBySession(sessionID string) ([]models.FrameRecord, error) {
	records := []models.FrameRecord{}
	if err := r.DB.Where("session_id = ?", sessionID).Order("seq asc").Find(&records).Error(); err != nil {
		return nil, xerror.Errorf("unable to find frame records for session %s: %w", sessionID, err)
	}

	return records, nil
}

func (r *FrameRecordRepository) Latest(sessionID string) (models.FrameRecord, error) {
	record := models.FrameRecord{}
	if err := r.DB.Where("session_id = ?", sessionID).Order("seq desc").First(&record).Error(); err != nil {
		return record, xerror.Errorf("no frame records for session %s", sessionID)
	}

	return record, nil
}
