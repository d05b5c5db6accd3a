package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func init() {
	registerForAutomigration(&FrameRecord{})
}

// FrameRecord is one journal entry per frame handed to the sink.
type FrameRecord struct {
	gorm.Model
	UUID        string
	SessionID   string `gorm:"index"`
	Seq         uint64
	RedMean     float64
	GreenMean   float64
	BlueMean    float64
	DeliveredAt time.Time
}

func (r *FrameRecord) BeforeCreate(tx *gorm.DB) error {
	r.UUID = uuid.NewString()
	if r.DeliveredAt.IsZero() {
		r.DeliveredAt = time.Now()
	}
	return nil
}

func (r FrameRecord) Means() [3]float64 {
	return [3]float64{r.RedMean, r.GreenMean, r.BlueMean}
}
