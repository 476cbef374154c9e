package database

import "time"

// ScoreRecord is one persisted scoring outcome: a whole-station score or a
// single family's score, flattened for querying.
type ScoreRecord struct {
	ID        uint   `gorm:"primaryKey;autoIncrement;column:id"`
	DatasetID string `gorm:"column:dataset_id;index:idx_dataset_station;not null"`
	StationID string `gorm:"column:station_id;index:idx_dataset_station;not null"`

	// Subset is "station" for whole-station scores or the family label
	// (F1, F2, ...) for family scores.
	Subset string `gorm:"column:subset;not null"`

	Total float64 `gorm:"column:rmr_total;not null"`
	Class string  `gorm:"column:class;not null"`

	EstimatedRQD  float64 `gorm:"column:estimated_rqd"`
	MeanSpacingMM float64 `gorm:"column:mean_spacing_mm"`
	Count         int     `gorm:"column:discontinuity_count"`
	LengthM       float64 `gorm:"column:length_m"`

	RatingStrength    int     `gorm:"column:rating_strength"`
	RatingRQD         int     `gorm:"column:rating_rqd"`
	RatingSpacing     int     `gorm:"column:rating_spacing"`
	RatingCondition   float64 `gorm:"column:rating_condition"`
	RatingGroundwater int     `gorm:"column:rating_groundwater"`
	RatingOrientation int     `gorm:"column:rating_orientation"`

	MeanOrientationDeg float64 `gorm:"column:mean_orientation_deg"`

	CreatedAt time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP"`
}

// TableName specifies the table name for ScoreRecord
func (ScoreRecord) TableName() string {
	return "score_records"
}
