// Package database persists scored survey reports to PostgreSQL via GORM.
// Persistence is optional; the service is fully functional without it since
// every result is recomputable from the input dataset.
package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rockmech/rockrating/internal/analysis"
	"github.com/rockmech/rockrating/internal/log"
	"go.uber.org/zap"
)

// Client holds the connection to the results database
type Client struct {
	connectionString string
	DB               *gorm.DB // Exported so it can be accessed from other packages
	logger           *zap.SugaredLogger
}

// NewClient creates a new database client
func NewClient(connectionString string, logger *zap.SugaredLogger) *Client {
	return &Client{
		connectionString: connectionString,
		logger:           logger,
	}
}

// Connect connects to the results database and migrates the schema
func (c *Client) Connect() error {
	var err error

	// Create a logger for gorm
	dbLogger := logger.New(
		zap.NewStdLog(log.GetZapLogger()),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: false,
			Colorful:                  true,
		},
	)

	config := &gorm.Config{
		Logger: dbLogger,
	}

	c.logger.Info("connecting to results database...")
	c.DB, err = gorm.Open(postgres.Open(c.connectionString), config)
	if err != nil {
		return fmt.Errorf("unable to connect to results database: %w", err)
	}

	if err := c.DB.AutoMigrate(&ScoreRecord{}); err != nil {
		return fmt.Errorf("unable to migrate results schema: %w", err)
	}

	c.logger.Info("results database connection successful")
	return nil
}

// SaveReport flattens and stores a dataset's full report. Existing rows for
// the dataset are replaced so re-uploading a corrected survey file does not
// leave stale scores behind.
func (c *Client) SaveReport(datasetID string, report analysis.Report) error {
	records := make([]ScoreRecord, 0, len(report.Stations))
	for _, station := range report.Stations {
		records = append(records, flattenScore(datasetID, station.StationID, "station", station))
		for _, fam := range station.Families {
			rec := ScoreRecord{
				DatasetID:          datasetID,
				StationID:          station.StationID,
				Subset:             fam.Label,
				Total:              fam.Result.Total,
				Class:              fam.Result.Class.Label(),
				EstimatedRQD:       fam.Result.EstimatedRQD,
				MeanSpacingMM:      fam.Result.MeanSpacingMM,
				Count:              fam.Result.Count,
				LengthM:            fam.Result.LengthM,
				RatingStrength:     fam.Result.Breakdown.Strength,
				RatingRQD:          fam.Result.Breakdown.RQD,
				RatingSpacing:      fam.Result.Breakdown.Spacing,
				RatingCondition:    fam.Result.Breakdown.Condition,
				RatingGroundwater:  fam.Result.Breakdown.Groundwater,
				RatingOrientation:  fam.Result.Breakdown.Orientation,
				MeanOrientationDeg: fam.MeanOrientationDeg,
			}
			records = append(records, rec)
		}
	}

	return c.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("dataset_id = ?", datasetID).Delete(&ScoreRecord{}).Error; err != nil {
			return fmt.Errorf("failed to clear previous scores: %w", err)
		}
		if err := tx.Create(&records).Error; err != nil {
			return fmt.Errorf("failed to store scores: %w", err)
		}
		return nil
	})
}

// DatasetScores returns all persisted scores for one dataset.
func (c *Client) DatasetScores(datasetID string) ([]ScoreRecord, error) {
	var records []ScoreRecord
	err := c.DB.Where("dataset_id = ?", datasetID).
		Order("station_id, subset").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scores for dataset %s: %w", datasetID, err)
	}
	return records, nil
}

// Close closes the underlying connection pool.
func (c *Client) Close() error {
	db, err := c.DB.DB()
	if err != nil {
		return err
	}
	return db.Close()
}

func flattenScore(datasetID, stationID, subset string, station analysis.StationReport) ScoreRecord {
	r := station.Result
	return ScoreRecord{
		DatasetID:         datasetID,
		StationID:         stationID,
		Subset:            subset,
		Total:             r.Total,
		Class:             r.Class.Label(),
		EstimatedRQD:      r.EstimatedRQD,
		MeanSpacingMM:     r.MeanSpacingMM,
		Count:             r.Count,
		LengthM:           r.LengthM,
		RatingStrength:    r.Breakdown.Strength,
		RatingRQD:         r.Breakdown.RQD,
		RatingSpacing:     r.Breakdown.Spacing,
		RatingCondition:   r.Breakdown.Condition,
		RatingGroundwater: r.Breakdown.Groundwater,
		RatingOrientation: r.Breakdown.Orientation,
	}
}
