// Package main provides a batch scoring tool for discontinuity survey data:
// it loads a survey from a CSV file or a PostgreSQL table, scores every
// station, discovers orientation families and prints the results.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/rockmech/rockrating/internal/analysis"
	"github.com/rockmech/rockrating/internal/families"
	"github.com/rockmech/rockrating/internal/geodata"
)

func main() {
	var (
		csvPath    = flag.String("csv", "", "Survey CSV file to score (takes precedence over the database flags)")
		dbHost     = flag.String("db-host", "localhost", "Database host")
		dbPort     = flag.Int("db-port", 5432, "Database port")
		dbUser     = flag.String("db-user", "postgres", "Database user")
		dbPass     = flag.String("db-pass", "", "Database password")
		dbName     = flag.String("db-name", "rockrating", "Database name")
		dbTable    = flag.String("db-table", "discontinuities", "Table holding the survey records")
		tolerance  = flag.Float64("tolerance", 15, "Family clustering tolerance in degrees")
		minMembers = flag.Int("min-members", 3, "Minimum discontinuities per family")
		reportCSV  = flag.String("report-csv", "", "Optional report CSV output file path")
	)
	flag.Parse()

	var ds *geodata.Dataset
	var err error
	if *csvPath != "" {
		ds, err = loadFromCSV(*csvPath)
	} else {
		ds, err = loadFromPostgres(*dbHost, *dbPort, *dbUser, *dbPass, *dbName, *dbTable)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading survey data: %v\n", err)
		os.Exit(1)
	}

	params := families.Params{ToleranceDeg: *tolerance, MinMembers: *minMembers}
	analyzer := analysis.New(ds, params, zap.NewNop().Sugar())
	report := analyzer.Analyze()

	fmt.Printf("Rock Mass Rating Survey Analysis\n")
	fmt.Printf("================================\n\n")
	fmt.Printf("Configuration:\n")
	fmt.Printf("  Stations: %d\n", len(ds.Stations()))
	fmt.Printf("  Records: %d\n", ds.Len())
	fmt.Printf("  Family tolerance: %.1f deg\n", *tolerance)
	fmt.Printf("  Family minimum size: %d\n\n", *minMembers)

	for _, station := range report.Stations {
		printStation(station)
	}

	summary := analysis.Summarize(report)
	fmt.Printf("Summary\n")
	fmt.Printf("-------\n")
	fmt.Printf("  Mean RMR: %.1f (stddev %.1f, range %.1f to %.1f)\n",
		summary.MeanRMR, summary.StdDevRMR, summary.MinRMR, summary.MaxRMR)
	fmt.Printf("  Dominant class: %s\n", summary.DominantClass.Label())
	fmt.Printf("  Families discovered: %d\n", summary.FamilyCount)

	if *reportCSV != "" {
		if err := writeReport(*reportCSV, report); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report CSV: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nReport written to %s\n", *reportCSV)
	}
}

func printStation(station analysis.StationReport) {
	r := station.Result
	fmt.Printf("Station %s: RMR %.1f (%s)\n", station.StationID, r.Total, r.Class.Label())
	fmt.Printf("  RQD %.1f%%  spacing %.0f mm  %d discontinuities over %.2f m\n",
		r.EstimatedRQD, r.MeanSpacingMM, r.Count, r.LengthM)
	fmt.Printf("  Ratings: strength %d, RQD %d, spacing %d, condition %.1f, groundwater %d, orientation %d\n",
		r.Breakdown.Strength, r.Breakdown.RQD, r.Breakdown.Spacing,
		r.Breakdown.Condition, r.Breakdown.Groundwater, r.Breakdown.Orientation)
	if !r.GroundwaterRecognized {
		fmt.Printf("  Warning: groundwater code outside the 1-5 scale, rated with default\n")
	}

	if len(station.Families) == 0 {
		fmt.Printf("  No orientation families\n\n")
		return
	}
	for _, fam := range station.Families {
		fmt.Printf("  %s: %d members around %.1f deg, RMR %.1f (%s)\n",
			fam.Label, len(fam.RecordIndices), fam.MeanOrientationDeg,
			fam.Result.Total, fam.Result.Class.Label())
	}
	fmt.Println()
}

func loadFromCSV(path string) (*geodata.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return geodata.ReadCSV(f)
}

func loadFromPostgres(host string, port int, user, pass, name, table string) (*geodata.Dataset, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, pass, name)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT station, distance_m, dip_direction_degrees,
		        spacing_code, aperture_code, roughness_code,
		        weathering_code, infilling_code, groundwater_code
		 FROM %s ORDER BY station, distance_m`, table)

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("error querying survey records: %w", err)
	}
	defer rows.Close()

	var records []geodata.Record
	for rows.Next() {
		var r geodata.Record
		var dip sql.NullFloat64
		if err := rows.Scan(&r.StationID, &r.DistanceM, &dip,
			&r.SpacingCode, &r.ApertureCode, &r.RoughnessCode,
			&r.WeatheringCode, &r.InfillingCode, &r.GroundwaterCode); err != nil {
			return nil, fmt.Errorf("error scanning survey record: %w", err)
		}
		if dip.Valid {
			v := dip.Float64
			r.DipDirectionDeg = &v
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating survey records: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("table %s contains no survey records", table)
	}
	return geodata.NewDataset(records), nil
}

func writeReport(path string, report analysis.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return analysis.WriteReportCSV(f, report)
}
