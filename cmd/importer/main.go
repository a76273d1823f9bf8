package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"geocode-map/internal/config"
	"geocode-map/internal/logger"
	"geocode-map/internal/models"
	"geocode-map/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// Columns: region, locality, street, house_number, lat, lon. The first row is a header.
const csvColumns = 6

func main() {
	file := flag.String("file", "", "Path to the CSV file to import")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	log.Logger = logger.New(cfg.LogLevel, cfg.Environment, os.Stderr)

	if *file == "" {
		log.Fatal().Msg("--file flag is required")
	}
	if cfg.DBSource == "" {
		log.Fatal().Msg("DB_SOURCE is required")
	}

	log.Info().Str("file", *file).Msg("starting import")

	f, err := os.Open(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot open file")
	}
	defer f.Close()

	locations, err := parseCSV(f)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot parse csv")
	}
	log.Info().Int("records", len(locations)).Msg("parsed records")

	ctx := context.Background()

	// Connect to DB
	conn, err := pgx.Connect(ctx, cfg.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer conn.Close(ctx)

	repo := repository.NewRepository(conn)

	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("cannot create schema")
	}

	before, err := repo.CountLocations(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot count locations")
	}

	inserted, err := repo.InsertLocations(ctx, locations)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot insert locations")
	}

	// Verify data
	after, err := repo.CountLocations(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot count locations")
	}
	if after-before != inserted {
		log.Fatal().Int64("inserted", inserted).Int64("counted", after-before).Msg("record count mismatch")
	}

	log.Info().Int64("inserted", inserted).Int64("total", after).Msg("import finished")
}

func parseCSV(r io.Reader) ([]models.Location, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // checked per record below
	reader.TrimLeadingSpace = true

	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var locations []models.Location
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		line, _ := reader.FieldPos(0)
		if len(record) < csvColumns {
			return nil, fmt.Errorf("line %d: invalid record length: %d, expected at least %d columns", line, len(record), csvColumns)
		}

		lat, err := strconv.ParseFloat(strings.TrimSpace(record[4]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid latitude: %s", line, record[4])
		}

		lon, err := strconv.ParseFloat(strings.TrimSpace(record[5]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid longitude: %s", line, record[5])
		}

		location := models.Location{
			Region:      record[0],
			Locality:    record[1],
			Street:      record[2],
			HouseNumber: record[3],
			Latitude:    lat,
			Longitude:   lon,
		}
		if err := location.Point().Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		locations = append(locations, location)
	}

	return locations, nil
}
