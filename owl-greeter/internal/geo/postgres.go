package geo

import (
	"context"
	"database/sql"
	"errors"

	"owl-care/owl-greeter/internal/entity"
	"owl-care/owl-greeter/internal/metrics"

	"go.uber.org/zap"
)

// PostgresService looks addresses up in geo_locations.
//
//	geo_locations(pattern text, is_prefix bool, city text, country text, street text, building int)
//
// An exact row beats any prefix row; among prefixes the longest wins.
type PostgresService struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresService creates a geo_locations backed lookup
func NewPostgresService(db *sql.DB, logger *zap.Logger) *PostgresService {
	return &PostgresService{db: db, logger: logger}
}

const byIPQuery = `
SELECT city, country, street, building
FROM geo_locations
WHERE (is_prefix = false AND pattern = $1)
   OR (is_prefix = true AND starts_with($1, pattern))
ORDER BY is_prefix ASC, length(pattern) DESC
LIMIT 1`

// ByIP exact match first, then the longest matching prefix; query errors yield nil
func (s *PostgresService) ByIP(ctx context.Context, ip string) *entity.Location {
	var (
		city, country, street sql.NullString
		building              sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, byIPQuery, ip).Scan(&city, &country, &street, &building)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			metrics.GeoLookupsTotal.WithLabelValues(SourcePostgres, resultNotFound).Inc()
			return nil
		}
		s.logger.Error("Failed to look up IP location",
			zap.String("ip", ip),
			zap.Error(err),
		)
		metrics.GeoLookupsTotal.WithLabelValues(SourcePostgres, resultError).Inc()
		return nil
	}

	loc := &entity.Location{
		City:     city.String,
		Street:   street.String,
		Building: int(building.Int64),
	}
	if country.Valid {
		if c, ok := entity.ParseCountry(country.String); ok {
			loc.Country = c
		} else {
			s.logger.Warn("Unknown country in geo_locations",
				zap.String("ip", ip),
				zap.String("country", country.String),
			)
		}
	}
	metrics.GeoLookupsTotal.WithLabelValues(SourcePostgres, resultFound).Inc()
	return loc
}
