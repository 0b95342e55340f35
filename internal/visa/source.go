// internal/visa/source.go
package visa

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/lib/pq"
	"gopkg.in/yaml.v3"

	"visa-workers/internal/models"
)

// RuleSource loads a visa catalog from wherever it is owned.
type RuleSource interface {
	Name() string
	LoadRules(ctx context.Context) ([]models.VisaRule, error)
}

// ==========================
// Static
// ==========================

// StaticSource serves a fixed catalog, DefaultRules when none is given.
type StaticSource struct {
	rules []models.VisaRule
}

func NewStaticSource(rules []models.VisaRule) *StaticSource {
	if rules == nil {
		rules = DefaultRules()
	}
	return &StaticSource{rules: rules}
}

func (s *StaticSource) Name() string { return "static" }

func (s *StaticSource) LoadRules(ctx context.Context) ([]models.VisaRule, error) {
	cp := make([]models.VisaRule, len(s.rules))
	copy(cp, s.rules)
	return cp, nil
}

// ==========================
// YAML file
// ==========================

// catalogFile is the on-disk layout:
//
//	rules:
//	  - visaCode: D-2
//	    maxWeeklyHours: 25
//	    ...
type catalogFile struct {
	Rules []models.VisaRule `yaml:"rules"`
}

// FileSource reads the catalog from a YAML file on every load.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string { return "file:" + s.path }

func (s *FileSource) LoadRules(ctx context.Context) ([]models.VisaRule, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return ParseYAML(data)
}

// ParseYAML decodes a catalog document.
func ParseYAML(data []byte) ([]models.VisaRule, error) {
	var doc catalogFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog yaml: %w", err)
	}
	for i := range doc.Rules {
		if doc.Rules[i].ExcludedIndustries == nil {
			doc.Rules[i].ExcludedIndustries = []string{}
		}
	}
	return doc.Rules, nil
}

// MarshalYAML encodes rules in the layout ParseYAML reads.
func MarshalYAML(rules []models.VisaRule) ([]byte, error) {
	return yaml.Marshal(catalogFile{Rules: rules})
}

// ==========================
// PostgreSQL
// ==========================

const selectRulesQuery = `
		SELECT visa_code, visa_name, visa_name_en, max_weekly_hours, max_workplaces,
		       required_permit, excluded_industries, weekend_only_exemption, no_work_authorization
		FROM visa_rules
		WHERE active = true
		ORDER BY display_order, visa_code`

// PostgresSource reads active rules from the visa_rules table.
type PostgresSource struct {
	db *sql.DB
}

func NewPostgresSource(db *sql.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

func (s *PostgresSource) Name() string { return "postgres" }

func (s *PostgresSource) LoadRules(ctx context.Context) ([]models.VisaRule, error) {
	rows, err := s.db.QueryContext(ctx, selectRulesQuery)
	if err != nil {
		return nil, fmt.Errorf("query visa_rules: %w", err)
	}
	defer rows.Close()

	var rules []models.VisaRule
	for rows.Next() {
		var (
			r          models.VisaRule
			nameEn     sql.NullString
			maxHours   sql.NullFloat64
			maxPlaces  sql.NullInt64
			permit     sql.NullString
			industries pq.StringArray
		)
		if err := rows.Scan(&r.VisaCode, &r.VisaName, &nameEn, &maxHours, &maxPlaces,
			&permit, &industries, &r.WeekendOnlyExemption, &r.NoWorkAuthorization); err != nil {
			return nil, fmt.Errorf("scan visa_rules: %w", err)
		}

		r.VisaNameEn = nameEn.String
		if maxHours.Valid {
			r.MaxWeeklyHours = floatPtr(maxHours.Float64)
		}
		if maxPlaces.Valid {
			r.MaxWorkplaces = intPtr(int(maxPlaces.Int64))
		}
		if permit.Valid {
			r.RequiredPermit = strPtr(permit.String)
		}
		r.ExcludedIndustries = []string(industries)
		if r.ExcludedIndustries == nil {
			r.ExcludedIndustries = []string{}
		}

		rules = append(rules, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate visa_rules: %w", err)
	}
	return rules, nil
}
