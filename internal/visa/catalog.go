// internal/visa/catalog.go
package visa

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"visa-workers/internal/common/errors"
	"visa-workers/internal/models"
)

// PermitOutsideStatus is the permission to engage in activities outside the
// holder's status of stay, required for part-time work on student visas.
const PermitOutsideStatus = "체류자격외활동허가"

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
func strPtr(v string) *string     { return &v }

// DefaultRules returns the built-in seed catalog. Each call builds a new
// slice so callers may modify the result freely.
func DefaultRules() []models.VisaRule {
	return []models.VisaRule{
		{
			VisaCode:             "D-2",
			VisaName:             "유학",
			VisaNameEn:           "Student",
			MaxWeeklyHours:       floatPtr(25),
			MaxWorkplaces:        intPtr(2),
			RequiredPermit:       strPtr(PermitOutsideStatus),
			ExcludedIndustries:   []string{"C", "F"},
			WeekendOnlyExemption: true,
		},
		{
			VisaCode:           "D-4",
			VisaName:           "일반연수",
			VisaNameEn:         "General Trainee",
			MaxWeeklyHours:     floatPtr(20),
			MaxWorkplaces:      intPtr(2),
			RequiredPermit:     strPtr(PermitOutsideStatus),
			ExcludedIndustries: []string{"C", "F"},
		},
		{
			VisaCode:           "E-9",
			VisaName:           "비전문취업",
			VisaNameEn:         "Non-professional Employment",
			MaxWorkplaces:      intPtr(1),
			ExcludedIndustries: []string{"I", "G"},
		},
		{
			VisaCode:           "H-2",
			VisaName:           "방문취업",
			VisaNameEn:         "Working Visit",
			ExcludedIndustries: []string{},
		},
		{
			VisaCode:           "F-2",
			VisaName:           "거주",
			VisaNameEn:         "Residence",
			ExcludedIndustries: []string{},
		},
		{
			VisaCode:           "F-4",
			VisaName:           "재외동포",
			VisaNameEn:         "Overseas Korean",
			ExcludedIndustries: []string{},
		},
		{
			VisaCode:           "F-5",
			VisaName:           "영주",
			VisaNameEn:         "Permanent Residence",
			ExcludedIndustries: []string{},
		},
		{
			VisaCode:           "F-6",
			VisaName:           "결혼이민",
			VisaNameEn:         "Marriage Migrant",
			ExcludedIndustries: []string{},
		},
		{
			VisaCode:            "C-3",
			VisaName:            "단기방문",
			VisaNameEn:          "Short-term Visit",
			ExcludedIndustries:  []string{},
			NoWorkAuthorization: true,
		},
		{
			VisaCode:            "B-1",
			VisaName:            "사증면제",
			VisaNameEn:          "Visa Exemption",
			ExcludedIndustries:  []string{},
			NoWorkAuthorization: true,
		},
		{
			VisaCode:            "B-2",
			VisaName:            "관광통과",
			VisaNameEn:          "Tourist / Transit",
			ExcludedIndustries:  []string{},
			NoWorkAuthorization: true,
		},
	}
}

// Validate checks a catalog before it is allowed to replace the current one.
func Validate(rules []models.VisaRule) error {
	if len(rules) == 0 {
		return errors.NewCatalogInvalidError("catalog is empty")
	}

	seen := make(map[string]bool, len(rules))
	var problems []string
	for i, r := range rules {
		code := strings.TrimSpace(r.VisaCode)
		switch {
		case code == "":
			problems = append(problems, fmt.Sprintf("rule %d: blank visaCode", i))
		case seen[code]:
			problems = append(problems, fmt.Sprintf("rule %d: duplicate visaCode %s", i, code))
		}
		seen[code] = true

		if r.MaxWeeklyHours != nil && *r.MaxWeeklyHours < 0 {
			problems = append(problems, fmt.Sprintf("rule %s: negative maxWeeklyHours", code))
		}
		if r.MaxWorkplaces != nil && *r.MaxWorkplaces < 0 {
			problems = append(problems, fmt.Sprintf("rule %s: negative maxWorkplaces", code))
		}
		if r.RequiredPermit != nil && strings.TrimSpace(*r.RequiredPermit) == "" {
			problems = append(problems, fmt.Sprintf("rule %s: blank requiredPermit", code))
		}
	}

	if len(problems) > 0 {
		return errors.NewCatalogInvalidError(strings.Join(problems, "; "))
	}
	return nil
}

// Version fingerprints a catalog so cached results can be tied to it.
func Version(rules []models.VisaRule) string {
	data, _ := json.Marshal(rules)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:16]
}
