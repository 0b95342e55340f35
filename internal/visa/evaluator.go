// internal/visa/evaluator.go
package visa

import (
	"fmt"
	"math"
	"strconv"

	"visa-workers/internal/common/errors"
	"visa-workers/internal/models"
)

// maxHoursPerWeek is 7 * 24.
const maxHoursPerWeek = 168

const ReasonNoWorkAuthorization = "no work authorization"

// Evaluator classifies every rule of a fixed catalog against a labor profile.
// It holds its own copy of the catalog and is safe for concurrent use.
type Evaluator struct {
	rules []models.VisaRule
}

func NewEvaluator(rules []models.VisaRule) *Evaluator {
	return &Evaluator{rules: cloneRules(rules)}
}

// Rules returns a deep copy of the catalog in catalog order.
func (e *Evaluator) Rules() []models.VisaRule {
	return cloneRules(e.rules)
}

func cloneRules(rules []models.VisaRule) []models.VisaRule {
	cp := make([]models.VisaRule, len(rules))
	for i, r := range rules {
		r.MaxWeeklyHours = copyFloat(r.MaxWeeklyHours)
		r.MaxWorkplaces = copyInt(r.MaxWorkplaces)
		r.RequiredPermit = copyString(r.RequiredPermit)
		r.ExcludedIndustries = append([]string{}, r.ExcludedIndustries...)
		cp[i] = r
	}
	return cp
}

// Evaluate classifies profile against rules without keeping an Evaluator.
func Evaluate(profile models.JobLaborProfile, rules []models.VisaRule) *models.VisaCompatibility {
	return NewEvaluator(rules).Evaluate(profile)
}

// Evaluate runs every rule, even when the caller wants only one bucket.
func (e *Evaluator) Evaluate(profile models.JobLaborProfile) *models.VisaCompatibility {
	out := &models.VisaCompatibility{
		Eligible:    []models.VisaEvalResult{},
		Conditional: []models.VisaEvalResult{},
		Blocked:     []models.VisaEvalResult{},
	}

	for _, rule := range e.rules {
		res := e.Classify(profile, rule)
		switch res.Status {
		case models.VisaStatusEligible:
			out.Eligible = append(out.Eligible, res)
		case models.VisaStatusConditional:
			out.Conditional = append(out.Conditional, res)
		default:
			out.Blocked = append(out.Blocked, res)
		}
	}

	out.Summary = models.VisaSummary{
		TotalEligible:    len(out.Eligible),
		TotalConditional: len(out.Conditional),
		TotalBlocked:     len(out.Blocked),
	}
	return out
}

// Classify applies the first matching rule, in order: no work authorization,
// industry exclusion, hours cap, required permit. The workplace cap is only
// ever informational.
func (e *Evaluator) Classify(profile models.JobLaborProfile, rule models.VisaRule) models.VisaEvalResult {
	res := models.VisaEvalResult{
		VisaCode:       rule.VisaCode,
		VisaName:       rule.VisaName,
		VisaNameEn:     rule.VisaNameEn,
		Conditions:     []string{},
		BlockReasons:   []string{},
		RequiredPermit: copyString(rule.RequiredPermit),
		MaxWeeklyHours: copyFloat(rule.MaxWeeklyHours),
		MaxWorkplaces:  copyInt(rule.MaxWorkplaces),
	}

	if rule.NoWorkAuthorization {
		res.Status = models.VisaStatusBlocked
		res.BlockReasons = appendUnique(res.BlockReasons, ReasonNoWorkAuthorization)
		return res
	}

	if industryExcluded(profile.IndustryCode, rule.ExcludedIndustries) {
		res.Status = models.VisaStatusBlocked
		res.BlockReasons = appendUnique(res.BlockReasons, IndustryExcludedReason(profile.IndustryCode, rule.VisaCode))
		return res
	}

	if overHoursCap(profile, rule) {
		res.Status = models.VisaStatusConditional
		res.Conditions = appendUnique(res.Conditions, HoursCapCondition(*rule.MaxWeeklyHours, profile.WeeklyHours))
		if rule.RequiredPermit != nil {
			res.Conditions = appendUnique(res.Conditions, PermitCondition(*rule.RequiredPermit))
		}
		return res
	}

	if rule.RequiredPermit != nil {
		res.Status = models.VisaStatusConditional
		res.Conditions = appendUnique(res.Conditions, PermitCondition(*rule.RequiredPermit))
		return res
	}

	res.Status = models.VisaStatusEligible
	return res
}

// ValidateProfile rejects labor profiles no real schedule can produce.
func ValidateProfile(p models.JobLaborProfile) error {
	if math.IsNaN(p.WeeklyHours) || math.IsInf(p.WeeklyHours, 0) {
		return errors.NewInvalidLaborProfileError("weeklyHours is not a number")
	}
	if p.WeeklyHours < 0 {
		return errors.NewInvalidLaborProfileError(fmt.Sprintf("weeklyHours %g is negative", p.WeeklyHours))
	}
	if p.WeeklyHours > maxHoursPerWeek {
		return errors.NewInvalidLaborProfileError(fmt.Sprintf("weeklyHours %g exceeds %d", p.WeeklyHours, maxHoursPerWeek))
	}
	return nil
}

func industryExcluded(code string, excluded []string) bool {
	if code == "" {
		return false
	}
	for _, c := range excluded {
		if c == code {
			return true
		}
	}
	return false
}

func overHoursCap(profile models.JobLaborProfile, rule models.VisaRule) bool {
	if rule.MaxWeeklyHours == nil {
		return false
	}
	if profile.IsWeekendOnly && rule.WeekendOnlyExemption {
		return false
	}
	return profile.WeeklyHours > *rule.MaxWeeklyHours
}

// HoursCapCondition describes a weekly hours cap the job exceeds.
func HoursCapCondition(capHours, jobHours float64) string {
	return fmt.Sprintf("weekly hours capped at %sh (job requires %sh)", formatHours(capHours), formatHours(jobHours))
}

// PermitCondition describes a permit the worker must hold.
func PermitCondition(permit string) string {
	return "requires permit: " + permit
}

// IndustryExcludedReason describes why an industry blocks a visa.
func IndustryExcludedReason(industryCode, visaCode string) string {
	return fmt.Sprintf("industry %s is excluded for %s", industryCode, visaCode)
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}

func copyString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
