// Package validate assesses whether a record is structurally and
// arithmetically self-consistent. One evaluation pass feeds two report
// renderings: a strict pass/fail report and a weighted-confidence report.
// Both are pure functions over their input; every problem is data in the
// report, nothing escapes as an error.
package validate

import (
	"fmt"
	"sort"
	"strings"

	"docqc/constants"
	"docqc/internal/schema"
)

const (
	reasonMissing     = "Missing required field"
	reasonPlaceholder = "Field is empty or contains placeholder"

	msgUnknownType  = "Unknown or missing document_type"
	msgNotAnObject  = "Invalid record: must be a JSON object"
	structuralField = "record"
	documentTypeKey = "document_type"
)

type Validator struct {
	policy Policy
}

func New(policy Policy) *Validator {
	return &Validator{policy: policy}
}

// Policy returns the tunables the validator was built with.
func (v *Validator) Policy() Policy {
	return v.policy
}

type metrics struct {
	requiredPresent  int
	requiredTotal    int
	importantPresent int
	importantTotal   int
	checksPassed     int
	checksEvaluated  int
	fieldsWithValues int
	suspicious       int
}

type evaluation struct {
	schema          *schema.Schema
	invalidFields   map[string]string
	validFields     []string
	logicalFailures []string
	warnings        []string
	metrics         metrics
}

// hardFailed reports whether evaluation stopped before field checks ran
// (non-object input or unresolvable document type).
func (ev *evaluation) hardFailed() bool {
	return ev.schema == nil
}

// ValidateStrict runs the strict pass/fail variant.
func (v *Validator) ValidateStrict(rec schema.Record, hint constants.DocumentType) StrictReport {
	ev := v.evaluate(rec, hint)
	report := StrictReport{
		Status:        constants.StatusPass,
		ValidFields:   ev.validFields,
		InvalidFields: ev.invalidFields,
		LogicalChecks: ev.logicalFailures,
	}
	if len(ev.invalidFields) > 0 || len(ev.logicalFailures) > 0 {
		report.Status = constants.StatusFail
	}
	return report
}

// ValidateScored runs the warn-and-score variant.
func (v *Validator) ValidateScored(rec schema.Record, hint constants.DocumentType) ScoredReport {
	ev := v.evaluate(rec, hint)
	report := ScoredReport{
		Valid:    len(ev.invalidFields) == 0 && len(ev.logicalFailures) == 0,
		Errors:   []string{},
		Warnings: ev.warnings,
	}
	if report.Warnings == nil {
		report.Warnings = []string{}
	}

	fields := make([]string, 0, len(ev.invalidFields))
	for field := range ev.invalidFields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		reason := ev.invalidFields[field]
		if reason == reasonMissing {
			report.Errors = append(report.Errors, fmt.Sprintf("Missing required field: %s", field))
		} else {
			report.Errors = append(report.Errors, fmt.Sprintf("Field %q: %s", field, reason))
		}
	}
	report.Errors = append(report.Errors, ev.logicalFailures...)

	if ev.hardFailed() {
		report.Confidence = 0
		report.ConfidenceLevel = constants.ConfidenceVeryLow
		return report
	}

	report.Confidence = v.confidence(ev.metrics, ev.schema.ExpectedFieldCount)
	report.ConfidenceLevel = v.policy.levelFor(report.Confidence)
	return report
}

// evaluate is the single pass shared by both modes.
func (v *Validator) evaluate(rec schema.Record, hint constants.DocumentType) evaluation {
	ev := evaluation{invalidFields: map[string]string{}}

	if rec == nil {
		ev.invalidFields[structuralField] = msgNotAnObject
		return ev
	}

	s, ok := schema.Resolve(rec, hint)
	if !ok {
		ev.invalidFields[documentTypeKey] = msgUnknownType
		return ev
	}
	ev.schema = s
	ev.metrics.requiredTotal = len(s.Required)
	ev.metrics.importantTotal = len(s.Important)

	v.checkRequired(rec, s, &ev)
	v.checkImportant(rec, s, &ev)
	v.countRemaining(rec, s, &ev)
	v.checkOptional(rec, s, &ev)
	v.checkSuspicious(rec, s, &ev)
	v.runLogicalChecks(rec, s, &ev)

	sort.Strings(ev.validFields)
	return ev
}

func (v *Validator) checkRequired(rec schema.Record, s *schema.Schema, ev *evaluation) {
	for field, ft := range s.Required {
		value, present := rec[field]
		switch {
		case !present || value == nil:
			ev.invalidFields[field] = reasonMissing
		case isPlaceholderValue(value):
			ev.invalidFields[field] = reasonPlaceholder
		default:
			ev.metrics.requiredPresent++
			ev.metrics.fieldsWithValues++
			if reason, bad := v.checkFieldValue(field, value, ft, s, true); bad {
				ev.invalidFields[field] = reason
			} else {
				ev.validFields = append(ev.validFields, field)
			}
		}
	}
}

func (v *Validator) checkImportant(rec schema.Record, s *schema.Schema, ev *evaluation) {
	for _, field := range s.Important {
		if value, present := rec[field]; present && value != nil {
			ev.metrics.importantPresent++
			ev.metrics.fieldsWithValues++
		} else {
			ev.warnings = append(ev.warnings, fmt.Sprintf("Missing important field: %s", field))
		}
	}
}

// countRemaining counts values outside the required/important sets toward
// the completeness component.
func (v *Validator) countRemaining(rec schema.Record, s *schema.Schema, ev *evaluation) {
	important := make(map[string]bool, len(s.Important))
	for _, f := range s.Important {
		important[f] = true
	}
	for field, value := range rec {
		if s.IsRequired(field) || important[field] || value == nil {
			continue
		}
		ev.metrics.fieldsWithValues++
	}
}

func (v *Validator) checkOptional(rec schema.Record, s *schema.Schema, ev *evaluation) {
	for field, ft := range s.Optional {
		value, present := rec[field]
		if !present || value == nil || isPlaceholderValue(value) {
			continue
		}
		if reason, bad := v.checkFieldValue(field, value, ft, s, false); bad {
			ev.invalidFields[field] = reason
		}
	}
}

// checkFieldValue applies the type, format and constraint rules for one
// present, non-placeholder field.
func (v *Validator) checkFieldValue(field string, value any, ft schema.FieldType, s *schema.Schema, required bool) (string, bool) {
	if reason, bad := typeMismatch(value, ft, s.LenientNumbers); bad {
		return reason, true
	}

	switch ft {
	case schema.TypeDate:
		str := value.(string)
		if re, ok := s.Formats[field]; ok {
			if !re.MatchString(str) {
				return "Invalid date format. Expected YYYY-MM-DD", true
			}
		} else if _, ok := parseISODate(str); !ok {
			return "Invalid date", true
		}
	case schema.TypeText:
		if re, ok := s.Formats[field]; ok {
			if str, isStr := value.(string); isStr && !re.MatchString(str) {
				return fmt.Sprintf("Invalid format. Expected pattern %s", re.String()), true
			}
		}
	case schema.TypeArray:
		if required {
			if list, ok := value.([]any); ok && len(list) == 0 {
				return "Must be a non-empty list", true
			}
		}
	case schema.TypeNumber:
		if c, ok := s.Constraints[field]; ok {
			if f := parseFloat(value); f != nil {
				if c.Min != nil && *f < *c.Min {
					return fmt.Sprintf("Must be at least %v", *c.Min), true
				}
				if c.Max != nil && *f > *c.Max {
					return fmt.Sprintf("Must be at most %v", *c.Max), true
				}
			}
		}
	}
	return "", false
}

func (v *Validator) checkSuspicious(rec schema.Record, s *schema.Schema, ev *evaluation) {
	fields := make([]string, 0, len(s.Placeholders))
	for field := range s.Placeholders {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		str, ok := rec[field].(string)
		if !ok {
			continue
		}
		if s.Placeholders[field].MatchString(strings.TrimSpace(str)) {
			ev.metrics.suspicious++
			ev.warnings = append(ev.warnings,
				fmt.Sprintf("Field %q appears to contain a placeholder value: %q", field, str))
		}
	}
}

func (v *Validator) runLogicalChecks(rec schema.Record, s *schema.Schema, ev *evaluation) {
	for _, check := range s.Checks {
		allPresent := true
		for _, field := range check.Fields {
			if value, present := rec[field]; !present || value == nil {
				allPresent = false
				break
			}
		}
		if !allPresent {
			continue
		}
		ok, applicable := v.runCheck(rec, s, check)
		if !applicable {
			continue
		}
		ev.metrics.checksEvaluated++
		if ok {
			ev.metrics.checksPassed++
		} else {
			ev.logicalFailures = append(ev.logicalFailures, check.Message)
		}
	}
}

// confidence blends the component scores with the policy weights. When no
// logical check was applicable, the logical component is left out of the
// blend entirely (its weight is removed from the denominator) rather than
// counted for or against the record.
func (v *Validator) confidence(m metrics, expectedFieldCount int) float64 {
	w := v.policy.Weights

	requiredScore := ratio(m.requiredPresent, m.requiredTotal)
	importantScore := ratio(m.importantPresent, m.importantTotal)
	completeness := 1.0
	if expectedFieldCount > 0 {
		completeness = float64(m.fieldsWithValues) / float64(expectedFieldCount)
		if completeness > 1 {
			completeness = 1
		}
	}

	var score float64
	if m.checksEvaluated > 0 {
		logicalScore := float64(m.checksPassed) / float64(m.checksEvaluated)
		score = w.Required*requiredScore +
			w.Important*importantScore +
			w.Logical*logicalScore +
			w.FieldCount*completeness
	} else {
		denom := w.Required + w.Important + w.FieldCount
		if denom <= 0 {
			return 0
		}
		score = (w.Required*requiredScore +
			w.Important*importantScore +
			w.FieldCount*completeness) / denom
	}

	suspicious := m.suspicious
	if suspicious > v.policy.SuspiciousCap {
		suspicious = v.policy.SuspiciousCap
	}
	score -= v.policy.SuspiciousPenalty * float64(suspicious)

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

func ratio(part, total int) float64 {
	if total <= 0 {
		return 1
	}
	return float64(part) / float64(total)
}

// isPlaceholderValue matches the conventional "present but meaningless"
// values the upstream extractor emits.
func isPlaceholderValue(value any) bool {
	str, ok := value.(string)
	if !ok {
		return false
	}
	switch strings.TrimSpace(str) {
	case "", "N/A", "null":
		return true
	}
	return false
}
