package schema

import "github.com/orza-hq/orza-engine/pkg/models"

// Static fallback schemas for the known recruiting tables, used when the
// live catalog lookup fails or returns no columns. These mirror the
// production database structure; the live catalog takes priority whenever
// it is reachable and non-empty.

func col(catalogType string, nullable bool) models.Column {
	return models.Column{
		Type:        models.NormalizeColumnType(catalogType),
		CatalogType: catalogType,
		Nullable:    nullable,
	}
}

func pkCol() models.Column {
	return models.Column{
		Type:         models.TypeUUID,
		CatalogType:  "uuid",
		IsPrimaryKey: true,
	}
}

const (
	tsType   = "timestamp with time zone"
	textType = "text"
)

func fallbackTable(name string, columns map[string]models.Column) *models.TableSchema {
	columns["id"] = pkCol()
	return &models.TableSchema{
		Table:       name,
		Columns:     columns,
		PrimaryKeys: []string{"id"},
	}
}

var fallbackSchemas = map[string]*models.TableSchema{
	"candidates": fallbackTable("candidates", map[string]models.Column{
		"merge_id":        col(textType, false),
		"first_name":      col(textType, true),
		"last_name":       col(textType, true),
		"email":           col(textType, true),
		"phone":           col(textType, true),
		"location":        col(textType, true),
		"company":         col(textType, true),
		"title":           col(textType, true),
		"created_at":      col(tsType, true),
		"updated_at":      col(tsType, true),
		"tags_json":       col("jsonb", true),
		"organization_id": col("uuid", true),
	}),
	"job_postings": fallbackTable("job_postings", map[string]models.Column{
		"merge_id":        col(textType, false),
		"remote_id":       col(textType, false),
		"name":            col(textType, true),
		"description":     col(textType, true),
		"status":          col(textType, true),
		"job_type":        col(textType, true),
		"remote":          col("boolean", true),
		"location":        col(textType, true),
		"department":      col(textType, true),
		"salary_min":      col("numeric", true),
		"salary_max":      col("numeric", true),
		"salary_currency": col(textType, true),
		"url":             col(textType, true),
		"organization_id": col("uuid", false),
		"created_at":      col(tsType, true),
		"updated_at":      col(tsType, true),
	}),
	"applications": fallbackTable("applications", map[string]models.Column{
		"merge_id":         col(textType, false),
		"remote_id":        col(textType, true),
		"candidate_id":     col(textType, true),
		"job_id":           col(textType, true),
		"status":           col(textType, true),
		"stage":            col(textType, true),
		"rejection_reason": col(textType, true),
		"applied_at":       col(tsType, true),
		"rejected_at":      col(tsType, true),
		"source":           col(textType, true),
		"current_salary":   col("numeric", true),
		"desired_salary":   col("numeric", true),
		"organization_id":  col("uuid", false),
		"created_at":       col(tsType, true),
		"updated_at":       col(tsType, true),
	}),
	"activities": fallbackTable("activities", map[string]models.Column{
		"merge_id":           col(textType, false),
		"organization_id":    col("uuid", true),
		"activity_type":      col(textType, true),
		"subject":            col(textType, true),
		"body":               col(textType, true),
		"candidate_merge_id": col(textType, true),
		"created_at":         col(tsType, true),
		"updated_at":         col(tsType, true),
	}),
	"attachments": fallbackTable("attachments", map[string]models.Column{
		"merge_id":           col(textType, false),
		"organization_id":    col("uuid", true),
		"attachment_type":    col(textType, true),
		"file_url":           col(textType, true),
		"file_name":          col(textType, true),
		"candidate_merge_id": col(textType, true),
		"created_at":         col(tsType, true),
		"updated_at":         col(tsType, true),
	}),
	"departments": fallbackTable("departments", map[string]models.Column{
		"merge_id":                   col(textType, false),
		"name":                       col(textType, true),
		"parent_department_merge_id": col(textType, true),
		"organization_id":            col("uuid", true),
		"created_at":                 col(tsType, true),
		"updated_at":                 col(tsType, true),
	}),
	"eeocs": fallbackTable("eeocs", map[string]models.Column{
		"merge_id":           col(textType, false),
		"candidate_merge_id": col(textType, true),
		"gender":             col(textType, true),
		"race":               col(textType, true),
		"disability_status":  col(textType, true),
		"veteran_status":     col(textType, true),
		"submitted_at":       col(tsType, true),
		"organization_id":    col("uuid", true),
		"created_at":         col(tsType, true),
		"updated_at":         col(tsType, true),
	}),
	"integrations": fallbackTable("integrations", map[string]models.Column{
		"organization_id":  col("uuid", true),
		"user_id":          col("uuid", true),
		"integration_type": col(textType, true),
		"status":           col(textType, true),
		"created_at":       col(tsType, true),
		"updated_at":       col(tsType, true),
	}),
	"job_interview_stages": fallbackTable("job_interview_stages", map[string]models.Column{
		"merge_id":         col(textType, false),
		"remote_id":        col(textType, true),
		"name":             col(textType, true),
		"stage_order":      col("integer", true),
		"job_id":           col(textType, true),
		"interview_type":   col(textType, true),
		"interview_format": col(textType, true),
		"status":           col(textType, true),
		"organization_id":  col("uuid", true),
		"created_at":       col(tsType, true),
		"updated_at":       col(tsType, true),
	}),
	"offers": fallbackTable("offers", map[string]models.Column{
		"merge_id":             col(textType, false),
		"remote_id":            col(textType, true),
		"application_merge_id": col(textType, true),
		"status":               col(textType, true),
		"start_date":           col(tsType, true),
		"offer_details":        col("jsonb", true),
		"sent_at":              col(tsType, true),
		"closed_at":            col(tsType, true),
		"organization_id":      col("uuid", true),
		"created_at":           col(tsType, true),
		"updated_at":           col(tsType, true),
	}),
	"offices": fallbackTable("offices", map[string]models.Column{
		"merge_id":        col(textType, false),
		"name":            col(textType, true),
		"location":        col(textType, true),
		"organization_id": col("uuid", true),
		"created_at":      col(tsType, true),
		"updated_at":      col(tsType, true),
	}),
	"query_failures": fallbackTable("query_failures", map[string]models.Column{
		"query":           col(textType, true),
		"error":           col(textType, true),
		"user_message":    col(textType, true),
		"resolved":        col("boolean", true),
		"organization_id": col("uuid", true),
		"created_at":      col(tsType, true),
	}),
	"reject_reasons": fallbackTable("reject_reasons", map[string]models.Column{
		"merge_id":        col(textType, false),
		"name":            col(textType, true),
		"remote_id":       col(textType, true),
		"organization_id": col("uuid", true),
		"created_at":      col(tsType, true),
		"updated_at":      col(tsType, true),
	}),
	"scheduled_interviews": fallbackTable("scheduled_interviews", map[string]models.Column{
		"merge_id":                    col(textType, false),
		"remote_id":                   col(textType, true),
		"application_merge_id":        col(textType, true),
		"job_interview_stage_merge_id": col(textType, true),
		"organizer_merge_id":          col(textType, true),
		"interviewers_merge_ids":      col("jsonb", true),
		"start_at":                    col(tsType, true),
		"end_at":                      col(tsType, true),
		"location":                    col(textType, true),
		"status":                      col(textType, true),
		"organization_id":             col("uuid", true),
		"created_at":                  col(tsType, true),
		"updated_at":                  col(tsType, true),
	}),
	"scorecards": fallbackTable("scorecards", map[string]models.Column{
		"merge_id":               col(textType, false),
		"remote_id":              col(textType, true),
		"application_merge_id":   col(textType, true),
		"interview_step_merge_id": col(textType, true),
		"interviewer_merge_id":   col(textType, true),
		"submitted_at":           col(tsType, true),
		"overall_recommendation": col(textType, true),
		"sections":               col("jsonb", true),
		"organization_id":        col("uuid", true),
		"created_at":             col(tsType, true),
		"updated_at":             col(tsType, true),
	}),
	"tags": fallbackTable("tags", map[string]models.Column{
		"merge_id":        col(textType, false),
		"name":            col(textType, true),
		"organization_id": col("uuid", true),
		"created_at":      col(tsType, true),
		"updated_at":      col(tsType, true),
	}),
}

// FallbackSchema returns the embedded schema for a known table, or nil.
func FallbackSchema(table string) *models.TableSchema {
	return fallbackSchemas[table]
}
