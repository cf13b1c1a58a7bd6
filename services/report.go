package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"support_desk_go/models"

	"github.com/xuri/excelize/v2"
)

// QueryStats summarizes the query collection for the dashboard
type QueryStats struct {
	Total             int            `json:"total"`
	Open              int            `json:"open"`
	Pending           int            `json:"pending"`
	ResolvedToday     int            `json:"resolvedToday"`
	AutoResponsesSent int            `json:"autoResponsesSent"`
	ByStatus          map[string]int `json:"byStatus"`
	ByCategory        map[string]int `json:"byCategory"`
	ByPriority        map[string]int `json:"byPriority"`
}

// Stats counts queries by status, category and priority. Pending covers queries
// nobody has picked up yet; resolved today uses the last update date.
func (s *QueryService) Stats(ctx context.Context, now time.Time) (*QueryStats, error) {
	queries, err := s.repo.Queries(ctx)
	if err != nil {
		return nil, err
	}

	stats := &QueryStats{
		Total:      len(queries),
		ByStatus:   make(map[string]int),
		ByCategory: make(map[string]int),
		ByPriority: make(map[string]int),
	}
	for _, status := range models.ValidQueryStatuses {
		stats.ByStatus[status] = 0
	}

	y, m, d := now.Date()
	for _, q := range queries {
		stats.ByStatus[q.Status]++
		stats.ByCategory[q.Category]++
		stats.ByPriority[q.Priority]++

		if q.IsOpen() {
			stats.Open++
		}
		if q.Status == models.QueryStatusNew || q.Status == models.QueryStatusAcknowledged {
			stats.Pending++
		}
		if q.AutoResponseSent {
			stats.AutoResponsesSent++
		}
		if q.Status == models.QueryStatusResolved {
			uy, um, ud := q.UpdatedAt.In(now.Location()).Date()
			if uy == y && um == m && ud == d {
				stats.ResolvedToday++
			}
		}
	}
	return stats, nil
}

var exportHeaders = []string{
	"ID", "Created", "Updated", "Customer", "Email", "Phone", "Subject", "Message",
	"Category", "Priority", "Status", "Assigned To", "Auto Response", "Follow-up", "Tags",
}

// ExportXLSX writes the filtered queries to a spreadsheet
func (s *QueryService) ExportXLSX(ctx context.Context, filter QueryFilter) (*bytes.Buffer, error) {
	queries, err := s.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Queries"
	f.SetSheetName("Sheet1", sheet)

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	lastCol, _ := excelize.ColumnNumberToName(len(exportHeaders))
	f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle)
	f.SetColWidth(sheet, "A", lastCol, 20)
	f.SetColWidth(sheet, "H", "H", 60)

	for i, q := range queries {
		row := i + 2
		followUp := ""
		if q.FollowUpScheduled != nil {
			followUp = q.FollowUpScheduled.Format(time.RFC3339)
		}
		autoResponse := "No"
		if q.AutoResponseSent {
			autoResponse = "Yes"
		}
		values := []interface{}{
			q.ID,
			q.CreatedAt.Format(time.RFC3339),
			q.UpdatedAt.Format(time.RFC3339),
			q.CustomerName,
			q.CustomerEmail,
			q.CustomerPhone,
			q.Subject,
			q.Message,
			q.Category,
			q.Priority,
			q.Status,
			q.AssignedTo,
			autoResponse,
			followUp,
			strings.Join(q.Tags, ", "),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return buf, nil
}
