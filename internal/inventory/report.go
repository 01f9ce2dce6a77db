package inventory

import (
	"context"
	"sort"

	"github.com/erazemk/popis/internal/model"
)

// ReportRow is a saved count with its computed status.
type ReportRow struct {
	model.Result
	Discrepancy
}

// Report is the read-back of a session's saved counts.
type Report struct {
	Session         model.Session          `json:"session"`
	Results         []ReportRow            `json:"results"`
	AdditionalItems []model.AdditionalItem `json:"additional_items"`
	Stats           Stats                  `json:"stats"`
}

// reportOrder lists discrepancies before matches.
var reportOrder = map[Status]int{
	StatusMissing: 0,
	StatusDeficit: 1,
	StatusSurplus: 2,
	StatusMatch:   3,
}

// Report builds the report of a session from its saved counts. Rows are
// ordered by status, then type and name.
func (s *Service) Report(ctx context.Context, sessionID int64) (*Report, error) {
	session, err := s.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	results, err := s.sessions.ListResults(ctx, session.ID)
	if err != nil {
		return nil, storageErr("listing results", err)
	}
	additional, err := s.sessions.ListAdditionalItems(ctx, session.ID)
	if err != nil {
		return nil, storageErr("listing additional items", err)
	}

	report := &Report{Session: *session, AdditionalItems: additional}
	counted := make([]Counted, 0, len(results))
	for _, r := range results {
		report.Results = append(report.Results, ReportRow{
			Result:      r,
			Discrepancy: ComputeItemStatus(r.ExpectedQuantity, r.ActualQuantity),
		})
		counted = append(counted, Counted{Expected: r.ExpectedQuantity, Actual: r.ActualQuantity})
	}
	report.Stats = ComputeStatistics(counted)

	sort.SliceStable(report.Results, func(i, j int) bool {
		a, b := report.Results[i], report.Results[j]
		if reportOrder[a.Status] != reportOrder[b.Status] {
			return reportOrder[a.Status] < reportOrder[b.Status]
		}
		if a.TypeName != b.TypeName {
			return a.TypeName < b.TypeName
		}
		return a.EquipmentName < b.EquipmentName
	})
	sort.SliceStable(report.AdditionalItems, func(i, j int) bool {
		a, b := report.AdditionalItems[i], report.AdditionalItems[j]
		if a.TypeName != b.TypeName {
			return a.TypeName < b.TypeName
		}
		return a.Name < b.Name
	})
	return report, nil
}
