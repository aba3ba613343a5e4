// Package report renders attendance logs as spreadsheets.
package report

import (
	"fmt"
	"io"

	"github.com/phrazzld/attendance-api/internal/domain"
	"github.com/xuri/excelize/v2"
)

// AttendanceSheet is the worksheet name in exported workbooks.
const AttendanceSheet = "Attendance"

// XLSXContentType is the media type of the workbook WriteAttendanceXLSX produces.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var attendanceHeader = []interface{}{
	"User", "Type", "Start", "End", "Hours", "Reason", "Priority",
	"Approver", "Proxy", "Status", "Created",
}

const timeLayout = "2006-01-02 15:04"

// WriteAttendanceXLSX writes logs as one row each, under a header row.
func WriteAttendanceXLSX(w io.Writer, logs []*domain.AttendanceLog) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), AttendanceSheet); err != nil {
		return fmt.Errorf("failed to name worksheet: %w", err)
	}

	if err := f.SetSheetRow(AttendanceSheet, "A1", &attendanceHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, a := range logs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		priority := ""
		if a.ReasonPriority != nil {
			priority = a.ReasonPriority.String()
		}

		row := []interface{}{
			a.UserName,
			a.Type.String(),
			a.StartDateTime.Format(timeLayout),
			a.EndDateTime.Format(timeLayout),
			a.Hours,
			a.Reason,
			priority,
			a.Approver,
			a.ProxyUserName,
			string(a.Status),
			a.CreatedAt.Format(timeLayout),
		}
		if err := f.SetSheetRow(AttendanceSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(AttendanceSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
