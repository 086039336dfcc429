package services

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	planSheet    = "Plan"
	backlogSheet = "Backlog"
)

var lineHeader = []interface{}{
	"Machine", "Order", "Customer", "Product", "Priority", "Delivery", "Quantity", "Produced", "Progress %", "Status",
}

// WritePlanWorkbook renders the week as a workbook with the planned lines per
// machine and the unassigned backlog. The caller closes the file.
func WritePlanWorkbook(view WeekView) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", planSheet); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(backlogSheet); err != nil {
		f.Close()
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}

	title := fmt.Sprintf("Production plan, week of %s", view.WeekStart)
	if err := f.SetCellValue(planSheet, "A1", title); err != nil {
		f.Close()
		return nil, err
	}
	f.SetCellStyle(planSheet, "A1", "A1", bold)

	row := 3
	if err := writeRow(f, planSheet, row, lineHeader, bold); err != nil {
		f.Close()
		return nil, err
	}
	row++

	for _, m := range view.Machines {
		for _, l := range m.Lines {
			if err := writeRow(f, planSheet, row, lineValues(m.Machine.Name, l), 0); err != nil {
				f.Close()
				return nil, err
			}
			row++
		}
		subtotal := []interface{}{
			fmt.Sprintf("%s total", m.Machine.Name), "", "", "", "", "",
			m.ProductionGoal, "", fmt.Sprintf("%.1f%% of capacity", m.Utilization), "",
		}
		if err := writeRow(f, planSheet, row, subtotal, bold); err != nil {
			f.Close()
			return nil, err
		}
		row += 2
	}

	if err := writeRow(f, planSheet, row, []interface{}{"Total planned", "", "", "", "", "", view.Metrics.TotalPlanned}, bold); err != nil {
		f.Close()
		return nil, err
	}

	if err := writeRow(f, backlogSheet, 1, lineHeader, bold); err != nil {
		f.Close()
		return nil, err
	}
	for i, l := range view.UnassignedOrders {
		if err := writeRow(f, backlogSheet, i+2, lineValues("", l), 0); err != nil {
			f.Close()
			return nil, err
		}
	}

	for _, sheet := range []string{planSheet, backlogSheet} {
		f.SetColWidth(sheet, "A", "A", 22)
		f.SetColWidth(sheet, "B", "J", 14)
	}
	return f, nil
}

func lineValues(machine string, l LineView) []interface{} {
	return []interface{}{
		machine,
		l.OrderNumber,
		l.CustomerName,
		l.ProductCode,
		string(l.Priority),
		l.DeliveryDate.Format("2006-01-02"),
		l.Quantity,
		l.Produced,
		l.Progress,
		string(l.Status),
	}
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}, style int) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return err
	}
	if style == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(len(values), row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, cell, last, style)
}
