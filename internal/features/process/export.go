package process

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

var exportColumns = []string{"ID", "Kind", "Status", "Priority", "Category", "Subject", "Counterparty", "Assignee", "Start Date", "Steps", "Open Reminders", "Fee", "Fee Waived"}

// ExportToExcel renders the listing as a single sheet workbook.
func ExportToExcel(processes []Process) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Processes"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, p := range processes {
		row := exportRow(p)
		for colIdx, v := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exportRow(p Process) []any {
	priority := ""
	if p.Priority != nil {
		priority = fmt.Sprint(*p.Priority)
	}
	assignee := ""
	if p.AssigneeID != nil {
		assignee = *p.AssigneeID
	}
	fee, waived := "", ""
	if td := p.TransferDetails; td != nil {
		if td.Fee != nil {
			fee = fmt.Sprintf("%.2f %s", float64(td.Fee.Amount)/100, strings.ToUpper(td.Fee.Currency))
		}
		waived = fmt.Sprint(td.IsFeeWaived)
	}
	return []any{
		p.ID.Hex(), string(p.Kind), string(p.Status), priority, string(Classify(p.Priority)),
		p.SubjectID, p.CounterpartyID, assignee, p.StartDate.Format("2006-01-02"),
		len(p.Steps), len(p.Reminders), fee, waived,
	}
}
