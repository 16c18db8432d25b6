package report

import (
	"fmt"
	"io"

	"github.com/garyjia/leave-desk/internal/domain/entity"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// DefaultSheetName is used when no sheet name is configured
const DefaultSheetName = "Leaves"

var header = []interface{}{"ID", "Employee ID", "Employee", "Start Date", "End Date", "Reason", "Status"}

var columnWidths = map[string]float64{
	"A": 8, "B": 12, "C": 20, "D": 12, "E": 12, "F": 40, "G": 12,
}

// ExcelExporter renders the administrator leave table as a workbook
type ExcelExporter struct {
	sheetName string
	logger    *zap.Logger
}

// NewExcelExporter creates a new exporter writing to the named sheet
func NewExcelExporter(sheetName string, logger *zap.Logger) *ExcelExporter {
	if sheetName == "" {
		sheetName = DefaultSheetName
	}
	return &ExcelExporter{
		sheetName: sheetName,
		logger:    logger,
	}
}

// Write renders leaves in document order and writes the workbook to w.
// Employee names are resolved from employees; unknown IDs leave the cell empty.
func (e *ExcelExporter) Write(w io.Writer, leaves []entity.LeaveApplication, employees []entity.Employee) error {
	f, err := e.build(leaves, employees)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveAs renders the workbook to a file
func (e *ExcelExporter) SaveAs(path string, leaves []entity.LeaveApplication, employees []entity.Employee) error {
	f, err := e.build(leaves, employees)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}

	e.logger.Info("Leave table exported",
		zap.String("output_path", path),
		zap.Int("rows", len(leaves)))
	return nil
}

func (e *ExcelExporter) build(leaves []entity.LeaveApplication, employees []entity.Employee) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), e.sheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("invalid sheet name %q: %w", e.sheetName, err)
	}
	sheet := e.sheetName

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	e.styleHeader(f, sheet)

	names := make(map[int]string, len(employees))
	for _, employee := range employees {
		if _, ok := names[employee.ID]; !ok {
			names[employee.ID] = employee.Name
		}
	}

	for i, leave := range leaves {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		row := []interface{}{
			leave.ID,
			leave.EmployeeID,
			names[leave.EmployeeID],
			leave.StartDate.String(),
			leave.EndDate.String(),
			leave.Reason,
			leave.Status.String(),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	for col, width := range columnWidths {
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			e.logger.Warn("Failed to set column width", zap.String("column", col), zap.Error(err))
		}
	}

	return f, nil
}

func (e *ExcelExporter) styleHeader(f *excelize.File, sheet string) {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		e.logger.Warn("Failed to create header style", zap.Error(err))
		return
	}
	if err := f.SetCellStyle(sheet, "A1", "G1", style); err != nil {
		e.logger.Warn("Failed to apply header style", zap.Error(err))
	}
}
