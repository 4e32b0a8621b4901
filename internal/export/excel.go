package export

import (
	"errors"
	"fmt"

	"github.com/sysu-ecnc-dev/roster-board/backend/internal/domain"
	"github.com/sysu-ecnc-dev/roster-board/backend/internal/roster"
	"github.com/xuri/excelize/v2"
)

// ErrNoRows 表示过滤后的行列表为空，调用方应提示用户而不是生成空文件
var ErrNoRows = errors.New("没有可导出的排班数据")

const sheetName = "Sheet1"

// 数据区前面的四个说明列: 序号、班次、部门、姓名
const leadingColumns = 4

// Filename 按固定模式生成下载文件名
func Filename(month, year int) string {
	return fmt.Sprintf("roster_%d_%d.xlsx", month, year)
}

// MonthlyRoster 将过滤后的行列表连同考勤状态和备注导出为表格文件。
// 班次列和部门列沿用行合并的键做纵向合并，
// 状态单元格按固定的状态-颜色表着色，备注以批注形式附在单元格上
func MonthlyRoster(rows []roster.Row, days int, statuses domain.StatusMap, notes domain.NoteMap) (*excelize.File, error) {
	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	f := excelize.NewFile()

	headers := []string{"序号", "班次", "部门", "姓名"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}
	for day := 1; day <= days; day++ {
		cell, _ := excelize.CoordinatesToCellName(leadingColumns+day, 1)
		f.SetCellValue(sheetName, cell, day)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, err
	}
	lastHeaderCell, _ := excelize.CoordinatesToCellName(leadingColumns+days, 1)
	if err := f.SetCellStyle(sheetName, "A1", lastHeaderCell, headerStyle); err != nil {
		return nil, err
	}

	// 每种状态颜色的样式只创建一次
	colorStyles := make(map[string]int)
	styleFor := func(code string) (int, bool, error) {
		color, ok := domain.StatusColors[code]
		if !ok {
			return 0, false, nil
		}
		if style, exists := colorStyles[color]; exists {
			return style, true, nil
		}
		style, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{
				Type:    "pattern",
				Color:   []string{color},
				Pattern: 1,
			},
			Alignment: &excelize.Alignment{
				Horizontal: "center",
				Vertical:   "center",
			},
		})
		if err != nil {
			return 0, false, err
		}
		colorStyles[color] = style
		return style, true, nil
	}

	shiftSpans, deptSpans := roster.Spans(rows)

	for i, row := range rows {
		excelRow := i + 2

		indexCell, _ := excelize.CoordinatesToCellName(1, excelRow)
		f.SetCellValue(sheetName, indexCell, i+1)

		if span := shiftSpans[i]; span > 0 {
			top, _ := excelize.CoordinatesToCellName(2, excelRow)
			f.SetCellValue(sheetName, top, row.ShiftLabel+" "+row.ShiftTime)
			if span > 1 {
				bottom, _ := excelize.CoordinatesToCellName(2, excelRow+span-1)
				if err := f.MergeCell(sheetName, top, bottom); err != nil {
					return nil, err
				}
			}
		}

		if span := deptSpans[i]; span > 0 {
			top, _ := excelize.CoordinatesToCellName(3, excelRow)
			f.SetCellValue(sheetName, top, row.Department)
			if span > 1 {
				bottom, _ := excelize.CoordinatesToCellName(3, excelRow+span-1)
				if err := f.MergeCell(sheetName, top, bottom); err != nil {
					return nil, err
				}
			}
		}

		nameCell, _ := excelize.CoordinatesToCellName(4, excelRow)
		f.SetCellValue(sheetName, nameCell, row.FullName)

		for day := 1; day <= days; day++ {
			cell, _ := excelize.CoordinatesToCellName(leadingColumns+day, excelRow)

			if code := statuses.Get(row.StaffID, day); code != "" {
				f.SetCellValue(sheetName, cell, code)

				style, colored, err := styleFor(code)
				if err != nil {
					return nil, err
				}
				if colored {
					if err := f.SetCellStyle(sheetName, cell, cell, style); err != nil {
						return nil, err
					}
				}
			}

			if note := notes.Get(row.StaffID, day); note != "" {
				comment := excelize.Comment{
					Cell:   cell,
					Author: "roster-board",
					Paragraph: []excelize.RichTextRun{
						{Text: note},
					},
				}
				if err := f.AddComment(sheetName, comment); err != nil {
					return nil, err
				}
			}
		}
	}

	return f, nil
}
