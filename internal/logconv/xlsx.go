package logconv

import (
	"fmt"
	"io"
	"time"

	api "github.com/macrat/isdown/lib-isdown"
	"github.com/xuri/excelize/v2"
)

// MaxXlsxRows is the maximum number of observations in a spreadsheet.
const MaxXlsxRows = 100000

const xlsxSheet = "history"

func excelPos(x, y uint) string {
	pos, err := excelize.CoordinatesToCellName(int(x+1), int(y+1))
	if err != nil {
		panic(err)
	}
	return pos
}

// ToXlsx writes history as a spreadsheet.
// Timestamps are shown in the location of createdAt.
func ToXlsx(w io.Writer, h api.History, createdAt time.Time) error {
	xlsx := excelize.NewFile()
	defer xlsx.Close()
	xlsx.SetSheetName("Sheet1", xlsxSheet)

	xlsx.SetAppProps(&excelize.AppProperties{
		Application: "isdown",
	})
	xlsx.SetDocProps(&excelize.DocProperties{
		Created:        createdAt.Format(time.RFC3339),
		Modified:       createdAt.Format(time.RFC3339),
		Creator:        "isdown",
		LastModifiedBy: "isdown",
	})

	zone, _ := createdAt.Zone()
	xlsx.SetCellStr(xlsxSheet, "A1", fmt.Sprintf("timestamp (%s)", zone))
	xlsx.SetCellStr(xlsxSheet, "B1", "http_up")
	xlsx.SetCellStr(xlsxSheet, "C1", "ssh_up")
	xlsx.SetCellStr(xlsxSheet, "D1", "ping_up")
	xlsx.SetCellStr(xlsxSheet, "E1", "up")

	colors := map[bool]string{
		true:  "89C923",
		false: "FF2D00",
	}

	styles := make(map[string]int)
	style := func(color string, border int, format *string) int {
		key := fmt.Sprintf("%s/%d/%v", color, border, format != nil)
		if id, ok := styles[key]; ok {
			return id
		}
		id, _ := xlsx.NewStyle(&excelize.Style{
			CustomNumFmt: format,
			Border:       []excelize.Border{{Type: "bottom", Style: border, Color: color}},
		})
		styles[key] = id
		return id
	}

	setValue := func(x, y uint, value any, sid int) {
		pos := excelPos(x, y)
		xlsx.SetCellValue(xlsxSheet, pos, value)
		xlsx.SetCellStyle(xlsxSheet, pos, pos, sid)
	}
	datefmt := "yyyy-mm-dd hh:mm:ss"

	for i, o := range h {
		if i >= MaxXlsxRows {
			break
		}
		row := uint(i + 1)

		up := isUp(o)
		color := colors[up]

		setValue(0, row, o.Timestamp.In(createdAt.Location()), style(color, 1, &datefmt))
		setValue(1, row, o.HTTPUp, style(color, 1, nil))
		setValue(2, row, o.SSHUp, style(color, 1, nil))
		if o.HasPing() {
			setValue(3, row, *o.PingUp, style(color, 1, nil))
		} else {
			xlsx.SetCellStyle(xlsxSheet, excelPos(3, row), excelPos(3, row), style(color, 1, nil))
		}
		setValue(4, row, up, style(color, 5, nil))
	}

	if err := xlsx.SetPanes(xlsxSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	xlsx.SetColWidth(xlsxSheet, "A", "A", 20)
	xlsx.SetColWidth(xlsxSheet, "B", "E", 10)

	xlsx.AutoFilter(xlsxSheet, "A1:E1", nil)

	return xlsx.Write(w)
}
