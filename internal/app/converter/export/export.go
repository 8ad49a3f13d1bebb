package export

import (
	"fmt"
	"time"

	"github.com/tealeg/xlsx"

	"iflytek-asr/internal/app/model"
)

// ToExcel writes history rows to an xlsx workbook at outputFilePath.
func ToExcel(transcriptions []model.Transcription, outputFilePath string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Transcriptions")
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	headerRow.AddCell().Value = "ID"
	headerRow.AddCell().Value = "User"
	headerRow.AddCell().Value = "Provider"
	headerRow.AddCell().Value = "Order ID"
	headerRow.AddCell().Value = "Last Conversion Time"
	headerRow.AddCell().Value = "File Name"
	headerRow.AddCell().Value = "Audio Duration"
	headerRow.AddCell().Value = "Transcription"
	headerRow.AddCell().Value = "Error Message"

	for _, t := range transcriptions {
		row := sheet.AddRow()
		row.AddCell().Value = fmt.Sprint(t.ID)
		row.AddCell().Value = t.User
		row.AddCell().Value = t.Provider
		row.AddCell().Value = t.OrderID
		row.AddCell().Value = t.LastConversionTime.Format(time.RFC3339)
		row.AddCell().Value = t.FileName
		row.AddCell().Value = fmt.Sprintf("%.2f", t.AudioDuration)
		row.AddCell().Value = t.Transcription
		row.AddCell().Value = t.ErrorMessage
	}

	if err := file.Save(outputFilePath); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
