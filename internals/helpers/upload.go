package helper

import (
	"github.com/gofiber/fiber/v2"
)

const maxCSVUpload = 5 << 20

// ReadUploadedCSV reads the multipart file in field and parses it with ReadCSV.
func ReadUploadedCSV(c *fiber.Ctx, field string) ([]CSVRow, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "CSV file is required (field: "+field+")")
	}
	if fh.Size > maxCSVUpload {
		return nil, fiber.NewError(fiber.StatusRequestEntityTooLarge, "CSV file must be 5MB or smaller")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Cannot read uploaded file")
	}
	defer f.Close()

	rows, err := ReadCSV(f)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid CSV: "+err.Error())
	}
	return rows, nil
}
