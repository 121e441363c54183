package admin

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"primetop-backend/internal/audit"
	"primetop-backend/internal/database"
	"primetop-backend/internal/models"
)

// Массовая загрузка остатков из .xlsx.
// Колонки: A — ID серии, B — количество, C — ID клиента (пусто = общий склад).

type importRow struct {
	SeriesID uint
	Quantity float64
	ClientID *uint
}

type importResult struct {
	Imported int      `json:"imported"`
	Skipped  []string `json:"skipped"`
}

// parseImportRow разбирает одну строку таблицы.
func parseImportRow(row []string) (*importRow, error) {
	if len(row) < 2 {
		return nil, fmt.Errorf("ожидается минимум 2 колонки, получено %d", len(row))
	}

	seriesID, err := strconv.Atoi(strings.TrimSpace(row[0]))
	if err != nil || seriesID <= 0 {
		return nil, fmt.Errorf("неверный ID серии %q", row[0])
	}

	quantity, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(row[1]), ",", "."), 64)
	if err != nil || quantity < 0 {
		return nil, fmt.Errorf("неверное количество %q", row[1])
	}

	parsed := importRow{SeriesID: uint(seriesID), Quantity: quantity}
	if len(row) >= 3 && strings.TrimSpace(row[2]) != "" {
		clientID, err := strconv.Atoi(strings.TrimSpace(row[2]))
		if err != nil || clientID <= 0 {
			return nil, fmt.Errorf("неверный ID клиента %q", row[2])
		}
		cid := uint(clientID)
		parsed.ClientID = &cid
	}
	return &parsed, nil
}

func isImportHeader(row []string) bool {
	if len(row) == 0 {
		return false
	}
	first := strings.ToUpper(strings.TrimSpace(row[0]))
	return strings.Contains(first, "СЕРИЯ") || strings.Contains(first, "SERIES")
}

// ImportStocksHandler принимает .xlsx и создаёт складские строки пачкой.
// Строки с ошибками пропускаются и возвращаются в ответе, остальные
// записываются в одной транзакции.
func ImportStocksHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Файл не загружен: "+err.Error())
		}
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "Поддерживаются только файлы .xlsx")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Не удалось открыть файл: "+err.Error())
		}
		defer file.Close()

		excelFile, err := excelize.OpenReader(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Не удалось прочитать Excel-файл: "+err.Error())
		}
		defer excelFile.Close()

		sheetList := excelFile.GetSheetList()
		if len(sheetList) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "В файле нет ни одного листа")
		}
		rows, err := excelFile.GetRows(sheetList[0])
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Не удалось прочитать лист: "+err.Error())
		}
		if len(rows) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Файл пуст")
		}

		startIndex := 0
		if isImportHeader(rows[0]) {
			startIndex = 1
		}

		result := importResult{Skipped: []string{}}
		var parsed []importRow
		for i := startIndex; i < len(rows); i++ {
			row := rows[i]
			if len(row) == 0 {
				continue
			}
			pr, err := parseImportRow(row)
			if err != nil {
				result.Skipped = append(result.Skipped, fmt.Sprintf("строка %d: %v", i+1, err))
				continue
			}
			parsed = append(parsed, *pr)
		}

		userID, email, err := actor(c)
		if err != nil {
			return err
		}
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			now := time.Now()
			for _, pr := range parsed {
				var count int64
				if err := tx.Model(&models.Series{}).Where("id = ?", pr.SeriesID).Count(&count).Error; err != nil {
					return err
				}
				if count == 0 {
					result.Skipped = append(result.Skipped,
						fmt.Sprintf("серия %d не найдена", pr.SeriesID))
					continue
				}
				if pr.ClientID != nil {
					if err := tx.Model(&models.Client{}).Where("id = ?", *pr.ClientID).Count(&count).Error; err != nil {
						return err
					}
					if count == 0 {
						result.Skipped = append(result.Skipped,
							fmt.Sprintf("клиент %d не найден", *pr.ClientID))
						continue
					}
				}

				seriesID := pr.SeriesID
				stock := models.Stock{
					SeriesID:  &seriesID,
					ClientID:  pr.ClientID,
					Quantity:  pr.Quantity,
					UpdatedAt: now,
				}
				if err := tx.Create(&stock).Error; err != nil {
					return err
				}
				result.Imported++
			}

			audit.Write(tx, userID, email, "stock", 0, models.AuditActionImport,
				fmt.Sprintf("импорт остатков из %s: %d строк", fileHeader.Filename, result.Imported),
				nil, result)
			return nil
		})
		if err != nil {
			return err
		}

		return c.JSON(result)
	}
}
