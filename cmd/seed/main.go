package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/ktakagi/sensho-backend/config"
	"github.com/ktakagi/sensho-backend/internal/app/model"
	"github.com/ktakagi/sensho-backend/internal/app/repository"
	"github.com/ktakagi/sensho-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// Seeds the book cache from a publisher catalog XLSX. Expected columns:
// ISBN, 書名, 著者, 出版社, 発行年月, 利用対象, ジャンル, 本体価格, 巻数, セット販売.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	cacheRepo := repository.NewBookCacheRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	books, err := readBooksFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total books to import: %d\n", len(books))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	batchSize := 500
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := cacheRepo.BulkCreate(books, batchSize); err != nil {
		log.Fatal("Failed to bulk create books:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total books imported: %d\n", len(books))
}

func readBooksFromXLSX(filePath string) ([]model.BookCache, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var books []model.BookCache
	seenISBNs := make(map[string]bool)
	skippedCount := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 4 {
			skippedCount++
			continue
		}

		isbn := normalizeISBN(cell(row, 0))
		title := cell(row, 1)
		author := cell(row, 2)
		publisher := cell(row, 3)
		publishedDate := cell(row, 4)
		targetAudience := cell(row, 5)
		genre := cell(row, 6)
		priceStr := cell(row, 7)
		volumeStr := cell(row, 8)
		setOnlyStr := cell(row, 9)

		if isbn == "" || title == "" {
			skippedCount++
			continue
		}
		if seenISBNs[isbn] {
			skippedCount++
			continue
		}
		seenISBNs[isbn] = true

		var price *float64
		if p, err := strconv.ParseFloat(strings.ReplaceAll(priceStr, ",", ""), 64); err == nil && p > 0 {
			price = &p
		}

		volumeCount := 1
		if v, err := strconv.Atoi(volumeStr); err == nil && v > 0 {
			volumeCount = v
		}

		isSetOnly := setOnlyStr == "○" || strings.EqualFold(setOnlyStr, "yes")

		books = append(books, model.BookCache{
			ISBN:           isbn,
			Title:          title,
			Author:         author,
			Publisher:      publisher,
			PublishedDate:  publishedDate,
			TargetAudience: targetAudience,
			Genre:          genre,
			Price:          price,
			VolumeCount:    volumeCount,
			IsSetOnly:      isSetOnly,
		})

		if len(books)%500 == 0 {
			fmt.Printf("Processed %d books...\n", len(books))
		}
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Valid books: %d\n", len(books))
	fmt.Printf("  Skipped rows: %d\n", skippedCount)

	return books, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func normalizeISBN(raw string) string {
	return strings.ReplaceAll(raw, "-", "")
}
