// Command seedvocab converts a clinical vocabulary Excel workbook into a SQL
// seed file. The workbook carries one sheet per category (Conditions,
// Medications, Procedures) with terms in the first column.
// Usage: go run ./cmd/seedvocab [workbook.xlsx]
// Output: db/seeds/vocabulary_terms.sql
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

const batchSize = 500

// sheetCategories maps workbook sheet names to vocabulary categories.
var sheetCategories = map[string]string{
	"Conditions":  "condition",
	"Medications": "medication",
	"Procedures":  "procedure",
}

type vocabEntry struct {
	category string
	term     string
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	xlsxPath := "clinical_vocabulary.xlsx"
	if len(os.Args) > 1 {
		xlsxPath = os.Args[1]
	}
	outPath := "db/seeds/vocabulary_terms.sql"

	f, err := excelize.OpenFile(xlsxPath)
	if err != nil {
		return fmt.Errorf("open Excel file: %w", err)
	}
	defer func() { _ = f.Close() }()

	seen := make(map[string]bool)
	var entries []vocabEntry

	for _, sheet := range f.GetSheetList() {
		category, ok := sheetCategories[sheet]
		if !ok {
			log.Printf("skipping unrecognized sheet %q", sheet)
			continue
		}

		sheetEntries, err := parseSheet(f, sheet, category, seen)
		if err != nil {
			return fmt.Errorf("parse sheet %s: %w", sheet, err)
		}
		entries = append(entries, sheetEntries...)
		log.Printf("%s sheet: %d entries", sheet, len(sheetEntries))
	}

	if len(entries) == 0 {
		return fmt.Errorf("no vocabulary terms found in %s", xlsxPath)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = out.Close() }()

	w := func(s string) error { _, werr := fmt.Fprintln(out, s); return werr }

	for _, line := range []string{
		"-- Clinical vocabulary seed data generated from Excel.",
		fmt.Sprintf("-- %d terms in batches of %d.", len(entries), batchSize),
		"-- Run: make seed-vocab",
		"BEGIN;",
		"",
	} {
		if werr := w(line); werr != nil {
			return fmt.Errorf("write header: %w", werr)
		}
	}

	for i := 0; i < len(entries); i += batchSize {
		end := i + batchSize
		if end > len(entries) {
			end = len(entries)
		}
		if err := writeBatch(out, entries[i:end]); err != nil {
			return fmt.Errorf("write batch at offset %d: %w", i, err)
		}
	}

	for _, line := range []string{"", "COMMIT;"} {
		if werr := w(line); werr != nil {
			return fmt.Errorf("write footer: %w", werr)
		}
	}

	log.Printf("Generated %d terms (%d batches) in %s",
		len(entries), (len(entries)+batchSize-1)/batchSize, outPath)
	return nil
}

// parseSheet reads terms from the first column of a sheet, skipping the
// header row and blanks. Terms are lowercased for case-insensitive matching.
func parseSheet(f *excelize.File, sheet, category string, seen map[string]bool) ([]vocabEntry, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}

	var entries []vocabEntry
	for i := 1; i < len(rows); i++ {
		if len(rows[i]) == 0 {
			continue
		}
		term := strings.ToLower(strings.TrimSpace(rows[i][0]))
		if term == "" {
			continue
		}

		key := category + "|" + term
		if seen[key] {
			continue
		}
		seen[key] = true
		entries = append(entries, vocabEntry{category: category, term: term})
	}
	return entries, nil
}

func writeBatch(out *os.File, batch []vocabEntry) error {
	if len(batch) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString("INSERT INTO vocabulary_terms (id, category, term) VALUES\n")

	for i := range batch {
		e := &batch[i]
		if i > 0 {
			b.WriteString(",\n")
		}
		fmt.Fprintf(&b, "  (gen_random_uuid(), '%s', '%s')", e.category, escapeSQL(e.term))
	}

	b.WriteString("\nON CONFLICT (category, term) DO NOTHING;\n")

	_, err := out.WriteString(b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
