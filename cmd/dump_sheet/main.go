package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/raushankrgupta/contact-form-service/config"
	"github.com/raushankrgupta/contact-form-service/spreadsheet"
)

// Prints the contact submissions log as JSON, one object per row.
func main() {
	config.LoadConfig()

	path := flag.String("file", config.GetEnv("SPREADSHEET_PATH", "data.xlsx"), "workbook to read")
	sheet := flag.String("sheet", config.GetEnv("SHEET_NAME", "Form Submissions"), "sheet name")
	flag.Parse()

	rows, err := spreadsheet.ReadRows(*path, *sheet)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *path, err)
	}

	out := make([]map[string]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Map())
	}

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode rows: %v", err)
	}
	fmt.Println(string(b))
	fmt.Fprintf(os.Stderr, "%d row(s) in %q\n", len(rows), *sheet)
}
