package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xenocrm/crm-backend/internal/models"
)

// CustomerRecord is one parsed row of a customer seed file
type CustomerRecord struct {
	Line     int
	Customer models.Customer
}

// ParseCustomerCSV parses a customer seed file with the header
// name,email,totalSpends,visits,lastVisit. Rows that fail to parse are
// reported as errors alongside the rows that succeeded.
func ParseCustomerCSV(r io.Reader) ([]CustomerRecord, []error) {
	reader := csv.NewReader(r)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, []error{fmt.Errorf("failed to parse CSV: %w", err)}
	}

	if len(rows) < 2 {
		return nil, []error{fmt.Errorf("CSV file is empty or has only a header")}
	}

	var records []CustomerRecord
	var errs []error
	for i, row := range rows {
		if i == 0 {
			continue
		}
		record, err := parseCustomerRow(row)
		if err != nil {
			errs = append(errs, fmt.Errorf("row %d: %w", i+1, err))
			continue
		}
		record.Line = i + 1
		records = append(records, record)
	}

	return records, errs
}

func parseCustomerRow(row []string) (CustomerRecord, error) {
	if len(row) < 2 {
		return CustomerRecord{}, fmt.Errorf("expected at least name and email, got %d fields", len(row))
	}

	name := strings.TrimSpace(row[0])
	email := strings.ToLower(strings.TrimSpace(row[1]))
	if name == "" || email == "" {
		return CustomerRecord{}, fmt.Errorf("name and email are required")
	}
	if !strings.Contains(email, "@") {
		return CustomerRecord{}, fmt.Errorf("invalid email %q", email)
	}

	customer := models.Customer{
		Name:      name,
		Email:     email,
		LastVisit: time.Now(),
	}

	if len(row) > 2 && strings.TrimSpace(row[2]) != "" {
		spends, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		if err != nil {
			return CustomerRecord{}, fmt.Errorf("invalid totalSpends %q", row[2])
		}
		customer.TotalSpends = spends
	}

	if len(row) > 3 && strings.TrimSpace(row[3]) != "" {
		visits, err := strconv.Atoi(strings.TrimSpace(row[3]))
		if err != nil {
			return CustomerRecord{}, fmt.Errorf("invalid visits %q", row[3])
		}
		customer.Visits = visits
	}

	if len(row) > 4 && strings.TrimSpace(row[4]) != "" {
		lastVisit, err := time.Parse("2006-01-02", strings.TrimSpace(row[4]))
		if err != nil {
			return CustomerRecord{}, fmt.Errorf("invalid lastVisit %q", row[4])
		}
		customer.LastVisit = lastVisit
	}

	return CustomerRecord{Customer: customer}, nil
}
