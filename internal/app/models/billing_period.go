package models

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseBillingPeriod validates a competencia in the 6-digit YYYYMM form.
// Inputs such as "2024-01" or "01/2024" are accepted and normalized.
func ParseBillingPeriod(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if len(value) == 7 && (value[4] == '-' || value[4] == '/') {
		value = value[:4] + value[5:]
	} else if len(value) == 7 && value[2] == '/' {
		value = value[3:] + value[:2]
	}

	if len(value) != 6 {
		return "", fmt.Errorf("billing period %q must have 6 digits (YYYYMM)", raw)
	}
	year, err := strconv.Atoi(value[:4])
	if err != nil || year < 1900 {
		return "", fmt.Errorf("billing period %q has an invalid year", raw)
	}
	month, err := strconv.Atoi(value[4:])
	if err != nil || month < 1 || month > 12 {
		return "", fmt.Errorf("billing period %q has an invalid month", raw)
	}
	return value, nil
}
