package dto

import "fmt"

func monthLabel(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}
