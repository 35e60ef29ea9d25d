package services

import (
	"fmt"
	"sort"
	"strings"

	"daraz-scraper/models"
	"daraz-scraper/utils"
)

// QualityReport summarizes a normalized batch for the run log.
type QualityReport struct {
	Total           int
	CompleteInfo    int
	Duplicates      int
	ByBrand         map[string]int
	ByPriceCategory map[string]int
}

// ReportService computes and prints batch quality summaries.
type ReportService struct {
	logger *utils.Logger
}

// NewReportService creates a ReportService with the given logger.
func NewReportService(logger *utils.Logger) *ReportService {
	return &ReportService{logger: logger}
}

// Generate builds the quality summary for a normalized batch.
func (s *ReportService) Generate(records []*models.NormalizedRecord) *QualityReport {
	report := &QualityReport{
		ByBrand:         make(map[string]int),
		ByPriceCategory: make(map[string]int),
	}

	report.Total = len(records)
	for _, r := range records {
		if r.HasCompleteInfo {
			report.CompleteInfo++
		}
		if r.IsDuplicate {
			report.Duplicates++
		}
		report.ByBrand[r.Brand]++
		report.ByPriceCategory[r.PriceCategory]++
	}
	return report
}

// Print renders the report to stdout.
func (s *ReportService) Print(r *QualityReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  DATA QUALITY SUMMARY\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Total records   : \033[1m%d\033[0m\n", r.Total)
	fmt.Printf("  Complete info   : \033[1m%d / %d\033[0m\n", r.CompleteInfo, r.Total)
	fmt.Printf("  Duplicates      : \033[1m%d\033[0m\n", r.Duplicates)
	fmt.Println()

	fmt.Printf("\033[1;33m  Brand Distribution\033[0m\n")
	fmt.Printf("  %s\n", thin)
	printCounts(r.ByBrand)
	fmt.Println()

	fmt.Printf("\033[1;33m  Price Category Distribution\033[0m\n")
	fmt.Printf("  %s\n", thin)
	printCounts(r.ByPriceCategory)
	fmt.Println()
}

// printCounts renders a count map, largest first, name as tiebreaker.
func printCounts(counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	for _, k := range keys {
		fmt.Printf("  %-14s : %d\n", k, counts[k])
	}
}
