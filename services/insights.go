package services

import (
	"fmt"
	"math"
	"sort"

	"autochek-scraper/models"
)

// Report summarizes one run's cleaned result set.
type Report struct {
	TotalListings      int
	WithPrice          int
	AveragePrice       float64
	MinPrice           int64
	MaxPrice           int64
	AverageMileage     float64
	ListingsByMake     map[string]int
	ListingsByLocation map[string]int
}

// CleanListings drops records that cannot be identified or carry no
// vehicle information, and removes duplicate listing ids keeping the
// first occurrence. Order is otherwise preserved, so page order and
// intra-page order survive the pass.
func CleanListings(listings []models.VehicleListing) []models.VehicleListing {
	seen := make(map[string]bool, len(listings))
	cleaned := make([]models.VehicleListing, 0, len(listings))

	for _, l := range listings {
		if l.ListingID == "" || l.ListingURL == "" {
			continue
		}
		if l.Make == nil && l.Model == nil {
			continue
		}
		if seen[l.ListingID] {
			continue
		}
		seen[l.ListingID] = true
		cleaned = append(cleaned, l)
	}
	return cleaned
}

// GenerateReport computes aggregate market stats over the result set.
func GenerateReport(listings []models.VehicleListing) Report {
	report := Report{
		MinPrice:           math.MaxInt64,
		ListingsByMake:     make(map[string]int),
		ListingsByLocation: make(map[string]int),
	}
	report.TotalListings = len(listings)

	var priceSum, mileageSum int64
	var mileageCount int

	for _, l := range listings {
		if l.Make != nil {
			report.ListingsByMake[*l.Make]++
		}
		if l.Location != nil {
			report.ListingsByLocation[*l.Location]++
		}
		if l.Price != nil {
			report.WithPrice++
			priceSum += *l.Price
			if *l.Price < report.MinPrice {
				report.MinPrice = *l.Price
			}
			if *l.Price > report.MaxPrice {
				report.MaxPrice = *l.Price
			}
		}
		if l.Mileage != nil {
			mileageCount++
			mileageSum += *l.Mileage
		}
	}

	if report.WithPrice > 0 {
		report.AveragePrice = float64(priceSum) / float64(report.WithPrice)
	} else {
		report.MinPrice = 0
	}
	if mileageCount > 0 {
		report.AverageMileage = float64(mileageSum) / float64(mileageCount)
	}
	return report
}

// PrintReport writes the report to stdout in a compact readable layout.
func PrintReport(r Report) {
	fmt.Println()
	fmt.Println("═════════════ MARKET SUMMARY ═════════════")
	fmt.Printf("Listings          : %d\n", r.TotalListings)
	fmt.Printf("With price        : %d\n", r.WithPrice)
	if r.WithPrice > 0 {
		fmt.Printf("Average price     : %.0f\n", r.AveragePrice)
		fmt.Printf("Price range       : %d - %d\n", r.MinPrice, r.MaxPrice)
	}
	if r.AverageMileage > 0 {
		fmt.Printf("Average mileage   : %.0f km\n", r.AverageMileage)
	}

	printCounts("By make", r.ListingsByMake)
	printCounts("By location", r.ListingsByLocation)
	fmt.Println("══════════════════════════════════════════")
	fmt.Println()
}

func printCounts(label string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
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

	fmt.Printf("%s:\n", label)
	for _, k := range keys {
		fmt.Printf("  %-20s %d\n", k, counts[k])
	}
}
