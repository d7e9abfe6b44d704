package tasks

import (
	"fmt"
	"time"

	"github.com/lysyi3m/dealsteal/app/ebay"
	"github.com/lysyi3m/dealsteal/app/todoist"
)

const DueDateLayout = "2006-01-02T15:04:05Z"

// FormatTask builds the task for a listing. Listings without an item ID get
// an empty ItemID so they bypass the ledger instead of sharing one key.
func FormatTask(listing ebay.Listing, projectID string) todoist.NewTask {
	task := todoist.NewTask{
		Content:     FormatTitle(listing),
		Description: FormatDescription(listing),
		ProjectID:   projectID,
	}
	if listing.ItemID != ebay.Unknown {
		task.ItemID = listing.ItemID
	}
	if !listing.EndTime.IsZero() {
		task.DueDate = listing.EndTime.UTC().Format(DueDateLayout)
	}
	return task
}

func FormatTitle(listing ebay.Listing) string {
	return fmt.Sprintf("%s - %s - %s", listing.Country, listing.Title, listing.Price)
}

func FormatDescription(listing ebay.Listing) string {
	remaining := ebay.Unknown
	if !listing.EndTime.IsZero() {
		remaining = listing.TimeRemaining.Round(time.Second).String()
	}
	return fmt.Sprintf("Time remaining: %s\nURL: %s\nCategory: %s", remaining, listing.URL, listing.Category)
}
