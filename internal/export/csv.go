package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/choredeck/internal/journal"
)

func ToCSV(completions []journal.Completion, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Chore ID", "Chore", "User ID", "User", "Tracked At", "Outcome", "Message"}); err != nil {
		return err
	}

	for _, c := range completions {
		row := []string{
			strconv.FormatInt(c.ID, 10),
			strconv.FormatInt(c.ChoreID, 10),
			choreName(c),
			strconv.FormatInt(c.UserID, 10),
			userName(c),
			c.TrackedAt.Local().Format(time.RFC3339),
			string(c.Outcome),
			c.Message,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func choreName(c journal.Completion) string {
	if c.ChoreName == "" {
		return "Unknown"
	}
	return c.ChoreName
}

func userName(c journal.Completion) string {
	if c.UserName == "" {
		return "Unknown"
	}
	return c.UserName
}
