package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/choredeck/internal/journal"
)

type jsonExport struct {
	ExportedAt  string      `json:"exported_at"`
	Count       int         `json:"count"`
	Succeeded   int         `json:"succeeded"`
	Completions []jsonEntry `json:"completions"`
}

type jsonEntry struct {
	ID        int64  `json:"id"`
	ChoreID   int64  `json:"chore_id"`
	Chore     string `json:"chore"`
	UserID    int64  `json:"user_id"`
	User      string `json:"user"`
	TrackedAt string `json:"tracked_at"`
	Outcome   string `json:"outcome"`
	Message   string `json:"message,omitempty"`
}

func ToJSON(completions []journal.Completion, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(completions),
	}

	for _, c := range completions {
		if c.Succeeded() {
			export.Succeeded++
		}
		export.Completions = append(export.Completions, jsonEntry{
			ID:        c.ID,
			ChoreID:   c.ChoreID,
			Chore:     choreName(c),
			UserID:    c.UserID,
			User:      userName(c),
			TrackedAt: c.TrackedAt.Local().Format(time.RFC3339),
			Outcome:   string(c.Outcome),
			Message:   c.Message,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
