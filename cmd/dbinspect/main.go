// Command dbinspect dumps a summary of the activity log store.
//
// Usage:
//
//	DATA_PATH=~/SunLib/data go run ./cmd/dbinspect
package main

import (
	"encoding/json/v2"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/sunlibapp/sunlib-server/internal/domain"
)

const activityPrefix = "activity:"

func main() {
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/SunLib/data")
	}
	dbPath := filepath.Join(dataPath, "activity")

	opts := badger.DefaultOptions(dbPath).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open activity store: %v", err)
	}
	defer db.Close()

	fmt.Println("=== Activity Store Inspection ===")
	fmt.Println()

	total := 0
	byAction := make(map[string]int)
	byUser := make(map[string]int)
	indexKeys := 0

	err = db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(activityPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(activityPrefix)); it.ValidForPrefix([]byte(activityPrefix)); it.Next() {
			item := it.Item()
			key := string(item.Key())

			// Index keys (activity:idx:...) are key-only, skip them.
			if strings.HasPrefix(key, activityPrefix+"idx:") {
				indexKeys++
				continue
			}

			err := item.Value(func(val []byte) error {
				var activity domain.Activity
				if err := json.Unmarshal(val, &activity); err != nil {
					return err
				}

				total++
				byAction[activity.Action]++
				byUser[activity.Username]++

				// Show the first few records in full.
				if total <= 5 {
					fmt.Printf("Activity: %s\n", activity.ID)
					fmt.Printf("  User:   %s (%s)\n", activity.Username, activity.UserID)
					fmt.Printf("  Action: %s\n", activity.Action)
					fmt.Printf("  Target: %s %q (%s)\n", activity.Target.Kind, activity.Target.DisplayName, activity.Target.ID)
					fmt.Printf("  At:     %s\n", activity.CreatedAt.Format("2006-01-02 15:04:05"))
					fmt.Println()
				}

				return nil
			})
			if err != nil {
				log.Printf("Error reading activity %s: %v", key, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Error iterating activity store: %v", err)
	}

	fmt.Println("=== Summary ===")
	fmt.Printf("Total activities: %d\n", total)
	fmt.Printf("Index keys: %d\n", indexKeys)

	fmt.Println("\nBy action:")
	for _, action := range sortedKeys(byAction) {
		fmt.Printf("  %-30s %d\n", action, byAction[action])
	}

	fmt.Println("\nBy user:")
	for _, user := range sortedKeys(byUser) {
		fmt.Printf("  %-30s %d\n", user, byUser[user])
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
