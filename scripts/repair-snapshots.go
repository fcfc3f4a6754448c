package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/theme-clash/internal/engine"
	"github.com/KirkDiggler/theme-clash/internal/entities"
)

// Scans stored room snapshots. Snapshots holding cards from before mana
// cost and speed existed are rewritten normalized. Snapshots that no longer
// decode are listed and optionally deleted.
func main() {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatal("Failed to parse Redis URL:", err)
	}

	client := redis.NewClient(opt)
	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	fmt.Println("Connected to Redis:", redisURL)
	fmt.Println("Scanning room snapshots...")

	iter := client.Scan(ctx, 0, "game_state:*", 0).Iterator()

	var corruptedKeys []string
	var checkedCount, repairedCount int

	for iter.Next(ctx) {
		key := iter.Val()
		checkedCount++

		data, err := client.Get(ctx, key).Bytes()
		if err != nil {
			fmt.Printf("Error reading %s: %v\n", key, err)
			continue
		}

		var state entities.GameState
		if err := json.Unmarshal(data, &state); err != nil {
			fmt.Printf("✗ Corrupted JSON in %s\n", key)
			corruptedKeys = append(corruptedKeys, key)
			continue
		}

		engine.NormalizeState(&state)
		normalized, err := json.Marshal(&state)
		if err != nil {
			fmt.Printf("Error encoding %s: %v\n", key, err)
			continue
		}

		var original entities.GameState
		_ = json.Unmarshal(data, &original)
		originalJSON, _ := json.Marshal(&original)
		if bytes.Equal(originalJSON, normalized) {
			continue
		}

		// KEEPTTL leaves the snapshot's expiry alone
		if err := client.SetArgs(ctx, key, normalized, redis.SetArgs{KeepTTL: true}).Err(); err != nil {
			fmt.Printf("Failed to repair %s: %v\n", key, err)
			continue
		}
		repairedCount++
		fmt.Printf("✓ Normalized cards in %s\n", key)
	}

	if err := iter.Err(); err != nil {
		log.Fatal("Error during scan:", err)
	}

	fmt.Printf("\nChecked %d snapshots, repaired %d, found %d corrupted\n", checkedCount, repairedCount, len(corruptedKeys))

	if len(corruptedKeys) == 0 {
		return
	}

	fmt.Println("\nCorrupted keys:")
	for _, key := range corruptedKeys {
		fmt.Printf("  - %s\n", key)
	}

	fmt.Print("\nDo you want to DELETE these corrupted entries? (yes/no): ")
	var response string
	_, _ = fmt.Scanln(&response)

	if response != "yes" {
		fmt.Println("Aborted - no deletions made")
		return
	}

	for _, key := range corruptedKeys {
		if err := client.Del(ctx, key).Err(); err != nil {
			fmt.Printf("Failed to delete %s: %v\n", key, err)
		} else {
			fmt.Printf("Deleted %s\n", key)
		}
	}
	fmt.Println("\nCleanup complete!")
}
