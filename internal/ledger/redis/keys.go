package redis

import "fmt"

// Key prefix for all game-related data
const keyPrefix = "wordle"

// recordKey returns the Redis key for the ledger record stored under key
func recordKey(key string) string {
	return fmt.Sprintf("%s:record:%s", keyPrefix, key)
}
