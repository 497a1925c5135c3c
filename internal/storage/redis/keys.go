package redis

import "fmt"

// Key prefix for all game-related data
const keyPrefix = "tttgame"

// accountsKey returns the Redis key holding the full account set
func accountsKey() string {
	return fmt.Sprintf("%s:accounts", keyPrefix)
}

// replayKey returns the Redis key for a persisted replay
func replayKey(index int) string {
	return fmt.Sprintf("%s:replay:%d", keyPrefix, index)
}

// replayCounterKey returns the Redis key for the replay index counter
func replayCounterKey() string {
	return fmt.Sprintf("%s:replay_index", keyPrefix)
}
