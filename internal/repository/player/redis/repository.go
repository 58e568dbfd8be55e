package redis

import (
	"time"

	"github.com/redis/go-redis/v9"
)

type repo struct {
	rc             *redis.Client
	expireDuration time.Duration
}

func NewRepo(rc *redis.Client, expireDuration time.Duration) *repo {
	return &repo{
		rc:             rc,
		expireDuration: expireDuration,
	}
}

func (r repo) getPlayerKey(playerId string) string {
	return "player:" + playerId
}

func (r repo) getSnapshotKey(playerId string) string {
	return "player:" + playerId + ":snapshot"
}

func (r repo) getConfigKey(playerId string) string {
	return "player:" + playerId + ":config"
}
