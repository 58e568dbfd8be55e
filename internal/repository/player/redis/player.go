package redis

import (
	"context"
	"fmt"

	"github.com/vidstate/server/internal/repository/player"
)

func (r repo) SetPlayer(ctx context.Context, params *player.SetPlayerParams) error {
	pipe := r.rc.TxPipeline()

	playerKey := r.getPlayerKey(params.PlayerId)
	pipe.Set(ctx, playerKey, 1, r.expireDuration)

	snapshotKey := r.getSnapshotKey(params.PlayerId)
	if err := r.hSetStruct(ctx, pipe, snapshotKey, params.Snapshot); err != nil {
		return fmt.Errorf("failed to set initial snapshot: %w", err)
	}
	pipe.Expire(ctx, snapshotKey, r.expireDuration)

	if err := r.executePipe(ctx, pipe); err != nil {
		return fmt.Errorf("failed to set player: %w", err)
	}

	return nil
}

func (r repo) IsPlayerExists(ctx context.Context, playerId string) (bool, error) {
	playerKey := r.getPlayerKey(playerId)
	res, err := r.rc.Exists(ctx, playerKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check if player exists: %w", err)
	}

	r.rc.Expire(ctx, playerKey, r.expireDuration)

	return res > 0, nil
}

func (r repo) RemovePlayer(ctx context.Context, playerId string) error {
	res, err := r.rc.Del(ctx,
		r.getPlayerKey(playerId),
		r.getSnapshotKey(playerId),
		r.getConfigKey(playerId),
	).Result()
	if err != nil {
		return fmt.Errorf("failed to remove player: %w", err)
	}

	if res == 0 {
		return player.ErrPlayerNotFound
	}

	return nil
}

func (r repo) SetSnapshot(ctx context.Context, params *player.SetSnapshotParams) error {
	pipe := r.rc.TxPipeline()

	snapshotKey := r.getSnapshotKey(params.PlayerId)
	if err := r.hSetStruct(ctx, pipe, snapshotKey, params.Snapshot); err != nil {
		return fmt.Errorf("failed to set snapshot: %w", err)
	}
	pipe.Expire(ctx, snapshotKey, r.expireDuration)

	if err := r.executePipe(ctx, pipe); err != nil {
		return fmt.Errorf("failed to set snapshot: %w", err)
	}

	return nil
}

func (r repo) GetSnapshot(ctx context.Context, playerId string) (player.Snapshot, error) {
	snapshotKey := r.getSnapshotKey(playerId)

	cmd := r.rc.HGetAll(ctx, snapshotKey)
	if err := cmd.Err(); err != nil {
		return player.Snapshot{}, fmt.Errorf("failed to get snapshot: %w", err)
	}
	if len(cmd.Val()) == 0 {
		return player.Snapshot{}, player.ErrPlayerNotFound
	}

	var snapshot player.Snapshot
	if err := cmd.Scan(&snapshot); err != nil {
		return player.Snapshot{}, fmt.Errorf("failed to scan snapshot: %w", err)
	}

	r.rc.Expire(ctx, snapshotKey, r.expireDuration)

	return snapshot, nil
}

func (r repo) SetConfig(ctx context.Context, params *player.SetConfigParams) error {
	pipe := r.rc.TxPipeline()

	configKey := r.getConfigKey(params.PlayerId)
	if err := r.hSetStruct(ctx, pipe, configKey, params.Config); err != nil {
		return fmt.Errorf("failed to set config: %w", err)
	}
	pipe.Expire(ctx, configKey, r.expireDuration)

	if err := r.executePipe(ctx, pipe); err != nil {
		return fmt.Errorf("failed to set config: %w", err)
	}

	return nil
}

func (r repo) GetConfig(ctx context.Context, playerId string) (player.Config, error) {
	configKey := r.getConfigKey(playerId)

	var config player.Config
	if err := r.rc.HGetAll(ctx, configKey).Scan(&config); err != nil {
		return player.Config{}, fmt.Errorf("failed to scan config: %w", err)
	}

	r.rc.Expire(ctx, configKey, r.expireDuration)

	return config, nil
}
