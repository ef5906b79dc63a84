package cache

import (
	"context"
	"time"
)

const checkpointTTL = 7 * 24 * time.Hour

func checkpointKey(runID string) string {
	return "ranking:run:" + runID + ":done"
}

// MarkCompleted records jobID as committed under runID.
func (r *Redis) MarkCompleted(ctx context.Context, runID, jobID string) error {
	if r.isUnavailable() {
		return nil
	}
	key := checkpointKey(runID)
	pipe := r.client.TxPipeline()
	pipe.SAdd(ctx, key, jobID)
	pipe.Expire(ctx, key, checkpointTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}

func (r *Redis) Completed(ctx context.Context, runID string) (map[string]struct{}, error) {
	out := map[string]struct{}{}
	if r.isUnavailable() {
		return out, nil
	}
	ids, err := r.client.SMembers(ctx, checkpointKey(runID)).Result()
	if err != nil {
		r.warnUnavailableOnce(err)
		return nil, err
	}
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out, nil
}

func (r *Redis) Clear(ctx context.Context, runID string) error {
	return r.Delete(ctx, checkpointKey(runID))
}
