package infra_redis_replay_cache

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/go-redis/redis"
	"github.com/humanbelnik/columns/core/internal/model"
)

// Driver keeps serialized replays for ttl.
type Driver struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func New(
	client *redis.Client,
	key string,
	ttl time.Duration,
) *Driver {
	return &Driver{
		client: client,
		key:    key,
		ttl:    ttl,
	}
}

func (d *Driver) Get(id model.ReplayID) (model.Replay, bool, error) {
	raw, err := d.client.Get(d.fullKey(id)).Bytes()
	if err == redis.Nil {
		return model.Replay{}, false, nil
	}
	if err != nil {
		return model.Replay{}, false, err
	}

	var r model.Replay
	if err := json.Unmarshal(raw, &r); err != nil {
		return model.Replay{}, false, err
	}
	return r, true, nil
}

func (d *Driver) Set(r model.Replay) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return d.client.Set(d.fullKey(r.ID), raw, d.ttl).Err()
}

func (d *Driver) fullKey(id model.ReplayID) string {
	return d.key + ":" + strconv.FormatInt(id, 10)
}
