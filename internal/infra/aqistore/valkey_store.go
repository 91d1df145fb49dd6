package aqistore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/aqi-advisor/internal/domain/advisor"
)

// ValkeyStore caches AQI payloads in a Valkey-compatible database so nearby
// requests within the TTL share one upstream fetch.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "aqi"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

// Get returns the cached payload for a location key.
func (s *ValkeyStore) Get(ctx context.Context, key string) (*advisor.AqiPayload, bool, error) {
	cmd := s.client.B().Get().Key(s.entryKey(key)).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var record advisor.AqiPayload
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return nil, false, err
	}
	return &record, true, nil
}

// Save caches the payload with optional TTL.
func (s *ValkeyStore) Save(ctx context.Context, key string, payload *advisor.AqiPayload, ttl time.Duration) error {
	if payload == nil {
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	builder := s.client.B().Set().Key(s.entryKey(key)).Value(string(data))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) entryKey(key string) string {
	return s.prefix + ":" + key
}

var _ advisor.PayloadCache = (*ValkeyStore)(nil)
