// Package redis implements a library store over a Redis cache kept current
// by an external sync job. Layout under the key prefix:
//
//	<prefix>version            version stamp, bumped by the sync job
//	<prefix>keys               set of item keys
//	<prefix>item:<key>         one item as JSON
//	<prefix>collections        set of collection names
//	<prefix>collection:<name>  set of member item keys
//	<prefix>selected           set of currently selected item keys
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/citedex/internal/library"
)

// Compile-time check: Store implements library.Store.
var _ library.Store = (*Store)(nil)

// Config holds connection parameters for a Redis store.
type Config struct {
	Addrs     []string
	Username  string
	Password  string
	DB        int
	KeyPrefix string
}

// Store implements library.Store via rueidis.
type Store struct {
	client rueidis.Client
	prefix string
}

// NewStore creates a Redis-backed library store.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &Store{client: client, prefix: cfg.KeyPrefix}, nil
}

// Version returns the sync job's version stamp.
func (s *Store) Version(ctx context.Context) (string, error) {
	cmd := s.client.B().Get().Key(s.prefix + "version").Build()
	v, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return "", library.ErrNotLoaded
		}
		return "", &library.Error{Op: "GET", Err: err}
	}
	return v, nil
}

// Load reads every item, collection and the selection in one pass.
func (s *Store) Load(ctx context.Context) (library.Library, error) {
	version, err := s.Version(ctx)
	if err != nil {
		return library.Library{}, err
	}

	lib := library.Library{
		Version:     version,
		Collections: make(map[string][]string),
	}

	keys, err := s.smembers(ctx, s.prefix+"keys")
	if err != nil {
		return library.Library{}, err
	}
	for _, key := range keys {
		cmd := s.client.B().Get().Key(s.prefix + "item:" + key).Build()
		data, err := s.client.Do(ctx, cmd).AsBytes()
		if err != nil {
			if rueidis.IsRedisNil(err) {
				// The sync job replaced the library mid-load; the snapshot
				// layer retries on the next version check.
				return library.Library{}, fmt.Errorf("item %s: %w", key, library.ErrKeyNotFound)
			}
			return library.Library{}, &library.Error{Op: "GET", Err: err}
		}
		item, err := library.DecodeItem(data)
		if err != nil {
			return library.Library{}, fmt.Errorf("item %s: %w", key, err)
		}
		lib.Items = append(lib.Items, item)
	}

	names, err := s.smembers(ctx, s.prefix+"collections")
	if err != nil {
		return library.Library{}, err
	}
	for _, name := range names {
		members, err := s.smembers(ctx, s.prefix+"collection:"+name)
		if err != nil {
			return library.Library{}, err
		}
		lib.Collections[name] = members
	}

	selected, err := s.smembers(ctx, s.prefix+"selected")
	if err != nil {
		return library.Library{}, err
	}
	lib.Selected = selected

	return lib, nil
}

func (s *Store) smembers(ctx context.Context, key string) ([]string, error) {
	cmd := s.client.B().Smembers().Key(key).Build()
	members, err := s.client.Do(ctx, cmd).AsStrSlice()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, nil
		}
		return nil, &library.Error{Op: "SMEMBERS", Err: err}
	}
	return members, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	cmd := s.client.B().Ping().Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() {
	s.client.Close()
}

// WaitForReady polls Ping until the store responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for library store: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}
