package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisOpTimeout     = 2 * time.Second
	redisUpdateRetries = 8
)

// RedisStore shares state between processes. Changes are announced on a
// pub/sub channel so observers in every process see them.
type RedisStore struct {
	client  *redis.Client
	prefix  string
	channel string

	ctx    context.Context
	cancel context.CancelFunc
	sub    *redis.PubSub
	wg     sync.WaitGroup
	obs    observers
}

func NewRedisStore(client *redis.Client, prefix string) (*RedisStore, error) {
	if client == nil {
		panic("state.NewRedisStore: client must not be nil")
	}
	if prefix == "" {
		prefix = "gpslogger:"
	}
	ctx, cancel := context.WithCancel(context.Background())
	r := &RedisStore{
		client:  client,
		prefix:  prefix,
		channel: prefix + "changes",
		ctx:     ctx,
		cancel:  cancel,
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, redisOpTimeout)
	defer pingCancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		cancel()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	r.sub = client.Subscribe(ctx, r.channel)
	if _, err := r.sub.Receive(pingCtx); err != nil {
		_ = r.sub.Close()
		cancel()
		return nil, fmt.Errorf("redis subscribe %s: %w", r.channel, err)
	}
	r.wg.Add(1)
	go r.dispatch()
	return r, nil
}

func (r *RedisStore) dispatch() {
	defer r.wg.Done()
	for {
		select {
		case <-r.ctx.Done():
			return
		case msg, ok := <-r.sub.Channel():
			if !ok {
				return
			}
			r.obs.notify(msg.Payload)
		}
	}
}

func (r *RedisStore) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.ctx, redisOpTimeout)
}

func (r *RedisStore) Get(key string) ([]byte, bool, error) {
	ctx, cancel := r.opContext()
	defer cancel()
	v, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, r.mapErr(err)
	}
	return v, true, nil
}

func (r *RedisStore) Set(key string, value []byte) error {
	return r.Update(key, func([]byte, bool) ([]byte, error) { return value, nil })
}

func (r *RedisStore) Delete(key string) error {
	return r.Update(key, func([]byte, bool) ([]byte, error) { return nil, nil })
}

// Update uses WATCH/MULTI and retries when another writer wins the race.
func (r *RedisStore) Update(key string, fn UpdateFunc) error {
	ctx, cancel := r.opContext()
	defer cancel()
	full := r.prefix + key

	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, full).Bytes()
		ok := true
		if errors.Is(err, redis.Nil) {
			current, ok = nil, false
		} else if err != nil {
			return err
		}
		next, err := fn(current, ok)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if next == nil {
				pipe.Del(ctx, full)
			} else {
				pipe.Set(ctx, full, next, 0)
			}
			pipe.Publish(ctx, r.channel, key)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < redisUpdateRetries; attempt++ {
		err := r.client.Watch(ctx, txf, full)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return r.mapErr(err)
	}
	return fmt.Errorf("update %s: %w", key, redis.TxFailedErr)
}

func (r *RedisStore) Observe(key string, fn func(string)) func() {
	return r.obs.add(key, fn)
}

// Close stops change dispatch. The client is owned by the caller.
func (r *RedisStore) Close() error {
	r.cancel()
	err := r.sub.Close()
	r.wg.Wait()
	return err
}

func (r *RedisStore) mapErr(err error) error {
	if r.ctx.Err() != nil || errors.Is(err, redis.ErrClosed) {
		return ErrClosed
	}
	return err
}
