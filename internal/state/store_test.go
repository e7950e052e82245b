package state

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storeFactory func(t *testing.T) Store

func backends(t *testing.T) map[string]storeFactory {
	t.Helper()
	factories := map[string]storeFactory{
		"memory": func(t *testing.T) Store {
			return NewMemoryStore()
		},
		"bolt": func(t *testing.T) Store {
			s, err := OpenBolt(filepath.Join(t.TempDir(), "nested", "state.db"))
			require.NoError(t, err)
			return s
		},
	}
	if addr := os.Getenv("GPSLOGGER_TEST_REDIS_ADDR"); addr != "" {
		factories["redis"] = func(t *testing.T) Store {
			client := redis.NewClient(&redis.Options{Addr: addr})
			t.Cleanup(func() { _ = client.Close() })
			s, err := NewRedisStore(client, "gpslogger-test:"+t.Name()+":")
			require.NoError(t, err)
			return s
		}
	}
	return factories
}

func TestStoreTypedValues(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			defer s.Close()

			logs, ok, err := Strings(s, KeyLogs)
			require.NoError(t, err)
			require.False(t, ok)
			require.Nil(t, logs)

			require.NoError(t, SetStrings(s, KeyLogs, []string{"a", "b"}))
			logs, ok, err = Strings(s, KeyLogs)
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, []string{"a", "b"}, logs)

			require.NoError(t, SetStrings(s, KeyLogs, nil))
			logs, ok, err = Strings(s, KeyLogs)
			require.NoError(t, err)
			require.True(t, ok)
			require.Empty(t, logs)

			debug, err := Bool(s, KeyDebugMode)
			require.NoError(t, err)
			require.False(t, debug)
			require.NoError(t, SetBool(s, KeyDebugMode, true))
			debug, err = Bool(s, KeyDebugMode)
			require.NoError(t, err)
			require.True(t, debug)

			key, err := String(s, KeyConsumerKey)
			require.NoError(t, err)
			require.Equal(t, "", key)
			require.NoError(t, SetString(s, KeyConsumerKey, "ck"))
			key, err = String(s, KeyConsumerKey)
			require.NoError(t, err)
			require.Equal(t, "ck", key)

			require.NoError(t, SetFloat(s, KeyLatitude, 35.6895))
			lat, ok, err := Float(s, KeyLatitude)
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, 35.6895, lat)

			require.NoError(t, s.Delete(KeyLatitude))
			_, ok, err = Float(s, KeyLatitude)
			require.NoError(t, err)
			require.False(t, ok)
		})
	}
}

func TestAppendStringsTrims(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			defer s.Close()

			require.NoError(t, AppendStrings(s, KeyLogs, 3, "1", "2"))
			require.NoError(t, AppendStrings(s, KeyLogs, 3, "3", "4"))
			logs, ok, err := Strings(s, KeyLogs)
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, []string{"2", "3", "4"}, logs)
		})
	}
}

func TestUpdateErrorLeavesValue(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			defer s.Close()

			require.NoError(t, SetString(s, KeyAccessKey, "keep"))
			boom := errors.New("boom")
			err := s.Update(KeyAccessKey, func([]byte, bool) ([]byte, error) { return nil, boom })
			require.ErrorIs(t, err, boom)
			v, err := String(s, KeyAccessKey)
			require.NoError(t, err)
			require.Equal(t, "keep", v)
		})
	}
}

func TestObserveNotifiesUntilCancelled(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			defer s.Close()

			changed := make(chan string, 8)
			stop := s.Observe(KeyLogging, func(key string) { changed <- key })
			other := s.Observe(KeyLogs, func(string) { t.Errorf("unexpected notification for logs") })
			defer other()

			require.NoError(t, SetBool(s, KeyLogging, true))
			select {
			case key := <-changed:
				require.Equal(t, KeyLogging, key)
			case <-time.After(2 * time.Second):
				t.Fatalf("timed out waiting for change notification")
			}

			stop()
			stop()
			require.NoError(t, SetBool(s, KeyLogging, false))
			select {
			case key := <-changed:
				t.Fatalf("unexpected notification after cancel: %q", key)
			case <-time.After(100 * time.Millisecond):
			}
		})
	}
}

func TestConcurrentAppendsAreNotLost(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			defer s.Close()

			var wg sync.WaitGroup
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					assert.NoError(t, AppendStrings(s, KeyLogs, 0, "entry"))
				}()
			}
			wg.Wait()
			logs, _, err := Strings(s, KeyLogs)
			require.NoError(t, err)
			require.Len(t, logs, 20)
		})
	}
}

func TestClosedStoreReportsErrClosed(t *testing.T) {
	mem := NewMemoryStore()
	require.NoError(t, mem.Close())
	_, _, err := mem.Get(KeyLogs)
	require.ErrorIs(t, err, ErrClosed)

	bolt, err := OpenBolt(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	require.NoError(t, bolt.Close())
	require.ErrorIs(t, SetBool(bolt, KeyLogging, true), ErrClosed)
}

func TestBoltStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	s, err := OpenBolt(path)
	require.NoError(t, err)
	require.NoError(t, SetStrings(s, KeyLogs, []string{"2026/10/17 09:00:00 Start"}))
	require.NoError(t, s.Close())

	s, err = OpenBolt(path)
	require.NoError(t, err)
	defer s.Close()
	logs, ok, err := Strings(s, KeyLogs)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"2026/10/17 09:00:00 Start"}, logs)
}

func TestFloatAcceptsJSONNumber(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Set(KeyLongitude, []byte("139.6917")))
	lon, ok, err := Float(s, KeyLongitude)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 139.6917, lon)

	require.NoError(t, s.Set(KeyLongitude, []byte(`"east"`)))
	_, _, err = Float(s, KeyLongitude)
	require.Error(t, err)
}

func TestFloatRejectsNonFinite(t *testing.T) {
	s := NewMemoryStore()
	for _, text := range []string{"NaN", "Inf", "-Infinity"} {
		require.NoError(t, SetString(s, KeyLatitude, text))
		_, ok, err := Float(s, KeyLatitude)
		require.ErrorIs(t, err, ErrNotFinite, text)
		require.False(t, ok)
	}
}
