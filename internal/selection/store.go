// Package selection is the availability-checked persistence used to hand the
// chosen breed from the index page to the pictures page.
package selection

import (
	"context"
	"encoding/json"
	"fmt"

	"dogceo/browser/internal/domain"
	"dogceo/browser/internal/metrics"
	"dogceo/browser/internal/notify"
	"dogceo/browser/internal/storage"

	log "github.com/sirupsen/logrus"
)

// Kind selects the lifetime of stored records.
type Kind string

const (
	SessionScoped Kind = "session"
	Persistent    Kind = "persistent"
)

func (k Kind) String() string {
	return string(k)
}

// ParseKind accepts "session" or "persistent".
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case SessionScoped, Persistent:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown storage kind %q", s)
	}
}

const probeKey = "__storage_test__"

// The probe value is valid JSON so backends with typed columns accept it.
var probeValue = []byte(`"__storage_test__"`)

type Store struct {
	backends  map[Kind]storage.Backend
	notifier  notify.Notifier
	namespace string
}

// NewStore builds a store over the given backends. A kind without a backend is
// permanently unavailable.
func NewStore(backends map[Kind]storage.Backend, notifier notify.Notifier) *Store {
	if notifier == nil {
		notifier = notify.NewLogNotifier(nil)
	}
	b := make(map[Kind]storage.Backend, len(backends))
	for kind, backend := range backends {
		if backend != nil {
			b[kind] = backend
		}
	}
	return &Store{backends: b, notifier: notifier}
}

// Scope returns a store sharing the backends whose keys live under namespace.
func (s *Store) Scope(namespace string) *Store {
	return &Store{
		backends:  s.backends,
		notifier:  s.notifier,
		namespace: namespace,
	}
}

func (s *Store) key(key string) string {
	if s.namespace == "" {
		return key
	}
	return s.namespace + ":" + key
}

// IsAvailable writes and deletes a probe key. Any failure, including a quota
// error, makes the kind unavailable.
func (s *Store) IsAvailable(ctx context.Context, kind Kind) bool {
	backend, ok := s.backends[kind]
	if !ok {
		metrics.ObserveStorageProbe(kind.String(), false)
		return false
	}

	key := s.key(probeKey)
	if err := backend.SetItem(ctx, key, probeValue); err != nil {
		log.Debugf("Storage probe write failed on %s (%s): %v", kind, backend.Name(), err)
		metrics.ObserveStorageProbe(kind.String(), false)
		return false
	}
	if err := backend.RemoveItem(ctx, key); err != nil {
		log.Debugf("Storage probe delete failed on %s (%s): %v", kind, backend.Name(), err)
		metrics.ObserveStorageProbe(kind.String(), false)
		return false
	}

	metrics.ObserveStorageProbe(kind.String(), true)
	return true
}

// Save serializes record under key. A false return means nothing was written
// and the caller must not navigate on.
func (s *Store) Save(ctx context.Context, key string, record any, kind Kind) bool {
	if !s.IsAvailable(ctx, kind) {
		s.notifier.Notify(ctx, notify.Notice{
			Level:   notify.LevelWarning,
			Message: fmt.Sprintf("storage %s is not available", kind),
		})
		return false
	}

	data, err := json.Marshal(record)
	if err != nil {
		s.notifier.Notify(ctx, notify.Notice{
			Level:   notify.LevelError,
			Message: fmt.Sprintf("could not encode record %s: %v", key, err),
		})
		return false
	}

	if err := s.backends[kind].SetItem(ctx, s.key(key), data); err != nil {
		s.notifier.Notify(ctx, notify.Notice{
			Level:   notify.LevelError,
			Message: fmt.Sprintf("could not save record %s in %s storage: %v", key, kind, err),
		})
		return false
	}

	return true
}

// Load decodes the record under key into dest. It reports false when the
// storage is unavailable, the key is missing or the value does not decode.
func (s *Store) Load(ctx context.Context, key string, kind Kind, dest any) bool {
	if !s.IsAvailable(ctx, kind) {
		return false
	}

	data, err := s.backends[kind].GetItem(ctx, s.key(key))
	if err != nil {
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		log.Warnf("Discarding undecodable record %s in %s storage: %v", key, kind, err)
		return false
	}
	return true
}

// Remove deletes key. It is a no-op when the storage is unavailable.
func (s *Store) Remove(ctx context.Context, key string, kind Kind) {
	if !s.IsAvailable(ctx, kind) {
		return
	}
	if err := s.backends[kind].RemoveItem(ctx, s.key(key)); err != nil {
		log.Debugf("Failed to remove %s from %s storage: %v", key, kind, err)
	}
}

// SaveSelection stores the chosen breed under domain.SelectionKey.
func (s *Store) SaveSelection(ctx context.Context, breed domain.BreedName, kind Kind) bool {
	return s.Save(ctx, domain.SelectionKey, domain.SelectionRecord{Breed: breed}, kind)
}

// LoadSelection returns the stored breed, if any.
func (s *Store) LoadSelection(ctx context.Context, kind Kind) (domain.BreedName, bool) {
	var record domain.SelectionRecord
	if !s.Load(ctx, domain.SelectionKey, kind, &record) {
		return "", false
	}
	if record.Breed.IsEmpty() {
		return "", false
	}
	return record.Breed, true
}

func (s *Store) ClearSelection(ctx context.Context, kind Kind) {
	s.Remove(ctx, domain.SelectionKey, kind)
}
