package intake

import (
	"bytes"
	"encoding/gob"

	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"
)

const draftKeyPrefix = "intake-draft:"

// Cache is the byte cache drafts are kept in, it expires entries on its own
type Cache interface {
	CacheGet(key string) ([]byte, bool)
	CacheSet(key string, val []byte) error
	CacheDelete(key string) error
}

type DraftStore struct {
	cache Cache
}

func NewDraftStore(cache Cache) *DraftStore {
	return &DraftStore{cache: cache}
}

func NewDraftID() string {
	return ksuid.New().String()
}

// Load returns the saved wizard for id or a fresh one when nothing is stored
func (s *DraftStore) Load(id string) (Wizard, error) {
	if id == "" {
		return NewWizard(), nil
	}
	buf, ok := s.cache.CacheGet(draftKeyPrefix + id)
	if !ok {
		return NewWizard(), nil
	}
	var w Wizard
	if err := gob.NewDecoder(bytes.NewReader(buf)).Decode(&w); err != nil {
		return NewWizard(), errors.Wrap(err, "unable to decode intake draft")
	}
	if len(w.Form.DeveloperRoles) == 0 {
		w.Form.DeveloperRoles = []DeveloperRole{NewDeveloperRole()}
	}
	return w, nil
}

func (s *DraftStore) Save(id string, w Wizard) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(w); err != nil {
		return errors.Wrap(err, "unable to encode intake draft")
	}
	return s.cache.CacheSet(draftKeyPrefix+id, buf.Bytes())
}

func (s *DraftStore) Delete(id string) error {
	if id == "" {
		return nil
	}
	return s.cache.CacheDelete(draftKeyPrefix + id)
}
