package repositories

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

const (
	// Key prefixes for different entity types
	PostKeyPrefix      = "post:"
	PostSlugKeyPrefix  = "post_slug:"
	PostTagKeyPrefix   = "post_tag:"
	TagKeyPrefix       = "tag:"
	CommentKeyPrefix   = "comment:"
	UserKeyPrefix      = "user:"
	UsernameKeyPrefix  = "user_name:"
	UserEmailKeyPrefix = "user_email:"

	// Sequence keys for auto-incrementing IDs
	PostSeqKey    = "seq:post"
	TagSeqKey     = "seq:tag"
	CommentSeqKey = "seq:comment"
	UserSeqKey    = "seq:user"
)

// maxTxnRetries bounds how often a write is replayed after a conflict.
const maxTxnRetries = 5

// getNextID gets the next available ID for a given sequence key
func getNextID(txn *badger.Txn, seqKey string) (int, error) {
	var id uint64
	item, err := txn.Get([]byte(seqKey))
	if errors.Is(err, badger.ErrKeyNotFound) {
		id = 1
	} else if err != nil {
		return 0, fmt.Errorf("failed to get sequence: %w", err)
	} else {
		err = item.Value(func(val []byte) error {
			if len(val) != 8 {
				return fmt.Errorf("corrupt sequence %s", seqKey)
			}
			id = binary.BigEndian.Uint64(val) + 1
			return nil
		})
		if err != nil {
			return 0, err
		}
	}

	idBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(idBytes, id)
	if err := txn.Set([]byte(seqKey), idBytes); err != nil {
		return 0, fmt.Errorf("failed to update sequence: %w", err)
	}

	return int(id), nil
}

// idKey zero-pads ids so that key order equals creation order.
func idKey(prefix string, id int) []byte {
	return []byte(fmt.Sprintf("%s%010d", prefix, id))
}

// parseIDSuffix extracts the id written by idKey from the end of key.
func parseIDSuffix(key []byte) (int, error) {
	s := string(key)
	i := strings.LastIndexByte(s, ':')
	return strconv.Atoi(s[i+1:])
}

// marshalEntity marshals an entity to JSON
func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, entity interface{}) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return nil
}

// getEntity loads the value stored under key into entity.
func getEntity(txn *badger.Txn, key []byte, entity interface{}) error {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return unmarshalEntity(val, entity)
	})
}

// putEntity stores entity under key.
func putEntity(txn *badger.Txn, key []byte, entity interface{}) error {
	data, err := marshalEntity(entity)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}

// getIndex resolves a secondary index entry to the id it points at.
func getIndex(txn *badger.Txn, key []byte) (int, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	var id int
	err = item.Value(func(val []byte) error {
		id, err = strconv.Atoi(string(val))
		return err
	})
	return id, err
}

func putIndex(txn *badger.Txn, key []byte, id int) error {
	return txn.Set(key, []byte(strconv.Itoa(id)))
}

// update runs fn in a read-write transaction, replaying it when badger
// reports a conflict with a concurrent writer.
func update(db *badger.DB, fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < maxTxnRetries; attempt++ {
		err = db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}
