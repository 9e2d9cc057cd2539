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

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidReference is returned when a write points at a record that
	// does not exist.
	ErrInvalidReference = errors.New("referenced record does not exist")
)

const (
	// Key prefixes for different entity types
	CategoryKeyPrefix   = "category:"
	PostKeyPrefix       = "post:"
	CommentKeyPrefix    = "comment:"
	CommentRefKeyPrefix = "comment_ref:"

	// Join rows for the post/category association, one per direction
	PostCategoryKeyPrefix = "post_category:"
	CategoryPostKeyPrefix = "category_post:"

	// Sequence keys for auto-incrementing IDs
	CategorySeqKey = "seq:category"
	PostSeqKey     = "seq:post"
	CommentSeqKey  = "seq:comment"
)

func categoryKey(id int) []byte {
	return []byte(fmt.Sprintf("%s%d", CategoryKeyPrefix, id))
}

func postKey(id int) []byte {
	return []byte(fmt.Sprintf("%s%d", PostKeyPrefix, id))
}

func commentKey(postID, id int) []byte {
	return []byte(fmt.Sprintf("%s%d:%d", CommentKeyPrefix, postID, id))
}

func commentPrefix(postID int) []byte {
	return []byte(fmt.Sprintf("%s%d:", CommentKeyPrefix, postID))
}

func commentRefKey(id int) []byte {
	return []byte(fmt.Sprintf("%s%d", CommentRefKeyPrefix, id))
}

func postCategoryKey(postID, categoryID int) []byte {
	return []byte(fmt.Sprintf("%s%d:%d", PostCategoryKeyPrefix, postID, categoryID))
}

func postCategoryPrefix(postID int) []byte {
	return []byte(fmt.Sprintf("%s%d:", PostCategoryKeyPrefix, postID))
}

func categoryPostKey(categoryID, postID int) []byte {
	return []byte(fmt.Sprintf("%s%d:%d", CategoryPostKeyPrefix, categoryID, postID))
}

func categoryPostPrefix(categoryID int) []byte {
	return []byte(fmt.Sprintf("%s%d:", CategoryPostKeyPrefix, categoryID))
}

// getNextID gets the next available ID for a given sequence key
func getNextID(txn *badger.Txn, seqKey string) (int, error) {
	var id uint32
	item, err := txn.Get([]byte(seqKey))
	if err == badger.ErrKeyNotFound {
		id = 1
	} else if err != nil {
		return 0, err
	} else {
		err = item.Value(func(val []byte) error {
			if len(val) != 4 {
				return fmt.Errorf("corrupt sequence %s", seqKey)
			}
			id = binary.BigEndian.Uint32(val)
			return nil
		})
		if err != nil {
			return 0, err
		}
		id++
	}

	// Store new ID
	idBytes := make([]byte, 4)
	binary.BigEndian.PutUint32(idBytes, id)
	if err := txn.Set([]byte(seqKey), idBytes); err != nil {
		return 0, err
	}

	return int(id), nil
}

// exists reports whether key is present in the transaction's view.
func exists(txn *badger.Txn, key []byte) (bool, error) {
	_, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// keysWithPrefix collects every key under prefix without fetching values.
// Keys are copied so they stay valid after the iterator closes, which lets
// callers delete them in the same transaction.
func keysWithPrefix(txn *badger.Txn, prefix []byte) [][]byte {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	var keys [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	return keys
}

// lastKeySegment parses the id after the final ':' of a key.
func lastKeySegment(key []byte) (int, error) {
	s := string(key)
	idx := strings.LastIndexByte(s, ':')
	if idx < 0 {
		return 0, fmt.Errorf("malformed key %q", s)
	}
	return strconv.Atoi(s[idx+1:])
}

func encodeID(id int) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(id))
	return b
}

func decodeID(b []byte) (int, error) {
	if len(b) != 4 {
		return 0, fmt.Errorf("malformed id value of %d bytes", len(b))
	}
	return int(binary.BigEndian.Uint32(b)), nil
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

// getEntity loads key into entity, mapping a missing key to ErrNotFound.
func getEntity(txn *badger.Txn, key []byte, entity interface{}) error {
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return unmarshalEntity(val, entity)
	})
}
