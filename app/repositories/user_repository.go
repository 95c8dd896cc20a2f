package repositories

import (
	"errors"
	"fmt"
	"strings"

	"blogapi/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerUserRepository implements UserRepository using BadgerDB
type BadgerUserRepository struct {
	db *badger.DB
}

// NewBadgerUserRepository creates a new BadgerUserRepository
func NewBadgerUserRepository(db *badger.DB) *BadgerUserRepository {
	return &BadgerUserRepository{db: db}
}

// Usernames and emails are unique regardless of case.
func usernameKey(username string) []byte {
	return []byte(UsernameKeyPrefix + strings.ToLower(username))
}

func emailKey(email string) []byte {
	return []byte(UserEmailKeyPrefix + strings.ToLower(email))
}

// Create creates a new user. ErrDuplicate is returned when the username or
// email is taken.
func (r *BadgerUserRepository) Create(user *models.User) error {
	return update(r.db, func(txn *badger.Txn) error {
		for _, key := range [][]byte{usernameKey(user.Username), emailKey(user.Email)} {
			if _, err := getIndex(txn, key); err == nil {
				return fmt.Errorf("%s: %w", key, ErrDuplicate)
			} else if !errors.Is(err, ErrNotFound) {
				return err
			}
		}

		id, err := getNextID(txn, UserSeqKey)
		if err != nil {
			return err
		}
		user.ID = id

		if err := putEntity(txn, idKey(UserKeyPrefix, user.ID), user); err != nil {
			return err
		}
		if err := putIndex(txn, usernameKey(user.Username), user.ID); err != nil {
			return err
		}
		return putIndex(txn, emailKey(user.Email), user.ID)
	})
}

// GetByID retrieves a user by ID
func (r *BadgerUserRepository) GetByID(id int) (*models.User, error) {
	var user models.User
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, idKey(UserKeyPrefix, id), &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername retrieves a user by username
func (r *BadgerUserRepository) GetByUsername(username string) (*models.User, error) {
	return r.getByIndex(usernameKey(username))
}

// GetByEmail retrieves a user by email
func (r *BadgerUserRepository) GetByEmail(email string) (*models.User, error) {
	return r.getByIndex(emailKey(email))
}

func (r *BadgerUserRepository) getByIndex(key []byte) (*models.User, error) {
	var user models.User
	err := r.db.View(func(txn *badger.Txn) error {
		id, err := getIndex(txn, key)
		if err != nil {
			return err
		}
		return getEntity(txn, idKey(UserKeyPrefix, id), &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
