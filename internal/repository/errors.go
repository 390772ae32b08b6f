package repository

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a record id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrProfileInUse is returned by UserProfileRepository.Delete under the
	// block policy when care events or case records still reference the
	// profile.
	ErrProfileInUse = errors.New("利用者に紐づく記録が残っています")

	// ErrInvalidBackup is returned when an imported backup document fails
	// structural validation.
	ErrInvalidBackup = errors.New("バックアップデータの形式が不正です")
)

// newID returns an opaque record id: millisecond timestamp in base36 followed
// by a random suffix. Time-ordered, unique for all practical purposes at
// facility scale.
func newID() string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return strconv.FormatInt(time.Now().UnixMilli(), 36) + suffix
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
