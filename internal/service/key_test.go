package service

import (
	"io"
	"testing"

	"site-lock-system/internal/database"
	"site-lock-system/internal/model"
	apperrors "site-lock-system/pkg/errors"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestKeyService(t *testing.T) (*KeyService, *gorm.DB) {
	t.Helper()
	db := database.OpenTest()

	log := logrus.New()
	log.SetOutput(io.Discard)

	activity := NewActivityService(db, NewFeed(), nil, log)
	return NewKeyService(db, activity, log), db
}

func entriesFor(t *testing.T, db *gorm.DB, keyID string) []model.ActivityLog {
	t.Helper()
	var entries []model.ActivityLog
	require.NoError(t, db.Where("key_id = ?", keyID).Order("created_at ASC").Find(&entries).Error)
	return entries
}

func TestCreateKey(t *testing.T) {
	keys, db := newTestKeyService(t)

	key, err := keys.Create(1, "Acme Corp Website")
	require.NoError(t, err)

	assert.Regexp(t, `^pk_live_[a-z0-9]{24}$`, key.KeyValue)
	assert.False(t, key.IsLocked)
	assert.Equal(t, uint(1), key.UserID)

	entries := entriesFor(t, db, key.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, model.EventCreated, entries[0].EventType)
	assert.Equal(t, "License key created for Acme Corp Website", entries[0].Description)
}

func TestCreateKeyRequiresName(t *testing.T) {
	keys, _ := newTestKeyService(t)

	_, err := keys.Create(1, "")
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
}

func TestSetLock(t *testing.T) {
	keys, db := newTestKeyService(t)

	key, err := keys.Create(1, "Acme Corp Website")
	require.NoError(t, err)

	locked, err := keys.SetLock(1, key.ID, true)
	require.NoError(t, err)
	assert.True(t, locked.IsLocked)

	// The public check sees the new state immediately.
	isLocked, err := keys.CheckStatus(key.KeyValue)
	require.NoError(t, err)
	assert.True(t, isLocked)

	unlocked, err := keys.SetLock(1, key.ID, false)
	require.NoError(t, err)
	assert.False(t, unlocked.IsLocked)

	entries := entriesFor(t, db, key.ID)
	require.Len(t, entries, 3)
	assert.Equal(t, model.EventLocked, entries[1].EventType)
	assert.Equal(t, model.EventUnlocked, entries[2].EventType)
}

func TestSetLockIdempotent(t *testing.T) {
	keys, _ := newTestKeyService(t)

	key, err := keys.Create(1, "Acme Corp Website")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		updated, err := keys.SetLock(1, key.ID, true)
		require.NoError(t, err)
		assert.True(t, updated.IsLocked)
	}
}

func TestRename(t *testing.T) {
	keys, db := newTestKeyService(t)

	key, err := keys.Create(1, "Old Name")
	require.NoError(t, err)

	renamed, err := keys.Rename(1, key.ID, "New Name")
	require.NoError(t, err)
	assert.Equal(t, "New Name", renamed.ProjectName)

	entries := entriesFor(t, db, key.ID)
	require.Len(t, entries, 2)
	assert.Equal(t, model.EventRenamed, entries[1].EventType)
	assert.Equal(t, `Renamed project from "Old Name" to "New Name"`, entries[1].Description)
}

func TestRotate(t *testing.T) {
	keys, db := newTestKeyService(t)

	key, err := keys.Create(1, "Acme Corp Website")
	require.NoError(t, err)
	oldValue := key.KeyValue

	rotated, err := keys.Rotate(1, key.ID)
	require.NoError(t, err)
	assert.Regexp(t, `^sk_[a-z0-9]{13}_[a-z0-9]{13}$`, rotated.KeyValue)
	assert.NotEqual(t, oldValue, rotated.KeyValue)

	// The old value is permanently invalid.
	_, err = keys.CheckStatus(oldValue)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))

	isLocked, err := keys.CheckStatus(rotated.KeyValue)
	require.NoError(t, err)
	assert.False(t, isLocked)

	entries := entriesFor(t, db, key.ID)
	require.Len(t, entries, 2)
	assert.Equal(t, model.EventKeyRotated, entries[1].EventType)
}

func TestDeleteWritesNoEntry(t *testing.T) {
	keys, db := newTestKeyService(t)

	key, err := keys.Create(1, "Acme Corp Website")
	require.NoError(t, err)

	require.NoError(t, keys.Delete(1, key.ID))

	_, err = keys.CheckStatus(key.KeyValue)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))

	// Only the CREATED entry exists; deletion neither logs nor cascades.
	entries := entriesFor(t, db, key.ID)
	assert.Len(t, entries, 1)
}

func TestOwnershipScoping(t *testing.T) {
	keys, _ := newTestKeyService(t)

	key, err := keys.Create(1, "Acme Corp Website")
	require.NoError(t, err)

	_, err = keys.Get(2, key.ID)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))

	_, err = keys.SetLock(2, key.ID, true)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))

	err = keys.Delete(2, key.ID)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestCheckStatusErrors(t *testing.T) {
	keys, _ := newTestKeyService(t)

	_, err := keys.CheckStatus("")
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))

	_, err = keys.CheckStatus("pk_live_doesnotexist00000000")
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestListNewestFirst(t *testing.T) {
	keys, _ := newTestKeyService(t)

	for _, name := range []string{"first", "second", "third"} {
		_, err := keys.Create(1, name)
		require.NoError(t, err)
	}

	list, err := keys.List(1)
	require.NoError(t, err)
	require.Len(t, list, 3)

	for i := 1; i < len(list); i++ {
		assert.False(t, list[i-1].CreatedAt.Before(list[i].CreatedAt))
	}
}
