package repo

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"Boltcalc/internal/apperr"
	"Boltcalc/internal/material"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T) *SQLRepository {
	t.Helper()
	r, err := Open(context.Background(), "", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	r := openTest(t)

	id, err := r.CreateUser(ctx, "alice", "alice@example.com", "hash")
	require.NoError(t, err)
	assert.Positive(t, id)

	_, err = r.CreateUser(ctx, "alice", "other@example.com", "hash")
	assert.Error(t, err)

	gotID, hash, err := r.GetByLogin(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, id, gotID)
	assert.Equal(t, "hash", hash)

	_, _, err = r.GetByLogin(ctx, "bob")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestMaterials(t *testing.T) {
	ctx := context.Background()
	r := openTest(t)

	mats, err := r.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, mats)

	defaults := material.Defaults()
	for _, m := range defaults {
		require.NoError(t, r.Save(ctx, m))
	}
	mats, err = r.Load(ctx)
	require.NoError(t, err)
	require.Len(t, mats, len(defaults))
	assert.Equal(t, "31CrMoV9", mats[0].Name())

	byName := map[string]material.Material{}
	for _, m := range mats {
		byName[m.Name()] = m
	}
	for _, m := range defaults {
		assert.Equal(t, m, byName[m.Name()])
	}

	updated, err := material.New("S355J2", "1.0577", 7850, 490, 345, 210000, material.StructuralSteel)
	require.NoError(t, err)
	require.NoError(t, r.Save(ctx, updated))
	mats, err = r.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, mats, len(defaults))
	for _, m := range mats {
		if m.Name() == "S355J2" {
			assert.Equal(t, 345.0, m.YieldStress())
		}
	}

	clash, err := material.New("Other", "1.0577", 7850, 490, 345, 210000, material.StructuralSteel)
	require.NoError(t, err)
	assert.True(t, errors.Is(r.Save(ctx, clash), apperr.ErrValidation))
}

func TestCatalogFromRepository(t *testing.T) {
	ctx := context.Background()
	r := openTest(t)
	require.NoError(t, r.Save(ctx, material.Defaults()[0]))

	var store material.Store = r
	c, err := material.LoadCatalog(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
}

func TestRebind(t *testing.T) {
	pg := New(nil, Postgres)
	assert.Equal(t, "SELECT a FROM t WHERE x = $1 AND y = $2", pg.rebind("SELECT a FROM t WHERE x = ? AND y = ?"))
	lite := New(nil, SQLite)
	assert.Equal(t, "x = ?", lite.rebind("x = ?"))
}

func TestWithSSLMode(t *testing.T) {
	assert.Equal(t, "postgres://u@h/db?sslmode=require", withSSLMode("postgres://u@h/db"))
	assert.Equal(t, "postgres://u@h/db?x=1&sslmode=require", withSSLMode("postgres://u@h/db?x=1"))
	assert.Equal(t, "user=u sslmode=require", withSSLMode("user=u"))
	assert.Equal(t, "user=u sslmode=disable", withSSLMode("user=u sslmode=disable"))
}
