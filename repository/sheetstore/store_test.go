package sheetstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"testing"

	"xenory/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeValues is an in-memory sheet; grid[0] is row 1
type fakeValues struct {
	mu      sync.Mutex
	grid    [][]interface{}
	getErr  error
	appends int
}

func (f *fakeValues) Get(_ context.Context, _ string, readRange string) ([][]interface{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	switch readRange {
	case headerRange:
		if len(f.grid) == 0 {
			return nil, nil
		}
		return f.grid[:1], nil
	case dataRange:
		if len(f.grid) <= 1 {
			return nil, nil
		}
		return f.grid[1:], nil
	}
	return nil, fmt.Errorf("unexpected range %s", readRange)
}

func (f *fakeValues) Update(_ context.Context, _ string, writeRange string, values [][]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	row := 1
	if writeRange != headerRange {
		// "GuildConfigs!A<n>:K<n>"
		start := strings.TrimPrefix(writeRange, SheetName+"!A")
		n, err := strconv.Atoi(start[:strings.Index(start, ":")])
		if err != nil {
			return err
		}
		row = n
	}
	for len(f.grid) < row {
		f.grid = append(f.grid, nil)
	}
	f.grid[row-1] = values[0]
	return nil
}

func (f *fakeValues) Append(_ context.Context, _ string, _ string, values [][]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appends++
	f.grid = append(f.grid, values...)
	return nil
}

func TestStore_EnsureHeader(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	api := &fakeValues{}
	store := newStore(api, "sheet-id")

	require.NoError(t, store.ensureHeader(ctx))
	require.Len(t, api.grid, 1)
	assert.Equal(t, "guild_id", api.grid[0][0])
	assert.Equal(t, "application_title", api.grid[0][10])

	// Existing header is kept
	api.grid[0][0] = "custom"
	require.NoError(t, store.ensureHeader(ctx))
	assert.Equal(t, "custom", api.grid[0][0])
}

func TestStore_UpsertAppendsThenUpdatesInPlace(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	api := &fakeValues{}
	store := newStore(api, "sheet-id")
	require.NoError(t, store.ensureHeader(ctx))

	first := models.NewGuildConfig("111")
	second := models.NewGuildConfig("222")
	require.NoError(t, store.Upsert(ctx, first))
	require.NoError(t, store.Upsert(ctx, second))

	verified := "v1"
	second.VerifiedRoleID = &verified
	second.SendWelcomeDM = true
	require.NoError(t, store.Upsert(ctx, second))

	assert.Equal(t, 2, api.appends)
	assert.Len(t, api.grid, 3)

	cfg, err := store.Find(ctx, "222")
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "v1", cfg.VerifiedRole())
	assert.True(t, cfg.SendWelcomeDM)
	assert.Equal(t, "TRUE", api.grid[2][6])

	cfg, err = store.Find(ctx, "111")
	require.NoError(t, err)
	assert.False(t, cfg.HasVerifiedRole())
}

func TestStore_FindMissingAndFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	api := &fakeValues{}
	store := newStore(api, "sheet-id")

	cfg, err := store.Find(ctx, "123")
	require.NoError(t, err)
	assert.Nil(t, cfg)

	api.getErr = errors.New("403 forbidden")
	_, err = store.Find(ctx, "123")
	assert.ErrorIs(t, err, api.getErr)
	assert.ErrorIs(t, store.Upsert(ctx, models.NewGuildConfig("123")), api.getErr)
}

func TestDecodeRow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		row   []interface{}
		check func(t *testing.T, cfg *models.GuildConfig)
	}{
		{
			name: "short row leaves trailing fields absent",
			row:  []interface{}{"123", "r1"},
			check: func(t *testing.T, cfg *models.GuildConfig) {
				assert.Equal(t, "r1", cfg.RestrictedRole())
				assert.False(t, cfg.HasStaffChannel())
				assert.False(t, cfg.SendWelcomeDM)
				assert.Equal(t, models.DefaultApplicationTitle, cfg.ApplicationTitle)
			},
		},
		{
			name: "empty cells are absent",
			row:  []interface{}{"123", "", " ", "", "", "", "FALSE", "", "", "", ""},
			check: func(t *testing.T, cfg *models.GuildConfig) {
				assert.Nil(t, cfg.RestrictedRoleID)
				assert.Nil(t, cfg.VerifiedRoleID)
			},
		},
		{
			name: "boolean is case insensitive",
			row:  []interface{}{"123", "", "", "", "", "hi", "true"},
			check: func(t *testing.T, cfg *models.GuildConfig) {
				assert.True(t, cfg.ShouldSendWelcomeDM())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tt.check(t, decodeRow(tt.row))
		})
	}
}
