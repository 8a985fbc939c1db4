package devapi

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeebeez/another-signal/pkg/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testFixture() *Fixture {
	return &Fixture{Accounts: []FixtureAccount{
		{
			Account: core.Account{Name: "Globex", Domain: "globex.test", Employees: 340, FundingStage: "Series B"},
			Prospects: []core.Prospect{
				{Name: "Esther Howard", Role: "CTO"},
				{Name: "Arlene McCoy", Role: "CFO"},
			},
		},
		{
			Account: core.Account{Name: "Acme", FundingStage: "Seed", MagicColumns: []core.MagicColumn{
				{Question: "Has API?", Generated: core.Generated{Answer: "Yes", Reasoning: "Public docs"}},
			}},
		},
	}}
}

func TestStore_Migrate(t *testing.T) {
	store := newTestStore(t)

	version, err := store.MigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	require.NoError(t, store.Migrate(), "migrating twice is a no-op")
}

func TestStore_SeedAndList(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.Seed(ctx, testFixture()))

	accounts, err := store.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "Globex", accounts[0].Name, "fixture order is kept")
	assert.Equal(t, 340, accounts[0].Employees)
	assert.Empty(t, accounts[0].MagicColumns)
	assert.Equal(t, []core.MagicColumn{
		{Question: "Has API?", Generated: core.Generated{Answer: "Yes", Reasoning: "Public docs"}},
	}, accounts[1].MagicColumns)

	prospects, err := store.ListProspects(ctx, "Globex")
	require.NoError(t, err)
	require.Len(t, prospects, 2)
	assert.Equal(t, "Esther Howard", prospects[0].Name)

	none, err := store.ListProspects(ctx, "Nobody")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestStore_GetAccount(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.Seed(ctx, testFixture()))

	acme, err := store.GetAccount(ctx, "Acme")
	require.NoError(t, err)
	assert.Equal(t, "Seed", acme.FundingStage)
	assert.Len(t, acme.MagicColumns, 1)

	_, err = store.GetAccount(ctx, "Nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_EmptyListIsNotNil(t *testing.T) {
	accounts, err := newTestStore(t).ListAccounts(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, accounts)
	assert.Empty(t, accounts)
}

func TestStore_AddMagicColumn(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.Seed(ctx, testFixture()))

	calls := 0
	gen := GeneratorFunc(func(question string, a core.Account) core.Generated {
		calls++
		return core.Generated{Answer: a.Name + ":" + question}
	})

	n, err := store.AddMagicColumn(ctx, "  Big?  ", gen)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, calls)

	accounts, err := store.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.MagicColumn{{Question: "Big?", Generated: core.Generated{Answer: "Globex:Big?"}}}, accounts[0].MagicColumns)
	require.Len(t, accounts[1].MagicColumns, 2)
	assert.Equal(t, "Has API?", accounts[1].MagicColumns[0].Question, "questions keep the order they were asked in")
	assert.Equal(t, "Big?", accounts[1].MagicColumns[1].Question)

	_, err = store.AddMagicColumn(ctx, "Big?", GeneratorFunc(func(string, core.Account) core.Generated {
		return core.Generated{Answer: "again"}
	}))
	require.NoError(t, err)
	acme, err := store.GetAccount(ctx, "Acme")
	require.NoError(t, err)
	require.Len(t, acme.MagicColumns, 2, "asking again does not add a column")
	assert.Equal(t, "again", acme.MagicColumns[1].Generated.Answer)
}

func TestStore_AddMagicColumn_Blank(t *testing.T) {
	store := newTestStore(t)
	_, err := store.AddMagicColumn(context.Background(), " \t", KeywordGenerator{})
	assert.ErrorIs(t, err, ErrBlankQuestion)
}

func TestStore_ReseedKeepsAnswers(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.Seed(ctx, testFixture()))

	_, err := store.AddMagicColumn(ctx, "Big?", GeneratorFunc(func(string, core.Account) core.Generated {
		return core.Generated{Answer: "Yes"}
	}))
	require.NoError(t, err)

	require.NoError(t, store.Seed(ctx, &Fixture{Accounts: []FixtureAccount{{Account: core.Account{Name: "Globex"}}}}))

	accounts, err := store.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "Big?", accounts[0].MagicColumns[0].Question)

	prospects, err := store.ListProspects(ctx, "Globex")
	require.NoError(t, err)
	assert.Empty(t, prospects, "prospects are replaced")
}

func TestStore_NotOpened(t *testing.T) {
	var store Store
	_, err := store.ListAccounts(context.Background())
	assert.ErrorIs(t, err, errNotOpened)
	assert.ErrorIs(t, store.Migrate(), errNotOpened)
	assert.NoError(t, store.Close())
}
