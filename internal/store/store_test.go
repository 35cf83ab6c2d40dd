package store

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Integration test; needs a reachable postgres, e.g.
// TEST_DATABASE_URL=postgres://localhost:5432/auction_test
func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	st, err := Open(dsn, zap.NewNop())
	require.NoError(t, err)
	return st
}

func seedAuction(t *testing.T, st *Store) (Auction, Team, Player) {
	t.Helper()
	ctx := context.Background()

	a := Auction{Code: uuid.NewString()[:8], Name: "test auction", AdminCode: "secret"}
	require.NoError(t, st.CreateAuction(ctx, &a))

	team := Team{AuctionID: a.ID, Name: "team one", Budget: 1000}
	require.NoError(t, st.CreateTeam(ctx, &team))

	player := Player{AuctionID: a.ID, Name: "player one", BasePrice: 100}
	require.NoError(t, st.CreatePlayer(ctx, &player))

	return a, team, player
}

func TestMarkPlayerSold_CreditsTeamOnce(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	_, team, player := seedAuction(t, st)

	require.NoError(t, st.MarkPlayerSold(ctx, player.ID, team.ID, 150))

	players, err := st.PlayersByAuction(ctx, player.AuctionID)
	require.NoError(t, err)
	require.Len(t, players, 1)
	require.True(t, players[0].Sold)
	require.EqualValues(t, 150, players[0].SoldPrice)
	require.NotNil(t, players[0].TeamID)
	require.Equal(t, team.ID, *players[0].TeamID)

	// Re-issuing the sale must not double-charge the team.
	require.NoError(t, st.MarkPlayerSold(ctx, player.ID, team.ID, 150))

	teams, err := st.TeamsByAuction(ctx, team.AuctionID)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	require.EqualValues(t, 150, teams[0].Spent)
}

func TestMarkPlayerSold_UnknownPlayer(t *testing.T) {
	st := openTestStore(t)
	_, team, _ := seedAuction(t, st)

	err := st.MarkPlayerSold(context.Background(), uuid.NewString(), team.ID, 100)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMarkPlayerUnsold_ClearsSale(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	_, team, player := seedAuction(t, st)

	require.NoError(t, st.MarkPlayerSold(ctx, player.ID, team.ID, 150))
	require.NoError(t, st.MarkPlayerUnsold(ctx, player.ID))

	players, err := st.PlayersByAuction(ctx, player.AuctionID)
	require.NoError(t, err)
	require.Len(t, players, 1)
	require.False(t, players[0].Sold)
	require.EqualValues(t, 0, players[0].SoldPrice)
	require.Nil(t, players[0].TeamID)
}

func TestAuctionByCode(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	a, _, _ := seedAuction(t, st)

	got, err := st.AuctionByCode(ctx, a.Code)
	require.NoError(t, err)
	require.Equal(t, a.ID, got.ID)

	_, err = st.AuctionByCode(ctx, "missing-code")
	require.ErrorIs(t, err, ErrNotFound)
}
