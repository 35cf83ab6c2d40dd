package hub

import (
	"context"
	"testing"
	"time"

	"github.com/arjunkx/live-auction-backend/internal/engine"
	"github.com/arjunkx/live-auction-backend/internal/room"
	"go.uber.org/zap"
)

type noopGateway struct{}

func (noopGateway) MarkPlayerSold(ctx context.Context, playerID, teamID string, price int64) error {
	return nil
}

func (noopGateway) MarkPlayerUnsold(ctx context.Context, playerID string) error {
	return nil
}

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewHub(ctx, noopGateway{}, zap.NewNop())
}

func getView(t *testing.T, rm *room.Room) room.View {
	t.Helper()
	reply := make(chan room.View, 1)
	rm.Inbox() <- room.GetState{Reply: reply}
	select {
	case v := <-reply:
		return v
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timed out waiting for view")
		return room.View{} // unreachable
	}
}

func TestHub_Ensure_Get_SamePointer(t *testing.T) {
	h := newTestHub(t)
	reply := make(chan *room.Room, 1)

	h.Inbox() <- EnsureRoom{Code: "AUC123", Reply: reply}
	rm1 := <-reply

	h.Inbox() <- GetRoom{Code: "AUC123", Reply: reply}
	rm2 := <-reply

	h.Inbox() <- EnsureRoom{Code: "AUC123", Reply: reply}
	rm3 := <-reply

	if rm1 == nil || rm1 != rm2 || rm1 != rm3 {
		t.Fatalf("expected same room pointer for one code")
	}
}

func TestHub_Get_UnknownCodeIsNil(t *testing.T) {
	h := newTestHub(t)
	reply := make(chan *room.Room, 1)

	h.Inbox() <- GetRoom{Code: "NOPE", Reply: reply}
	if rm := <-reply; rm != nil {
		t.Fatalf("expected nil for unknown code, got %v", rm)
	}
}

// Two rooms receiving interleaved actions never cross-affect each other.
func TestHub_RoomsAreIndependent(t *testing.T) {
	h := newTestHub(t)
	reply := make(chan *room.Room, 1)

	h.Inbox() <- EnsureRoom{Code: "ROOM-A", Reply: reply}
	ra := <-reply
	h.Inbox() <- EnsureRoom{Code: "ROOM-B", Reply: reply}
	rb := <-reply

	ra.Inbox() <- room.FromClient{Cmd: engine.Command{Type: engine.CmdStartPlayer, PlayerID: "pa", Amount: 100}}
	rb.Inbox() <- room.FromClient{Cmd: engine.Command{Type: engine.CmdStartPlayer, PlayerID: "pb", Amount: 10}}
	ra.Inbox() <- room.FromClient{Cmd: engine.Command{Type: engine.CmdPlaceBid, TeamID: "teamA", Amount: 100}}
	rb.Inbox() <- room.FromClient{Cmd: engine.Command{Type: engine.CmdPlaceBid, TeamID: "teamX", Amount: 10}}
	ra.Inbox() <- room.FromClient{Cmd: engine.Command{Type: engine.CmdPlaceBid, TeamID: "teamB", Amount: 250}}

	va := getView(t, ra)
	vb := getView(t, rb)

	if va.State.CurrentPlayerID != "pa" || va.State.CurrentBid != 250 || va.State.LeadingTeamID != "teamB" {
		t.Fatalf("room A state wrong: %+v", va.State)
	}
	if vb.State.CurrentPlayerID != "pb" || vb.State.CurrentBid != 10 || vb.State.LeadingTeamID != "teamX" {
		t.Fatalf("room B state leaked from A: %+v", vb.State)
	}
}
