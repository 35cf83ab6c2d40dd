package room

import (
	"context"

	"github.com/arjunkx/live-auction-backend/internal/engine"
	"go.uber.org/zap"
)

// Gateway is the durable-store boundary a room commits sales through.
// Calls may be slow or fail; the room never blocks live bidding on them.
type Gateway interface {
	MarkPlayerSold(ctx context.Context, playerID, teamID string, price int64) error
	MarkPlayerUnsold(ctx context.Context, playerID string) error
}

type Msg interface{ isRoomMsg() }

type FromClient struct {
	Cmd engine.Command
}

func (FromClient) isRoomMsg() {}

type Join struct {
	ClientID string
	Outbox   chan Notice // where this viewer wants to receive notices
}

func (Join) isRoomMsg() {}

type Leave struct{ ClientID string }

func (Leave) isRoomMsg() {}

type Shutdown struct{}

func (Shutdown) isRoomMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isRoomMsg() {}

// commitDone comes back from the committer goroutine through the same
// inbox, so commit resolution is serialized with everything else.
type commitDone struct {
	err error
}

func (commitDone) isRoomMsg() {}

// CommitStatus is the room's view of its most recent durable write.
// A failed commit leaves the live state ahead of the store; the flag
// makes that divergence observable instead of silent.
type CommitStatus string

const (
	CommitNone    CommitStatus = ""
	CommitPending CommitStatus = "pending"
	CommitOK      CommitStatus = "ok"
	CommitFailed  CommitStatus = "failed"
)

type NoticeKind string

const (
	NoticeState      NoticeKind = "state"
	NoticeDataUpdate NoticeKind = "data_update"
)

// Notice is one outbound message to a viewer: either a full state
// snapshot or a bare re-fetch signal after a durable commit.
type Notice struct {
	Kind     NoticeKind
	Snapshot Snapshot // valid when Kind == NoticeState
}

type Snapshot struct {
	Version int
	Commit  CommitStatus
	State   engine.State
}

type View struct {
	Version    int
	NumClients int
	Commit     CommitStatus
	State      engine.State
}

type commitJob struct {
	kind     engine.EventType
	playerID string
	teamID   string
	amount   int64
}

type Room struct {
	code    string
	inbox   chan Msg
	commits chan commitJob
	state   engine.State
	version int
	commit  CommitStatus
	pending int // commits issued but not yet resolved
	clients map[string]chan Notice
	gw      Gateway
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewRoom(parent context.Context, code string, initial engine.State, gw Gateway, log *zap.Logger) *Room {
	ctx, cancel := context.WithCancel(parent)

	r := &Room{
		code:    code,
		inbox:   make(chan Msg, 64),
		commits: make(chan commitJob, 64),
		state:   initial,
		clients: make(map[string]chan Notice),
		gw:      gw,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
	}

	go r.loop()
	go r.committer()
	return r
}

func (r *Room) loop() {
	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Join:
				// Register viewer + send current snapshot to them only
				r.clients[msg.ClientID] = msg.Outbox
				msg.Outbox <- Notice{Kind: NoticeState, Snapshot: r.snapshot()}

			case Leave:
				delete(r.clients, msg.ClientID)

			case FromClient:
				r.apply(msg.Cmd)

			case commitDone:
				r.resolveCommit(msg.err)

			case GetState:
				// test-only: reflect internal state without data races
				msg.Reply <- View{
					Version:    r.version,
					NumClients: len(r.clients),
					Commit:     r.commit,
					State:      r.state,
				}

			case Shutdown:
				r.shutdown()
				return
			}
		}
	}
}

// apply runs one validated state transition: mutate, then broadcast,
// then hand any durable side effects to the committer. A rejected
// command changes nothing and broadcasts nothing.
func (r *Room) apply(cmd engine.Command) {
	events, newState, err := engine.Apply(r.state, cmd)
	if err != nil {
		r.log.Debug("command rejected",
			zap.String("room", r.code),
			zap.String("cmd", string(cmd.Type)),
			zap.Error(err))
		return
	}
	r.state = newState
	r.version++
	for _, evt := range events {
		r.enqueueCommit(evt)
	}
	r.broadcast(Notice{Kind: NoticeState, Snapshot: r.snapshot()})
}

func (r *Room) enqueueCommit(evt engine.Event) {
	job := commitJob{kind: evt.Type, playerID: evt.PlayerID, teamID: evt.TeamID, amount: evt.Amount}
	select {
	case r.commits <- job:
		r.pending++
		r.commit = CommitPending
	default:
		// Queue full means the store has been stuck for a long time.
		r.commit = CommitFailed
		r.log.Error("commit queue full, dropping durable write",
			zap.String("room", r.code),
			zap.String("player", evt.PlayerID))
	}
}

func (r *Room) resolveCommit(err error) {
	r.pending--
	if err != nil {
		r.commit = CommitFailed
		r.log.Error("durable commit failed",
			zap.String("room", r.code),
			zap.Error(err))
		// Live state already shows the sale; surface the divergence.
		r.broadcast(Notice{Kind: NoticeState, Snapshot: r.snapshot()})
		return
	}
	if r.pending == 0 && r.commit == CommitPending {
		r.commit = CommitOK
	}
	r.broadcast(Notice{Kind: NoticeDataUpdate})
}

// committer drains durable writes one at a time, in order, off the live
// path. A hung store call stalls only the data_update signal.
func (r *Room) committer() {
	for {
		select {
		case <-r.ctx.Done():
			return
		case job := <-r.commits:
			var err error
			switch job.kind {
			case engine.EvtPlayerSold:
				err = r.gw.MarkPlayerSold(r.ctx, job.playerID, job.teamID, job.amount)
			case engine.EvtPlayerUnsold:
				err = r.gw.MarkPlayerUnsold(r.ctx, job.playerID)
			}
			select {
			case r.inbox <- commitDone{err: err}:
			case <-r.ctx.Done():
				return
			}
		}
	}
}

func (r *Room) snapshot() Snapshot {
	return Snapshot{Version: r.version, Commit: r.commit, State: r.state}
}

func (r *Room) shutdown() {
	for id, ch := range r.clients {
		close(ch) // Tell viewer no more notices
		delete(r.clients, id)
	}
	r.cancel()
}

func (r *Room) broadcast(n Notice) {
	for id, ch := range r.clients {
		select {
		case ch <- n:
			// ok
		default:
			// Viewer is slow/full - drop them.
			close(ch)
			delete(r.clients, id)
			r.log.Warn("dropping slow viewer",
				zap.String("room", r.code),
				zap.String("client", id))
		}
	}
}

// Expose the inbox so tests or the WS layer can send messages.
func (r *Room) Inbox() chan<- Msg { return r.inbox }
