package engine

import "errors"

var ErrRoundNotActive = errors.New("round not active")
var ErrBidTooLow = errors.New("bid too low")
var ErrInvalidAmount = errors.New("invalid amount")
var ErrMissingTeam = errors.New("missing team")
var ErrMissingPlayer = errors.New("missing player")
var ErrNothingToUndo = errors.New("nothing to undo")
var ErrNotPausable = errors.New("round cannot be paused")
var ErrNoLeadingBid = errors.New("no leading bid")
var ErrNoPlayerOnBlock = errors.New("no player on the block")
var ErrUnsupportedCommand = errors.New("unsupported command")

type Status string

const (
	StatusIdle   Status = "idle"
	StatusActive Status = "active"
	StatusPaused Status = "paused"
	StatusSold   Status = "sold"
	StatusUnsold Status = "unsold"
)

// BidFrame is one undo step: the bid that was standing before the most
// recent accepted bid replaced it.
type BidFrame struct {
	Amount int64  `json:"amount"`
	TeamID string `json:"team_id"`
}

// State is the live round for one auction room. LeadingTeamID is empty
// exactly when no bid has been accepted since the round started.
type State struct {
	Status          Status     `json:"status"`
	CurrentPlayerID string     `json:"current_player_id,omitempty"`
	CurrentBid      int64      `json:"current_bid"`
	LeadingTeamID   string     `json:"leading_team_id,omitempty"`
	History         []BidFrame `json:"history"`
}

type CommandType string

const (
	CmdStartPlayer  CommandType = "StartPlayer"
	CmdPlaceBid     CommandType = "PlaceBid"
	CmdUndoBid      CommandType = "UndoBid"
	CmdTogglePause  CommandType = "TogglePause"
	CmdSellPlayer   CommandType = "SellPlayer"
	CmdUnsellPlayer CommandType = "UnsellPlayer"
	CmdResetRound   CommandType = "ResetRound"
)

type Command struct {
	Type     CommandType
	PlayerID string
	TeamID   string
	Amount   int64
}

type EventType string

const (
	EvtPlayerSold   EventType = "PlayerSold"
	EvtPlayerUnsold EventType = "PlayerUnsold"
)

// Event is a durable side effect the room owes the store. Only sale and
// unsale produce events; everything else stays in memory.
type Event struct {
	Type     EventType
	PlayerID string
	TeamID   string
	Amount   int64
}

// Apply validates cmd against s and returns the resulting state plus any
// durable side effects. On error the returned state is s unchanged; the
// caller is expected to swallow the error without broadcasting.
func Apply(s State, cmd Command) ([]Event, State, error) {
	next := s

	switch cmd.Type {
	case CmdStartPlayer:
		if cmd.PlayerID == "" {
			return nil, s, ErrMissingPlayer
		}
		if cmd.Amount < 0 {
			return nil, s, ErrInvalidAmount
		}
		// Always allowed; overwrites any prior round.
		next = State{
			Status:          StatusActive,
			CurrentPlayerID: cmd.PlayerID,
			CurrentBid:      cmd.Amount,
		}
		return nil, next, nil

	case CmdPlaceBid:
		if s.Status != StatusActive {
			return nil, s, ErrRoundNotActive
		}
		if cmd.TeamID == "" {
			return nil, s, ErrMissingTeam
		}
		if cmd.Amount < 0 {
			return nil, s, ErrInvalidAmount
		}
		if s.LeadingTeamID == "" {
			// Opening bid: equal to the base price is the one case
			// where equality is accepted.
			if cmd.Amount < s.CurrentBid {
				return nil, s, ErrBidTooLow
			}
		} else if cmd.Amount <= s.CurrentBid {
			return nil, s, ErrBidTooLow
		}
		next.History = append(next.History, BidFrame{Amount: s.CurrentBid, TeamID: s.LeadingTeamID})
		next.CurrentBid = cmd.Amount
		next.LeadingTeamID = cmd.TeamID
		return nil, next, nil

	case CmdUndoBid:
		if len(s.History) == 0 {
			return nil, s, ErrNothingToUndo
		}
		frame := s.History[len(s.History)-1]
		next.History = s.History[:len(s.History)-1]
		next.CurrentBid = frame.Amount
		next.LeadingTeamID = frame.TeamID
		return nil, next, nil

	case CmdTogglePause:
		switch s.Status {
		case StatusActive:
			next.Status = StatusPaused
		case StatusPaused:
			next.Status = StatusActive
		default:
			return nil, s, ErrNotPausable
		}
		return nil, next, nil

	case CmdSellPlayer:
		if s.CurrentPlayerID == "" {
			return nil, s, ErrNoPlayerOnBlock
		}
		if s.LeadingTeamID == "" {
			return nil, s, ErrNoLeadingBid
		}
		next.Status = StatusSold
		next.History = nil
		events := []Event{{
			Type:     EvtPlayerSold,
			PlayerID: s.CurrentPlayerID,
			TeamID:   s.LeadingTeamID,
			Amount:   s.CurrentBid,
		}}
		return events, next, nil

	case CmdUnsellPlayer:
		if s.CurrentPlayerID == "" {
			return nil, s, ErrNoPlayerOnBlock
		}
		next.Status = StatusUnsold
		events := []Event{{Type: EvtPlayerUnsold, PlayerID: s.CurrentPlayerID}}
		return events, next, nil

	case CmdResetRound:
		return nil, NewIdleState(), nil

	default:
		return nil, s, ErrUnsupportedCommand
	}
}
