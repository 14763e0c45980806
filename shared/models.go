package shared

import (
	"encoding/json"
	"time"
)

// Envelope trocado entre peers no tópico peer.<id>.inbox
type Message struct {
	Type string          `json:"type"`
	From string          `json:"from"`
	Data json.RawMessage `json:"data"`
}

// Request/Response do canal de comandos (peer.<id>.commands)
type Request struct {
	ClientID string          `json:"client_id"`
	Action   string          `json:"action"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

type Response struct {
	Status string          `json:"status"`
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
	Peer   string          `json:"peer"`
}

type MatchStatus string

const (
	WaitingForPlayer MatchStatus = "WAITING_FOR_PLAYER"
	Active           MatchStatus = "ACTIVE"
	Ended            MatchStatus = "ENDED"
)

type Choice string

const (
	Stone    Choice = "STONE"
	Paper    Choice = "PAPER"
	Scissors Choice = "SCISSORS"
)

// Valid diz se c é uma das três jogadas possíveis
func (c Choice) Valid() bool {
	switch c {
	case Stone, Paper, Scissors:
		return true
	}
	return false
}

type RoundOutcome string

const (
	Draw      RoundOutcome = "DRAW"
	HostWins  RoundOutcome = "HOST_WINS"
	GuestWins RoundOutcome = "GUEST_WINS"
)

type PlayerInfo struct {
	Peer string `json:"peer"`
	Name string `json:"name"`
}

type RoundRecord struct {
	Round       uint8        `json:"round"`
	HostChoice  Choice       `json:"hostChoice"`
	GuestChoice Choice       `json:"guestChoice"`
	Outcome     RoundOutcome `json:"outcome"`
	HostScore   uint8        `json:"hostScore"`
	GuestScore  uint8        `json:"guestScore"`
	Timestamp   time.Time    `json:"timestamp"`
}

// Game é o snapshot canônico da partida. Só atravessa peers por valor.
type Game struct {
	MatchID         string        `json:"matchId"`
	HostPeer        string        `json:"hostPeer"`
	Status          MatchStatus   `json:"status"`
	Players         []PlayerInfo  `json:"players"`
	Round           uint8         `json:"round"`
	HostScore       uint8         `json:"hostScore"`
	GuestScore      uint8         `json:"guestScore"`
	LastRound       *uint8        `json:"lastRound,omitempty"`
	LastHostChoice  *Choice       `json:"lastHostChoice,omitempty"`
	LastGuestChoice *Choice       `json:"lastGuestChoice,omitempty"`
	LastOutcome     *RoundOutcome `json:"lastOutcome,omitempty"`
	History         []RoundRecord `json:"history"`
	WinnerPeer      *string       `json:"winnerPeer,omitempty"`
}

// Clone faz uma cópia profunda, payloads enviados nunca apontam pro estado local
func (g *Game) Clone() *Game {
	if g == nil {
		return nil
	}
	c := *g
	c.Players = append(make([]PlayerInfo, 0, len(g.Players)), g.Players...)
	c.History = append(make([]RoundRecord, 0, len(g.History)), g.History...)
	if g.LastRound != nil {
		v := *g.LastRound
		c.LastRound = &v
	}
	if g.LastHostChoice != nil {
		v := *g.LastHostChoice
		c.LastHostChoice = &v
	}
	if g.LastGuestChoice != nil {
		v := *g.LastGuestChoice
		c.LastGuestChoice = &v
	}
	if g.LastOutcome != nil {
		v := *g.LastOutcome
		c.LastOutcome = &v
	}
	if g.WinnerPeer != nil {
		v := *g.WinnerPeer
		c.WinnerPeer = &v
	}
	return &c
}

type MatchmakingPlayer struct {
	Peer       string    `json:"peer"`
	Name       string    `json:"name"`
	EnqueuedAt time.Time `json:"enqueuedAt"`
}

// Tipos de mensagem entre peers
const (
	MsgJoinRequest        = "JOIN_REQUEST"
	MsgInitialStateSync   = "INITIAL_STATE_SYNC"
	MsgGameSync           = "GAME_SYNC"
	MsgReadyNotice        = "READY_NOTICE"
	MsgChoiceReveal       = "CHOICE_REVEAL"
	MsgLeaveNotice        = "LEAVE_NOTICE"
	MsgMatchmakingEnqueue = "MATCHMAKING_ENQUEUE"
	MsgMatchmakingQueued  = "MATCHMAKING_ENQUEUED"
	MsgMatchmakingStart   = "MATCHMAKING_START"
	MsgMatchmakingFound   = "MATCHMAKING_FOUND"
)

type JoinRequest struct {
	Peer string `json:"peer"`
	Name string `json:"name"`
}

type StateSync struct {
	Game Game `json:"game"`
}

type ReadyNotice struct {
	Peer  string `json:"peer"`
	Round uint8  `json:"round"`
}

type ChoiceReveal struct {
	Peer   string `json:"peer"`
	Round  uint8  `json:"round"`
	Choice Choice `json:"choice"`
}

type LeaveNotice struct {
	Peer string `json:"peer"`
}

type MatchmakingEnqueue struct {
	Peer string `json:"peer"`
	Name string `json:"name"`
}

type MatchmakingEnqueued struct {
	OrchestratorPeer string `json:"orchestratorPeer"`
}

type MatchmakingStart struct {
	HostName  string `json:"hostName"`
	GuestPeer string `json:"guestPeer"`
	GuestName string `json:"guestName"`
}

type MatchmakingFound struct {
	HostPeer string `json:"hostPeer"`
}

// Ações do command surface
const (
	ActionCreateMatch  = "CREATE_MATCH"
	ActionJoinMatch    = "JOIN_MATCH"
	ActionSearchPlayer = "SEARCH_PLAYER"
	ActionPickAndReady = "PICK_AND_READY"
	ActionLeaveMatch   = "LEAVE_MATCH"
	ActionView         = "VIEW"
)

type CreateMatchPayload struct {
	Name string `json:"name"`
}

type JoinMatchPayload struct {
	HostPeer string `json:"hostPeer"`
	Name     string `json:"name"`
}

type SearchPlayerPayload struct {
	OrchestratorPeer string `json:"orchestratorPeer"`
	Name             string `json:"name"`
}

type PickAndReadyPayload struct {
	Choice Choice `json:"choice"`
}

// MatchView é a visão somente leitura, relativa ao peer que consulta (VIEW)
type MatchView struct {
	Game             *Game         `json:"game,omitempty"`
	Peer             string        `json:"peer"`
	MatchStatus      *MatchStatus  `json:"matchStatus,omitempty"`
	Round            *uint8        `json:"round,omitempty"`
	IsHost           bool          `json:"isHost"`
	OpponentPeer     *string       `json:"opponentPeer,omitempty"`
	MyReady          bool          `json:"myReady"`
	OpponentReady    bool          `json:"opponentReady"`
	MyChoice         *Choice       `json:"myChoice,omitempty"`
	OpponentChoice   *Choice       `json:"opponentChoice,omitempty"`
	MyScore          *uint8        `json:"myScore,omitempty"`
	OpponentScore    *uint8        `json:"opponentScore,omitempty"`
	LastOutcome      *RoundOutcome `json:"lastOutcome,omitempty"`
	History          []RoundRecord `json:"history"`
	LastRoundRecord  *RoundRecord  `json:"lastRoundRecord,omitempty"`
	LastNotification *string       `json:"lastNotification,omitempty"`
}
