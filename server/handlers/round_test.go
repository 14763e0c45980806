package handlers

import (
	"testing"
	"time"

	"github.com/gokudragoo/stonepapersessior/server/models"
	"github.com/gokudragoo/stonepapersessior/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstRoundHostWins(t *testing.T) {
	r, host, guest := startedMatch(t)
	r.clock.Advance(2 * time.Second)

	playRound(t, r, host, guest, shared.Stone, shared.Scissors)

	hg, gg := host.State().Game, guest.State().Game
	for _, g := range []*shared.Game{hg, gg} {
		require.NotNil(t, g.LastOutcome)
		assert.Equal(t, shared.HostWins, *g.LastOutcome)
		assert.Equal(t, uint8(1), g.HostScore)
		assert.Equal(t, uint8(0), g.GuestScore)
		assert.Equal(t, uint8(2), g.Round)
		assert.Equal(t, uint8(1), *g.LastRound)
		assert.Equal(t, shared.Stone, *g.LastHostChoice)
		assert.Equal(t, shared.Scissors, *g.LastGuestChoice)
		require.Len(t, g.History, 1)

		rec := g.History[0]
		assert.Equal(t, uint8(1), rec.Round)
		assert.Equal(t, shared.Stone, rec.HostChoice)
		assert.Equal(t, shared.Scissors, rec.GuestChoice)
		assert.Equal(t, shared.HostWins, rec.Outcome)
		assert.Equal(t, uint8(1), rec.HostScore)
		assert.Equal(t, uint8(0), rec.GuestScore)
		assert.True(t, rec.Timestamp.Equal(testEpoch.Add(2*time.Second)))
	}

	// rodada nova: nada pendente dos dois lados
	assert.Equal(t, models.RoundState{}, host.State().Round)
	assert.Equal(t, models.RoundState{}, guest.State().Round)
}

func TestGuestWinsAndDraw(t *testing.T) {
	r, host, guest := startedMatch(t)

	playRound(t, r, host, guest, shared.Stone, shared.Paper)
	g := guest.State().Game
	assert.Equal(t, shared.GuestWins, *g.LastOutcome)
	assert.Equal(t, uint8(0), g.HostScore)
	assert.Equal(t, uint8(1), g.GuestScore)

	playRound(t, r, host, guest, shared.Scissors, shared.Scissors)
	g = guest.State().Game
	assert.Equal(t, shared.Draw, *g.LastOutcome)
	assert.Equal(t, uint8(0), g.HostScore, "draw leaves scores alone")
	assert.Equal(t, uint8(1), g.GuestScore)
	assert.Equal(t, uint8(3), g.Round)
	assert.Len(t, g.History, 2)
}

func TestMatchEndsAtThreeHostWins(t *testing.T) {
	r, host, guest := startedMatch(t)

	for i := 0; i < 3; i++ {
		playRound(t, r, host, guest, shared.Paper, shared.Stone)
	}

	for _, g := range []*shared.Game{host.State().Game, guest.State().Game} {
		assert.Equal(t, shared.Ended, g.Status)
		require.NotNil(t, g.WinnerPeer)
		assert.Equal(t, "h", *g.WinnerPeer)
		assert.Equal(t, uint8(3), g.HostScore)
		assert.Equal(t, uint8(3), g.Round, "round frozen once ended")
		assert.Len(t, g.History, 3)
	}

	_, err := host.PickAndReady(shared.Stone)
	assert.ErrorIs(t, err, ErrMatchNotReady)
	_, err = guest.PickAndReady(shared.Stone)
	assert.ErrorIs(t, err, ErrMatchNotReady)
	assert.Zero(t, r.total())
}

func TestMatchEndsAtThreeGuestWins(t *testing.T) {
	r, host, guest := startedMatch(t)

	playRound(t, r, host, guest, shared.Stone, shared.Paper)
	playRound(t, r, host, guest, shared.Stone, shared.Stone)
	playRound(t, r, host, guest, shared.Scissors, shared.Stone)
	playRound(t, r, host, guest, shared.Paper, shared.Scissors)

	g := guest.State().Game
	assert.Equal(t, shared.Ended, g.Status)
	assert.Equal(t, "g", *g.WinnerPeer)
	assert.Equal(t, uint8(3), g.GuestScore)
	assert.Equal(t, uint8(4), g.Round)
}

func TestScoresNeverDecrease(t *testing.T) {
	r, host, guest := startedMatch(t)
	plays := [][2]shared.Choice{
		{shared.Stone, shared.Stone},
		{shared.Stone, shared.Paper},
		{shared.Paper, shared.Stone},
		{shared.Scissors, shared.Scissors},
		{shared.Scissors, shared.Stone},
		{shared.Stone, shared.Scissors},
	}

	var hs, gs uint8
	for _, pl := range plays {
		playRound(t, r, host, guest, pl[0], pl[1])
		g := host.State().Game
		delta := int(g.HostScore-hs) + int(g.GuestScore-gs)
		assert.LessOrEqual(t, delta, 1, "at most one point per round")
		assert.GreaterOrEqual(t, g.HostScore, hs)
		assert.GreaterOrEqual(t, g.GuestScore, gs)
		hs, gs = g.HostScore, g.GuestScore
	}
}

func TestPickAndReadyGuards(t *testing.T) {
	t.Run("no match", func(t *testing.T) {
		r := newRouter(t)
		p := r.add("h")
		_, err := p.PickAndReady(shared.Stone)
		assert.ErrorIs(t, err, ErrMatchNotFound)
	})

	t.Run("waiting for player", func(t *testing.T) {
		r := newRouter(t)
		p := r.add("h")
		_, err := p.CreateMatch("Alice")
		require.NoError(t, err)
		_, err = p.PickAndReady(shared.Stone)
		assert.ErrorIs(t, err, ErrMatchNotReady)
		assert.Zero(t, r.total())
	})

	t.Run("invalid choice", func(t *testing.T) {
		r, host, _ := startedMatch(t)
		_, err := host.PickAndReady(shared.Choice("LIZARD"))
		assert.ErrorIs(t, err, ErrInvalidChoice)
		assert.Equal(t, models.RoundState{}, host.State().Round)
		assert.Zero(t, r.total())
	})

	t.Run("double ready", func(t *testing.T) {
		r, host, _ := startedMatch(t)
		ack, err := host.PickAndReady(shared.Stone)
		require.NoError(t, err)
		assert.Equal(t, "Ready sent", ack)

		before := host.State()
		_, err = host.PickAndReady(shared.Paper)
		assert.ErrorIs(t, err, ErrAlreadyReady)
		assert.Equal(t, before, host.State())
		assert.Equal(t, shared.Stone, *host.State().Round.MyChoice)
		assert.Len(t, r.pending("h", "g"), 1)
	})
}

func TestRevealTriggeredByReadiness(t *testing.T) {
	r, host, guest := startedMatch(t)

	_, err := host.PickAndReady(shared.Stone)
	require.NoError(t, err)
	assert.Equal(t, []string{shared.MsgReadyNotice}, messageTypes(r.pending("h", "g")))

	require.NoError(t, r.deliverNext("h", "g"))
	assert.True(t, guest.State().Round.OpponentReady)
	assert.Empty(t, r.pending("g", "h"), "guest not ready yet, nothing to reveal")

	// o guest já sabe que o host está pronto: revela junto com o ready
	_, err = guest.PickAndReady(shared.Paper)
	require.NoError(t, err)
	assert.Equal(t, []string{shared.MsgReadyNotice, shared.MsgChoiceReveal}, messageTypes(r.pending("g", "h")))

	r.flush()
	g := host.State().Game
	assert.Equal(t, shared.GuestWins, *g.LastOutcome)
	assert.Equal(t, uint8(2), guest.State().Game.Round)
}

func TestDuplicateRevealAppliedOnce(t *testing.T) {
	r, host, guest := startedMatch(t)

	_, err := host.PickAndReady(shared.Stone)
	require.NoError(t, err)
	_, err = guest.PickAndReady(shared.Paper)
	require.NoError(t, err)

	// guest recebe o ready do host e revela
	require.NoError(t, r.deliverNext("h", "g"))
	// host recebe o ready do guest e revela
	require.NoError(t, r.deliverNext("g", "h"))

	reveal := r.pending("h", "g")[0]
	require.Equal(t, shared.MsgChoiceReveal, reveal.Type)

	require.NoError(t, guest.HandleMessage(reveal))
	after := guest.State()
	require.NotNil(t, after.Round.OpponentChoice)
	assert.Equal(t, shared.Stone, *after.Round.OpponentChoice)

	require.NoError(t, guest.HandleMessage(reveal))
	assert.Equal(t, after, guest.State())

	forged := shared.Message{
		Type: shared.MsgChoiceReveal,
		From: "h",
		Data: mustMarshal(shared.ChoiceReveal{Peer: "h", Round: 1, Choice: shared.Scissors}),
	}
	require.NoError(t, guest.HandleMessage(forged))
	assert.Equal(t, shared.Stone, *guest.State().Round.OpponentChoice, "first reveal wins")
}

func TestStaleMessagesIgnored(t *testing.T) {
	r, host, guest := startedMatch(t)
	playRound(t, r, host, guest, shared.Stone, shared.Stone)
	require.Equal(t, uint8(2), host.State().Game.Round)

	before := host.State()
	stale := []shared.Message{
		{Type: shared.MsgReadyNotice, From: "g", Data: mustMarshal(shared.ReadyNotice{Peer: "g", Round: 1})},
		{Type: shared.MsgChoiceReveal, From: "g", Data: mustMarshal(shared.ChoiceReveal{Peer: "g", Round: 1, Choice: shared.Paper})},
		{Type: shared.MsgReadyNotice, From: "g", Data: mustMarshal(shared.ReadyNotice{Peer: "g", Round: 7})},
	}
	for _, m := range stale {
		require.NoError(t, host.HandleMessage(m))
	}
	assert.Equal(t, before, host.State())
	assert.Zero(t, r.total())
}

func TestMessagesFromStrangersIgnored(t *testing.T) {
	r, host, _ := startedMatch(t)

	before := host.State()
	require.NoError(t, host.HandleMessage(shared.Message{
		Type: shared.MsgReadyNotice, From: "x",
		Data: mustMarshal(shared.ReadyNotice{Peer: "x", Round: 1}),
	}))
	require.NoError(t, host.HandleMessage(shared.Message{
		Type: shared.MsgChoiceReveal, From: "x",
		Data: mustMarshal(shared.ChoiceReveal{Peer: "x", Round: 1, Choice: shared.Stone}),
	}))
	assert.Equal(t, before, host.State())
	assert.Zero(t, r.total())
}

func TestRoundMessagesWhileInactive(t *testing.T) {
	r := newRouter(t)
	host := r.add("h")

	err := host.HandleMessage(shared.Message{
		Type: shared.MsgReadyNotice, From: "g",
		Data: mustMarshal(shared.ReadyNotice{Peer: "g", Round: 1}),
	})
	assert.ErrorIs(t, err, ErrMatchNotFound)

	_, err = host.CreateMatch("Alice")
	require.NoError(t, err)
	err = host.HandleMessage(shared.Message{
		Type: shared.MsgChoiceReveal, From: "g",
		Data: mustMarshal(shared.ChoiceReveal{Peer: "g", Round: 1, Choice: shared.Stone}),
	})
	assert.NoError(t, err, "waiting match just drops it")
	assert.Nil(t, host.State().Round.OpponentChoice)
}

func TestRevealWithInvalidChoice(t *testing.T) {
	r, _, guest := startedMatch(t)

	err := guest.HandleMessage(shared.Message{
		Type: shared.MsgChoiceReveal, From: "h",
		Data: mustMarshal(shared.ChoiceReveal{Peer: "h", Round: 1, Choice: "ROCK"}),
	})
	assert.ErrorIs(t, err, ErrInvalidChoice)
	assert.Nil(t, guest.State().Round.OpponentChoice)
	assert.Zero(t, r.total())
}

func TestGuestNeverResolves(t *testing.T) {
	r, host, guest := startedMatch(t)

	_, err := host.PickAndReady(shared.Paper)
	require.NoError(t, err)
	_, err = guest.PickAndReady(shared.Stone)
	require.NoError(t, err)

	// host recebe o ready do guest e revela
	require.NoError(t, r.deliverNext("g", "h"))
	require.Equal(t, []string{shared.MsgReadyNotice, shared.MsgChoiceReveal}, messageTypes(r.pending("h", "g")))

	// guest recebe ready (e revela) e depois a jogada do host
	require.NoError(t, r.deliverNext("h", "g"))
	require.NoError(t, r.deliverNext("h", "g"))

	st := guest.State()
	require.NotNil(t, st.Round.MyChoice)
	require.NotNil(t, st.Round.OpponentChoice)
	assert.Equal(t, shared.Stone, *st.Round.MyChoice)
	assert.Equal(t, shared.Paper, *st.Round.OpponentChoice)

	g := st.Game
	assert.Equal(t, uint8(1), g.Round)
	assert.Nil(t, g.LastOutcome)
	assert.Zero(t, g.HostScore)
	assert.Zero(t, g.GuestScore)
	assert.Empty(t, g.History)
	assert.Equal(t, []string{shared.MsgChoiceReveal}, messageTypes(r.pending("g", "h")), "guest only reveals, never syncs")

	// a rodada só fecha quando o host recebe a jogada do guest
	r.flush()
	g = guest.State().Game
	assert.Equal(t, uint8(2), g.Round)
	assert.Equal(t, shared.HostWins, *g.LastOutcome)
}

func TestHistoryBoundedOverLongMatch(t *testing.T) {
	r, host, guest := startedMatch(t)

	for i := 0; i < models.HistoryLimit+5; i++ {
		playRound(t, r, host, guest, shared.Stone, shared.Stone)
	}

	g := guest.State().Game
	require.Len(t, g.History, models.HistoryLimit)
	assert.Equal(t, uint8(6), g.History[0].Round)
	assert.Equal(t, uint8(models.HistoryLimit+5), g.History[models.HistoryLimit-1].Round)
	assert.Equal(t, shared.Active, g.Status)
}
