package handlers

import (
	"github.com/gokudragoo/stonepapersessior/server/game"
	"github.com/gokudragoo/stonepapersessior/server/models"
	"github.com/gokudragoo/stonepapersessior/shared"
)

// PickAndReady registra a jogada desta rodada e avisa o oponente. Se o
// oponente já está pronto a jogada é revelada na hora.
func (p *Peer) PickAndReady(choice shared.Choice) (string, error) {
	return p.runCommand(shared.ActionPickAndReady, shared.PickAndReadyPayload{Choice: choice}, func() (string, error) {
		g := p.state.Game
		if g == nil {
			return "", ErrMatchNotFound
		}
		if !choice.Valid() {
			return "", ErrInvalidChoice
		}
		if !models.CanPlay(g) {
			return "", ErrMatchNotReady
		}
		if p.state.Round.MyReady {
			return "", ErrAlreadyReady
		}
		if p.state.Round.MyChoice != nil {
			return "", ErrChoiceAlreadySet
		}
		opponent, ok := models.Opponent(g, p.id)
		if !ok {
			return "", ErrOpponentNotFound
		}

		c := choice
		p.state.Round.MyChoice = &c
		p.state.Round.MyReady = true

		p.send(opponent, shared.MsgReadyNotice, shared.ReadyNotice{Peer: p.id, Round: g.Round})
		if p.state.Round.OpponentReady {
			p.send(opponent, shared.MsgChoiceReveal, shared.ChoiceReveal{Peer: p.id, Round: g.Round, Choice: choice})
		}

		p.logger.Debug("ready", "match_id", g.MatchID, "round", g.Round)
		return "Ready sent", nil
	})
}

func (p *Peer) handleReadyNotice(m shared.ReadyNotice) error {
	g := p.state.Game
	if g == nil {
		return ErrMatchNotFound
	}
	if !models.CanPlay(g) {
		return p.ignore("ready notice while match inactive", "from", m.Peer)
	}
	if g.Round != m.Round {
		return p.ignore("stale ready notice", "from", m.Peer, "round", m.Round, "current", g.Round)
	}
	opponent, ok := models.Opponent(g, p.id)
	if !ok || opponent != m.Peer {
		return p.ignore("ready notice from non-opponent", "from", m.Peer)
	}

	p.state.Round.OpponentReady = true

	// o outro gatilho do reveal: eu já estava pronto quando o aviso chegou
	if p.state.Round.MyReady && p.state.Round.MyChoice != nil {
		p.send(opponent, shared.MsgChoiceReveal, shared.ChoiceReveal{Peer: p.id, Round: m.Round, Choice: *p.state.Round.MyChoice})
	}
	return nil
}

func (p *Peer) handleChoiceReveal(m shared.ChoiceReveal) error {
	g := p.state.Game
	if g == nil {
		return ErrMatchNotFound
	}
	if !models.CanPlay(g) {
		return p.ignore("reveal while match inactive", "from", m.Peer)
	}
	if g.Round != m.Round {
		return p.ignore("stale reveal", "from", m.Peer, "round", m.Round, "current", g.Round)
	}
	opponent, ok := models.Opponent(g, p.id)
	if !ok || opponent != m.Peer {
		return p.ignore("reveal from non-opponent", "from", m.Peer)
	}
	if p.state.Round.OpponentChoice != nil {
		return p.ignore("duplicate reveal", "from", m.Peer, "round", m.Round)
	}
	if !m.Choice.Valid() {
		return ErrInvalidChoice
	}

	c := m.Choice
	p.state.Round.OpponentChoice = &c

	// guest nunca calcula resultado
	if !models.IsHost(g, p.id) {
		return nil
	}
	if p.state.Round.MyChoice == nil {
		return nil
	}
	p.resolveRound(g, opponent)
	return nil
}

// hostAndGuestChoices ordena as jogadas locais como (host, guest)
func (p *Peer) hostAndGuestChoices(g *shared.Game, mine, theirs shared.Choice) (shared.Choice, shared.Choice) {
	if models.IsHost(g, p.id) {
		return mine, theirs
	}
	return theirs, mine
}

// resolveRound só roda no host, com as duas jogadas em mãos. O GameSync no
// final é o único jeito da réplica do guest avançar.
func (p *Peer) resolveRound(g *shared.Game, opponent string) {
	hostChoice, guestChoice := p.hostAndGuestChoices(g, *p.state.Round.MyChoice, *p.state.Round.OpponentChoice)
	outcome := game.Resolve(hostChoice, guestChoice)

	round := g.Round
	g.LastRound = &round
	g.LastHostChoice = &hostChoice
	g.LastGuestChoice = &guestChoice
	g.LastOutcome = &outcome

	switch outcome {
	case shared.HostWins:
		g.HostScore = game.SaturatingInc(g.HostScore)
	case shared.GuestWins:
		g.GuestScore = game.SaturatingInc(g.GuestScore)
	}

	g.History = models.AppendHistory(g.History, shared.RoundRecord{
		Round:       round,
		HostChoice:  hostChoice,
		GuestChoice: guestChoice,
		Outcome:     outcome,
		HostScore:   g.HostScore,
		GuestScore:  g.GuestScore,
		Timestamp:   p.clock.Now().UTC(),
	}, models.HistoryLimit)

	if g.HostScore >= models.WinningScore || g.GuestScore >= models.WinningScore {
		g.Status = shared.Ended
		winner := g.HostPeer
		if g.HostScore < models.WinningScore {
			winner, _ = models.GuestPeer(g)
		}
		g.WinnerPeer = &winner
		p.logger.Info("match ended", "match_id", g.MatchID, "winner", winner, "host_score", g.HostScore, "guest_score", g.GuestScore)
	} else {
		g.Round = game.SaturatingInc(g.Round)
	}

	p.logger.Info("round resolved", "match_id", g.MatchID, "round", round, "host", hostChoice, "guest", guestChoice, "outcome", outcome)

	p.state.ResetRound()
	p.send(opponent, shared.MsgGameSync, shared.StateSync{Game: *g.Clone()})
}
