package game

import (
	"github.com/gokudragoo/stonepapersessior/shared"
)

// Resolve devolve o resultado da rodada do ponto de vista do host.
// Pedra ganha de tesoura, tesoura de papel e papel de pedra.
func Resolve(hostChoice, guestChoice shared.Choice) shared.RoundOutcome {
	if hostChoice == guestChoice {
		return shared.Draw
	}
	switch {
	case hostChoice == shared.Stone && guestChoice == shared.Scissors,
		hostChoice == shared.Paper && guestChoice == shared.Stone,
		hostChoice == shared.Scissors && guestChoice == shared.Paper:
		return shared.HostWins
	}
	return shared.GuestWins
}

// SaturatingInc soma 1 sem estourar o uint8
func SaturatingInc(v uint8) uint8 {
	if v == ^uint8(0) {
		return v
	}
	return v + 1
}
