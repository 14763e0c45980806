package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gokudragoo/stonepapersessior/shared"
	"github.com/gokudragoo/stonepapersessior/style"
)

var ErrJogadaInvalida = errors.New("jogada inválida")

func ShowMenuPrincipal(peerID string) (string, error) {
	fmt.Println("\n----------------------------------")
	fmt.Printf("        Menu (peer %s)\n", peerID)
	fmt.Println("----------------------------------")
	fmt.Println("1 - Criar partida")
	fmt.Println("2 - Entrar em partida")
	fmt.Println("3 - Buscar jogador")
	fmt.Println("4 - Jogar rodada")
	fmt.Println("5 - Ver partida")
	fmt.Println("6 - Sair da partida")
	fmt.Println("7 - Visualizar regras")
	fmt.Println("0 - Fechar")
	fmt.Print("Insira a opção desejada: ")
	return ReadLineSafe()
}

// EscolherJogada devolve ErrJogadaInvalida se a opção não existir e io.EOF
// se a entrada acabou
func EscolherJogada() (shared.Choice, error) {
	fmt.Println("\n----------------------------------")
	fmt.Println("          Escolha a jogada        ")
	fmt.Println("----------------------------------")
	fmt.Printf("1 - %s\n", style.Jogada(shared.Stone))
	fmt.Printf("2 - %s\n", style.Jogada(shared.Paper))
	fmt.Printf("3 - %s\n", style.Jogada(shared.Scissors))
	fmt.Print("Insira a jogada: ")
	in, err := ReadLineSafe()
	if err != nil {
		return "", err
	}
	c, ok := ParseJogada(in)
	if !ok {
		return "", ErrJogadaInvalida
	}
	return c, nil
}

// ParseJogada aceita número do menu ou nome da jogada
func ParseJogada(in string) (shared.Choice, bool) {
	switch strings.ToUpper(strings.TrimSpace(in)) {
	case "1", "PEDRA", string(shared.Stone):
		return shared.Stone, true
	case "2", "PAPEL", string(shared.Paper):
		return shared.Paper, true
	case "3", "TESOURA", string(shared.Scissors):
		return shared.Scissors, true
	}
	return "", false
}

func ShowRules() {
	fmt.Println("\n----------------------------------")
	fmt.Println("              Regras              ")
	fmt.Println("----------------------------------")
	fmt.Println("Cada rodada os dois escolhem uma\njogada em segredo e ficam prontos.")
	fmt.Println("\n PEDRA quebra TESOURA")
	fmt.Println(" TESOURA corta PAPEL")
	fmt.Println(" PAPEL embrulha PEDRA")
	fmt.Println("\nJogadas iguais empatam. Quem chegar\na 3 pontos primeiro vence a partida.")
	fmt.Println("----------------------------------")
}

// ShowPartida imprime a visão do peer sobre a partida
func ShowPartida(v shared.MatchView) {
	fmt.Println("\n----------------------------------")
	fmt.Println("             Partida              ")
	fmt.Println("----------------------------------")
	if v.LastNotification != nil && *v.LastNotification != "" {
		style.PrintMag("» " + *v.LastNotification + "\n")
	}
	if v.Game == nil {
		fmt.Println("Nenhuma partida no momento.")
		return
	}

	g := v.Game
	papel := "convidado"
	if v.IsHost {
		papel = "host"
	}
	fmt.Printf("ID: %s (%s)\n", g.MatchID, papel)
	fmt.Printf("Status: %s\n", statusPT(g.Status))
	for _, p := range g.Players {
		fmt.Printf("  - %s [%s]\n", p.Name, p.Peer)
	}
	if v.OpponentPeer != nil {
		fmt.Printf("Oponente: %s\n", *v.OpponentPeer)
	}
	fmt.Printf("Rodada: %d\n", g.Round)
	if v.MyScore != nil && v.OpponentScore != nil {
		style.PrintNegrito(fmt.Sprintf("Placar: você %d x %d oponente\n", *v.MyScore, *v.OpponentScore))
	}

	if g.Status == shared.Active {
		pronto := "não"
		if v.MyReady {
			pronto = "sim"
		}
		oponente := "não"
		if v.OpponentReady {
			oponente = "sim"
		}
		fmt.Printf("Você pronto: %s | Oponente pronto: %s\n", pronto, oponente)
		if v.MyChoice != nil {
			fmt.Printf("Sua jogada: %s\n", style.Jogada(*v.MyChoice))
		}
	}

	if v.LastRoundRecord != nil {
		r := v.LastRoundRecord
		fmt.Printf("Última rodada (%d): host %s x %s convidado -> %s\n",
			r.Round, style.Jogada(r.HostChoice), style.Jogada(r.GuestChoice), style.Resultado(r.Outcome, v.IsHost))
	}
	if g.Status == shared.Ended && g.WinnerPeer != nil {
		if *g.WinnerPeer == v.Peer {
			style.PrintVerd("Você venceu a partida!\n")
		} else {
			style.PrintVerm("Você perdeu a partida.\n")
		}
	}
	if n := len(v.History); n > 1 {
		fmt.Printf("Histórico: %d rodadas\n", n)
	}
}

func statusPT(s shared.MatchStatus) string {
	switch s {
	case shared.WaitingForPlayer:
		return "aguardando jogador"
	case shared.Active:
		return "em andamento"
	case shared.Ended:
		return "encerrada"
	}
	return string(s)
}
