package style

import (
	"os"
	"os/exec"
	"runtime"

	"github.com/fatih/color"

	"github.com/gokudragoo/stonepapersessior/shared"
)

// limpa o prompt de comando
func Clear() {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.Command("cmd", "/c", "cls")
	} else {
		cmd = exec.Command("clear")
	}
	cmd.Stdout = os.Stdout
	_ = cmd.Run()
}

var (
	red     = color.New(color.FgRed)
	green   = color.New(color.FgGreen)
	magenta = color.New(color.FgMagenta)
	cyan    = color.New(color.FgCyan)
	yellow  = color.New(color.FgYellow)
	blue    = color.New(color.FgBlue)
	bold    = color.New(color.Bold)
)

func PrintVerm(texto string) { red.Print(texto) }

func PrintVerd(texto string) { green.Print(texto) }

func PrintMag(texto string) { magenta.Print(texto) }

func PrintCian(texto string) { cyan.Print(texto) }

func PrintAma(texto string) { yellow.Print(texto) }

func PrintAz(texto string) { blue.Print(texto) }

func PrintNegrito(texto string) { bold.Print(texto) }

// Jogada colorida: pedra azul, papel amarelo, tesoura vermelha
func Jogada(c shared.Choice) string {
	switch c {
	case shared.Stone:
		return blue.Sprint("PEDRA")
	case shared.Paper:
		return yellow.Sprint("PAPEL")
	case shared.Scissors:
		return red.Sprint("TESOURA")
	}
	return string(c)
}

// Resultado do ponto de vista de quem está olhando
func Resultado(o shared.RoundOutcome, isHost bool) string {
	switch {
	case o == shared.Draw:
		return yellow.Sprint("EMPATE")
	case (o == shared.HostWins) == isHost:
		return green.Sprint("VITÓRIA")
	default:
		return red.Sprint("DERROTA")
	}
}
