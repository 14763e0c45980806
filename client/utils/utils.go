package utils

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
)

var stdin = bufio.NewReader(os.Stdin)

// ReadLineSafe devolve io.EOF quando a entrada acabou; a última linha sem
// quebra ainda é entregue antes disso.
func ReadLineSafe() (string, error) {
	input, err := stdin.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && input != "" {
			return strings.TrimSpace(input), nil
		}
		if !errors.Is(err, io.EOF) {
			fmt.Println("Erro ao ler input:", err)
		}
		return "", io.EOF
	}
	return strings.TrimSpace(input), nil
}

// Pergunta imprime o rótulo e lê uma linha
func Pergunta(rotulo string) (string, error) {
	fmt.Print(rotulo)
	return ReadLineSafe()
}

// NovoClientID identifica esta sessão do terminal nos requests
func NovoClientID() string {
	return "cli-" + uuid.NewString()[:8]
}
