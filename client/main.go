package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gokudragoo/stonepapersessior/client/game"
	"github.com/gokudragoo/stonepapersessior/client/utils"
	"github.com/gokudragoo/stonepapersessior/server/config"
	serverUtils "github.com/gokudragoo/stonepapersessior/server/utils"
	"github.com/gokudragoo/stonepapersessior/style"

	"github.com/nats-io/nats.go"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("Erro ao carregar .env: %v", err)
	}
	cfg, err := config.LoadClient()
	if err != nil {
		log.Fatalf("Configuração inválida: %v", err)
	}

	peerID := cfg.PeerID
	for serverUtils.ValidatePeerID(peerID) != nil {
		if peerID, err = utils.Pergunta("ID do seu peer: "); err != nil {
			log.Fatal("Entrada encerrada sem ID de peer")
		}
	}

	nc, err := nats.Connect(cfg.NatsURL)
	if err != nil {
		log.Fatalf("Erro ao conectar no NATS (%s): %v", cfg.NatsURL, err)
	}
	defer nc.Close()

	style.Clear()
	fmt.Println("Conectado ao NATS:", cfg.NatsURL)

	clientID := utils.NovoClientID()
	fmt.Printf("Seu ID desta sessão é: %s\n", clientID)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		fmt.Println("\nAté mais!")
		nc.Close()
		os.Exit(0)
	}()

	session := game.NewSession(nc, peerID, clientID, cfg.RequestTimeout)
	handleMainMenu(session)
}

func handleMainMenu(s *game.Session) {
	for {
		opcao, err := utils.ShowMenuPrincipal(s.PeerID())
		if err != nil {
			fmt.Println("\nEntrada encerrada. Até mais!")
			return
		}
		if !handleOpcao(s, opcao) {
			return
		}
	}
}

// handleOpcao executa uma opção do menu; false encerra o cliente
func handleOpcao(s *game.Session, opcao string) bool {
	switch opcao {
	case "1":
		nome, err := utils.Pergunta("Seu nome: ")
		if err != nil {
			return false
		}
		report(s.CreateMatch(nome))
	case "2":
		host, err := utils.Pergunta("Peer do host: ")
		if err != nil {
			return false
		}
		nome, err := utils.Pergunta("Seu nome: ")
		if err != nil {
			return false
		}
		report(s.JoinMatch(host, nome))
	case "3":
		orq, err := utils.Pergunta("Peer orquestrador: ")
		if err != nil {
			return false
		}
		nome, err := utils.Pergunta("Seu nome: ")
		if err != nil {
			return false
		}
		report(s.SearchPlayer(orq, nome))
	case "4":
		jogada, err := utils.EscolherJogada()
		if errors.Is(err, utils.ErrJogadaInvalida) {
			fmt.Println("Jogada inválida.")
			return true
		}
		if err != nil {
			return false
		}
		report(s.PickAndReady(jogada))
	case "5":
		v, err := s.View()
		if err != nil {
			style.PrintVerm(fmt.Sprintf("Erro: %v\n", err))
			return true
		}
		utils.ShowPartida(v)
	case "6":
		report(s.LeaveMatch())
	case "7":
		utils.ShowRules()
	case "0":
		fmt.Println("Até mais!")
		return false
	default:
		fmt.Println("Opção inválida, tente novamente.")
	}
	return true
}

// report mostra o ack do peer em verde ou o erro em vermelho
func report(ack string, err error) {
	if err != nil {
		style.PrintVerm(fmt.Sprintf("Erro: %v\n", err))
		return
	}
	style.PrintVerd(ack + "\n")
}
