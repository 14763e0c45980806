package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrMalformedPeer: o endereço não serve como token de tópico NATS
var ErrMalformedPeer = errors.New("malformed peer address")

const maxPeerLen = 128

// ValidatePeerID checa se id pode ser usado em peer.<id>.inbox
func ValidatePeerID(id string) error {
	if id == "" || len(id) > maxPeerLen {
		return fmt.Errorf("%w: %q", ErrMalformedPeer, id)
	}
	if strings.ContainsAny(id, ".*> \t\r\n") {
		return fmt.Errorf("%w: %q", ErrMalformedPeer, id)
	}
	return nil
}

// NewPeerID gera um ID aleatório pro peer quando nenhum foi configurado
func NewPeerID() string {
	return "peer-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

func NewMatchID() string {
	return uuid.NewString()
}

// Tópicos
func InboxSubject(peer string) string {
	return fmt.Sprintf("peer.%s.inbox", peer)
}

func CommandSubject(peer string) string {
	return fmt.Sprintf("peer.%s.commands", peer)
}
