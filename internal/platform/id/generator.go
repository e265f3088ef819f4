package id

import (
	"fmt"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Generator creates opaque IDs suitable for external references.
type Generator interface {
	NewID() (string, error)
}

const (
	playerAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	playerIDLength = 12
)

// NanoGenerator issues short URL-safe ids for player-facing records.
type NanoGenerator struct {
	prefix string
}

func NewNanoGenerator(prefix string) *NanoGenerator {
	return &NanoGenerator{prefix: prefix}
}

func (g *NanoGenerator) NewID() (string, error) {
	value, err := gonanoid.Generate(playerAlphabet, playerIDLength)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return g.prefix + value, nil
}

// UUIDGenerator issues random UUIDs for internal log records.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() (string, error) {
	value, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return value.String(), nil
}
