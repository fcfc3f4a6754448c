// Package idgen provides ID generation utilities
package idgen

import (
	"crypto/rand"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

//go:generate mockgen -destination=mock/mock.go -package=idgenmock github.com/KirkDiggler/theme-clash/internal/pkg/idgen Generator

// Generator generates unique identifiers
type Generator interface {
	Generate() string
}

// RoomCodeAlphabet leaves out the characters people confuse when reading a
// code aloud (0/O, 1/I).
const RoomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// RoomCodeLength is the number of characters in a room code
const RoomCodeLength = 4

// RoomCodeGenerator generates short shareable room codes. Uniqueness is
// the caller's concern.
type RoomCodeGenerator struct{}

// NewRoomCode creates a room code generator
func NewRoomCode() *RoomCodeGenerator {
	return &RoomCodeGenerator{}
}

// Generate returns RoomCodeLength characters from RoomCodeAlphabet
func (g *RoomCodeGenerator) Generate() string {
	buf := make([]byte, RoomCodeLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand.Read only fails when the system entropy source is broken
		panic(fmt.Sprintf("crypto/rand.Read failed: %v", err))
	}
	// 256 is a multiple of the alphabet size so the modulo stays uniform
	for i, b := range buf {
		buf[i] = RoomCodeAlphabet[int(b)%len(RoomCodeAlphabet)]
	}
	return string(buf)
}

// SequentialGenerator generates sequential IDs for testing
type SequentialGenerator struct {
	prefix  string
	counter uint64
}

// NewSequential creates a new sequential generator
func NewSequential(prefix string) *SequentialGenerator {
	return &SequentialGenerator{prefix: prefix}
}

// Generate creates a new sequential ID
func (g *SequentialGenerator) Generate() string {
	n := atomic.AddUint64(&g.counter, 1)
	if g.prefix != "" {
		return fmt.Sprintf("%s_%d", g.prefix, n)
	}
	return fmt.Sprintf("%d", n)
}

// UUIDGenerator generates UUIDs with optional prefix. Connection ids and
// backfilled card ids come from here.
type UUIDGenerator struct {
	prefix string
}

// NewUUID creates a new UUID generator with optional prefix
func NewUUID(prefix string) *UUIDGenerator {
	return &UUIDGenerator{prefix: prefix}
}

// Generate creates a new UUID-based ID
func (g *UUIDGenerator) Generate() string {
	id := uuid.New().String()
	if g.prefix != "" {
		return fmt.Sprintf("%s_%s", g.prefix, id)
	}
	return id
}
