package domain

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

// CodeGenerator derives order numbers and tracking codes from a random
// source. The source is injectable so tests can make the codes deterministic.
type CodeGenerator struct {
	rand io.Reader
}

func NewCodeGenerator(r io.Reader) *CodeGenerator {
	if r == nil {
		r = rand.Reader
	}
	return &CodeGenerator{rand: r}
}

// OrderNumber returns a human-readable order identifier, e.g. ORD-5F3A9C01.
func (g *CodeGenerator) OrderNumber() (string, error) {
	suffix, err := g.hexSuffix(4)
	if err != nil {
		return "", fmt.Errorf("hexSuffix: %w", err)
	}

	return "ORD-" + suffix, nil
}

// TrackingCode returns a shipment tracking identifier, e.g. TRK-5F3A9C01D2.
func (g *CodeGenerator) TrackingCode() (string, error) {
	suffix, err := g.hexSuffix(5)
	if err != nil {
		return "", fmt.Errorf("hexSuffix: %w", err)
	}

	return "TRK-" + suffix, nil
}

func (g *CodeGenerator) hexSuffix(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(g.rand, buf); err != nil {
		return "", fmt.Errorf("io.ReadFull: %w", err)
	}

	return strings.ToUpper(hex.EncodeToString(buf)), nil
}
