package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

// GenerateItemCode returns a short human-readable listing code such as
// PRD-261019-4821. The prefix is upper-cased and truncated to three letters.
func GenerateItemCode(prefix string) string {
	now := time.Now().UTC()

	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	if prefix == "" {
		prefix = "ITM"
	}

	// 4-digit cryptographic random
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		// fallback: time-based entropy
		n = big.NewInt(now.UnixNano() % 10000)
	}

	return fmt.Sprintf("%s-%s-%04d", prefix, now.Format("060102"), n.Int64())
}
