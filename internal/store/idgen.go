package store

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
)

// maxRandomAttempts bounds the collision-retry loop of Random. The key
// space (millisecond timestamp plus four random digits) makes hitting
// it practically impossible.
const maxRandomAttempts = 5000

// ErrGenerationExhausted is returned when Random cannot find a free id
// within maxRandomAttempts.
var ErrGenerationExhausted = fmt.Errorf("id generation exhausted after %d attempts", maxRandomAttempts)

// Generator issues record identifiers for a table by scanning its key
// column. Two policies exist: sequential (max+1 over numeric values)
// and random-unique (prefix + timestamp + random digits, collision
// checked). A table may carry several independent sequential counters
// in different columns; they are never merged.
type Generator struct {
	store TableStore
}

func NewGenerator(store TableStore) *Generator {
	return &Generator{store: store}
}

// Sequential returns max(numeric values in the key column) + 1 as a
// string, "1" for a missing or empty table. Header cells are naturally
// skipped because they are not numeric.
func (g *Generator) Sequential(ctx context.Context, table string) (string, error) {
	rows, err := g.store.ReadAll(ctx, table)
	if err != nil {
		return "", err
	}

	maxID := 0
	for _, row := range rows {
		n, err := strconv.Atoi(NormalizeID(Cell(row, 0)))
		if err != nil {
			continue
		}
		if n > maxID {
			maxID = n
		}
	}

	return strconv.Itoa(maxID + 1), nil
}

// SequentialColumn returns the next value of the counter kept in the
// given column, ignoring the header row and stripping non-digits from
// each cell (display codes carry a "#" prefix and zero padding).
func (g *Generator) SequentialColumn(ctx context.Context, table string, col int) (string, error) {
	rows, err := g.store.ReadAll(ctx, table)
	if err != nil {
		return "", err
	}
	if len(rows) <= 1 {
		return "1", nil
	}

	maxID := 0
	for _, row := range rows[1:] {
		digits := digitsOnly(Cell(row, col))
		if digits == "" {
			continue
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			continue
		}
		if n > maxID {
			maxID = n
		}
	}

	return strconv.Itoa(maxID + 1), nil
}

// Random returns "prefix<millis>_<4 digits>", retried against the full
// key column until unique. Fails with ErrGenerationExhausted beyond
// maxRandomAttempts.
func (g *Generator) Random(ctx context.Context, table, prefix string) (string, error) {
	rows, err := g.store.ReadAll(ctx, table)
	if err != nil {
		return "", err
	}

	existing := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		existing[Cell(row, 0)] = struct{}{}
	}

	for attempt := 0; attempt < maxRandomAttempts; attempt++ {
		id := prefix + strconv.FormatInt(time.Now().UnixMilli(), 10) + "_" + randomDigits()
		if _, taken := existing[id]; !taken {
			return id, nil
		}
	}

	return "", ErrGenerationExhausted
}

// randomDigits draws a uniform number in 1000..9999.
func randomDigits() string {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		// crypto/rand only fails when the platform source is broken
		panic(err)
	}
	return strconv.FormatInt(n.Int64()+1000, 10)
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
