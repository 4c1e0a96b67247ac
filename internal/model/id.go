package model

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

// NewID returns a fresh globally unique record id. UUIDv4 normally; if the
// platform's entropy source fails, falls back to timestamp plus random
// suffix, which is unique enough for a single-user local store.
func NewID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		return fmt.Sprintf("%d-%06d", time.Now().UnixNano(), rand.IntN(1000000))
	}
	return id.String()
}
