package leads

import (
	"fmt"
	"math/rand"
	"time"
)

// IDPrefix namespaces every generated lead identifier.
const IDPrefix = "lead_"

const (
	suffixLen      = 9
	suffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// Factory builds Lead records from validated fields. Clock and suffix
// generation are injectable so tests can pin both.
type Factory struct {
	Now       func() time.Time
	NewSuffix func() string
}

// NewFactory returns a factory wired to the system clock and a random
// base-36 suffix generator.
func NewFactory() *Factory {
	return &Factory{
		Now:       time.Now,
		NewSuffix: randomSuffix,
	}
}

// NewLead assembles the persisted record: generated id, creation timestamps
// (one instant, stored twice), and the fixed status/source literals.
func (f *Factory) NewLead(fields Fields) *Lead {
	now := f.Now().UTC()
	millis := now.UnixMilli()
	return &Lead{
		ID:                   fmt.Sprintf("%s%d_%s", IDPrefix, millis, f.NewSuffix()),
		Name:                 fields.Name,
		Email:                fields.Email,
		Phone:                fields.Phone,
		ServiceType:          fields.ServiceType,
		Description:          fields.Description,
		Date:                 now.Format("2006-01-02"),
		CreatedAt:            now.Format(time.RFC3339),
		CreatedAtEpochMillis: millis,
		Status:               StatusNew,
		Source:               SourceWebForm,
	}
}

// randomSuffix yields 9 base-36 characters. Collision resistance is a
// convenience here, not a security property; the timestamp component carries
// most of the uniqueness.
func randomSuffix() string {
	b := make([]byte, suffixLen)
	for i := range b {
		b[i] = suffixAlphabet[rand.Intn(len(suffixAlphabet))]
	}
	return string(b)
}
