package fee

import "reunion/internal/model"

// Config carries the fee schedule. It is built once from configuration
// and injected, so the calculator never reads process-wide state.
type Config struct {
	AdultFee   int
	ChildFee   int
	Surcharge  int
	StudentFee int
}

// Sessions that registered under the old fee schedule keep the old
// per-head rates and pay no surcharge.
var legacySessions = map[string]struct{}{
	"2019-2020": {},
	"2018-2019": {},
}

const (
	legacyAdultFee = 1000
	legacyChildFee = 500
)

type Calculator struct {
	cfg Config
}

func NewCalculator(cfg Config) *Calculator {
	return &Calculator{cfg: cfg}
}

// Expected returns the authoritative registration fee for a submission.
// The client-submitted amount is never trusted: any mismatch against
// this value is a hard rejection.
func (c *Calculator) Expected(role, session string, adult, child int) int {
	if role == model.RoleStudent {
		return c.cfg.StudentFee
	}
	if _, ok := legacySessions[session]; ok {
		return adult*legacyAdultFee + child*legacyChildFee
	}
	return adult*c.cfg.AdultFee + child*c.cfg.ChildFee + c.cfg.Surcharge
}
