package sync

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/DecentralDever/unityledger-sync/internal/model"
)

// Resolver determines membership and eligibility per (pool, account) pair.
// Eligibility is never recomputed locally; the ledger encodes cycle state
// and capacity rules and stays authoritative.
type Resolver struct {
	reader LedgerReader
	logger *zap.Logger
}

func NewResolver(reader LedgerReader, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{reader: reader, logger: logger}
}

// Resolve fetches the roster and the two eligibility booleans concurrently.
// Any failure degrades this pool's view to all-false rather than failing the
// overall resolution.
func (r *Resolver) Resolve(ctx context.Context, poolID uint64, account string) model.EligibilityView {
	if account == "" {
		return model.EligibilityView{}
	}

	var (
		roster        []model.Member
		canJoin       bool
		canContribute bool
	)
	_, errs := Gather(ctx, 3, func(ctx context.Context, i int) (struct{}, error) {
		var err error
		switch i {
		case 0:
			roster, err = r.reader.GetPoolMembers(ctx, poolID)
		case 1:
			canJoin, err = r.reader.CanJoin(ctx, poolID, account)
		case 2:
			canContribute, err = r.reader.CanContribute(ctx, poolID, account)
		}
		return struct{}{}, err
	})
	for _, err := range errs {
		if err != nil {
			r.logger.Warn("eligibility lookup degraded",
				zap.Uint64("pool_id", poolID),
				zap.String("account", account),
				zap.Error(err),
			)
			return model.EligibilityView{}
		}
	}

	joined := false
	for _, member := range roster {
		if strings.EqualFold(member.Wallet, account) {
			joined = true
			break
		}
	}
	if joined {
		// A member can never re-join.
		canJoin = false
	}

	return model.EligibilityView{
		Joined:        joined,
		CanJoin:       canJoin,
		CanContribute: canContribute,
	}
}

// Action is what the UI would offer for one (pool, account) pair.
type Action struct {
	Label   string
	Enabled bool
}

// ActionFor derives the offered action from eligibility plus pool state.
// The precedence order is strict so the same ledger state always produces
// the same UI.
func ActionFor(account string, pool model.Pool, view model.EligibilityView) Action {
	creator := pool.IsCreator(account)

	switch {
	case account == "":
		return Action{Label: "Connect Wallet"}
	case creator && !view.Joined && pool.CurrentCycle == 0 && !pool.IsFull():
		return Action{Label: "Join Your Pool", Enabled: true}
	case creator && view.Joined && view.CanContribute:
		return Action{Label: "Contribute", Enabled: true}
	case !creator && view.CanJoin:
		return Action{Label: "Join Pool", Enabled: true}
	case view.CanContribute:
		return Action{Label: "Contribute", Enabled: true}
	case view.Joined:
		return Action{Label: "View Details", Enabled: true}
	case creator:
		return Action{Label: "Manage Pool", Enabled: true}
	case !pool.Active:
		return Action{Label: "Inactive"}
	case pool.IsFull():
		return Action{Label: "Pool Full"}
	default:
		return Action{Label: "Started"}
	}
}
