package application

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
	"github.com/thanhpk/randstr"

	"github.com/non-fungible-user/starknet/internal/config"
	"github.com/non-fungible-user/starknet/internal/core/domain"
)

// AggregatorConfig carries the randomization knobs of action selection.
type AggregatorConfig struct {
	// SwapDeviation scales ETH input amounts so consecutive swaps never move
	// identical sizes.
	SwapDeviation config.FloatRange
	// RoundTo is the decimal precision amounts are rounded or truncated to.
	RoundTo int32
	// NftAllowanceAmount is the range allowance approvals are drawn from.
	NftAllowanceAmount config.FloatRange
	// ZklendDepositPercent is the fraction of the balance a deposit locks.
	ZklendDepositPercent config.FloatRange
}

// Aggregator picks the next action for an account given its max-balance token.
// Selection is uniform over the categories the account still has budget for,
// so a single eligible category makes the pick deterministic.
type Aggregator struct {
	cfg AggregatorConfig
	rng *rand.Rand
}

func NewAggregator(cfg AggregatorConfig) *Aggregator {
	return &Aggregator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// newAggregatorWithSource is used by tests to pin the randomness.
func newAggregatorWithSource(cfg AggregatorConfig, src rand.Source) *Aggregator {
	return &Aggregator{cfg: cfg, rng: rand.New(src)}
}

// NextAction aggregates one action out of the account's remaining budgets.
// tokenIn is the account's max-balance token and amountIn its balance, both
// only meaningful for the swap and lending categories.
func (a *Aggregator) NextAction(
	account domain.Account, tokenIn domain.Token, amountIn decimal.Decimal,
) (domain.Action, error) {
	categories := a.eligibleCategories(account)
	if len(categories) == 0 {
		return domain.Action{}, fmt.Errorf(
			"account %s has no eligible action category", account.ID,
		)
	}
	category := categories[a.rng.Intn(len(categories))]

	switch category {
	case domain.CategorySwap:
		return a.swapAction(account, tokenIn, amountIn)
	case domain.CategoryNFT:
		return a.nftAction(account), nil
	case domain.CategoryMail:
		return a.mailAction(), nil
	default:
		return a.lendingAction(account, amountIn), nil
	}
}

func (a *Aggregator) eligibleCategories(
	account domain.Account,
) []domain.ActionCategory {
	categories := make([]domain.ActionCategory, 0, 4)
	if len(a.eligibleVenues(account)) > 0 {
		categories = append(categories, domain.CategorySwap)
	}
	if len(a.eligibleNftOps(account)) > 0 {
		categories = append(categories, domain.CategoryNFT)
	}
	if account.DmailTxCount > 0 {
		categories = append(categories, domain.CategoryMail)
	}
	if account.ZklendDepositTxCount > 0 || account.ZklendWithdrawTxCount > 0 {
		categories = append(categories, domain.CategoryLending)
	}
	return categories
}

func (a *Aggregator) eligibleVenues(account domain.Account) []domain.Venue {
	venues := make([]domain.Venue, 0, 5)
	for _, v := range []domain.Venue{
		domain.VenueMyswap, domain.VenueJediswap, domain.VenueTenkswap,
		domain.VenueSithswap, domain.VenueAvnu,
	} {
		if account.Budget(v.Op()) > 0 {
			venues = append(venues, v)
		}
	}
	return venues
}

func (a *Aggregator) eligibleNftOps(account domain.Account) []domain.OpKind {
	ops := make([]domain.OpKind, 0, 3)
	for _, op := range []domain.OpKind{
		domain.OpNftMarketplaceAllowance,
		domain.OpMyIdentityMint,
		domain.OpStarkverseMint,
	} {
		if account.Budget(op) > 0 {
			ops = append(ops, op)
		}
	}
	return ops
}

func (a *Aggregator) swapAction(
	account domain.Account, tokenIn domain.Token, amountIn decimal.Decimal,
) (domain.Action, error) {
	venues := a.eligibleVenues(account)

	// SithSwap has no DAI pools on mainnet
	if tokenIn.Address == domain.TokenDAI.Address {
		venues = withoutVenue(venues, domain.VenueSithswap)
	}
	if len(venues) == 0 {
		venues = []domain.Venue{domain.VenueAvnu}
	}
	venue := venues[a.rng.Intn(len(venues))]

	pairs := make([]domain.TokenPair, 0, len(domain.SwapPairs))
	for _, pair := range domain.SwapPairs {
		if !pair.Contains(tokenIn) {
			continue
		}
		if venue == domain.VenueSithswap && pair.Contains(domain.TokenDAI) {
			continue
		}
		pairs = append(pairs, pair)
	}
	if len(pairs) == 0 {
		return domain.Action{}, fmt.Errorf(
			"%w: %s on %s", domain.ErrNoEligiblePair, tokenIn.Symbol, venue,
		)
	}
	pair := pairs[a.rng.Intn(len(pairs))]

	amount, err := a.shapeAmount(tokenIn, amountIn)
	if err != nil {
		return domain.Action{}, err
	}
	return domain.NewSwapAction(domain.SwapParams{
		Venue:    venue,
		TokenIn:  tokenIn,
		TokenOut: pair.Other(tokenIn),
		AmountIn: amount,
	}), nil
}

// shapeAmount scales ETH amounts by a random deviation so swap sizes never
// repeat, other assets are swapped whole and only truncated to precision.
func (a *Aggregator) shapeAmount(
	tokenIn domain.Token, amountIn decimal.Decimal,
) (decimal.Decimal, error) {
	var amount decimal.Decimal
	if tokenIn.IsNative() {
		deviation := decimal.NewFromFloat(a.drawFloat(a.cfg.SwapDeviation))
		amount = amountIn.Mul(deviation).Round(a.cfg.RoundTo)
	} else {
		amount = amountIn.Truncate(a.cfg.RoundTo)
	}
	if amount.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf(
			"%w: %s %s", domain.ErrNonPositiveAmount, amount, tokenIn.Symbol,
		)
	}
	return amount, nil
}

func (a *Aggregator) nftAction(account domain.Account) domain.Action {
	ops := a.eligibleNftOps(account)
	op := ops[a.rng.Intn(len(ops))]

	params := domain.NFTParams{Op: op}
	if op == domain.OpNftMarketplaceAllowance {
		params.AllowanceAmount = decimal.NewFromFloat(
			a.drawFloat(a.cfg.NftAllowanceAmount),
		).Round(a.cfg.RoundTo + 4)
	}
	return domain.NewNFTAction(params)
}

func (a *Aggregator) mailAction() domain.Action {
	return domain.NewMailAction(domain.MailParams{
		Recipient: randstr.String(12) + "@dmail.ai",
		Theme:     randstr.String(16),
	})
}

func (a *Aggregator) lendingAction(
	account domain.Account, amountIn decimal.Decimal,
) domain.Action {
	if account.ZklendDepositTxCount < account.ZklendWithdrawTxCount {
		return domain.NewLendingAction(domain.LendingParams{
			Op: domain.OpZklendWithdraw,
		})
	}

	percent := decimal.NewFromFloat(a.drawFloat(a.cfg.ZklendDepositPercent))
	return domain.NewLendingAction(domain.LendingParams{
		Op:            domain.OpZklendDeposit,
		DepositAmount: amountIn.Mul(percent).Truncate(a.cfg.RoundTo),
	})
}

func (a *Aggregator) drawFloat(r config.FloatRange) float64 {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + a.rng.Float64()*(r.Max-r.Min)
}

func withoutVenue(venues []domain.Venue, drop domain.Venue) []domain.Venue {
	kept := make([]domain.Venue, 0, len(venues))
	for _, v := range venues {
		if v != drop {
			kept = append(kept, v)
		}
	}
	return kept
}
