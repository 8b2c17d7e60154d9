package application

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/non-fungible-user/starknet/internal/config"
	"github.com/non-fungible-user/starknet/internal/core/domain"
)

// redraws before giving up on budget ranges that keep producing zero totals
const maxBudgetRedraws = 100

// InitService generates a fresh ledger from the raw input lists and persists
// it, replacing whatever ledger existed before.
type InitService interface {
	Run(ctx context.Context) error
}

// InitParams carries the input lists. StarknetKeys is mandatory, every other
// list is optional but must match its length when present.
type InitParams struct {
	StarknetKeys        []string
	StarknetSalts       []string
	EvmKeys             []string
	Proxies             []string
	WithdrawalAddresses []string
}

// BudgetRanges are the per-operation generation ranges.
type BudgetRanges struct {
	Dmail        config.IntRange
	NftAllowance config.IntRange
	Myswap       config.IntRange
	Jediswap     config.IntRange
	Tenkswap     config.IntRange
	Sithswap     config.IntRange
	Avnu         config.IntRange
	MyIdentity   config.IntRange
	Starkverse   config.IntRange
	Zklend       config.IntRange
	// WithdrawFromZklend mirrors every deposit with a withdrawal.
	WithdrawFromZklend bool
}

type initService struct {
	repo    domain.LedgerRepository
	params  InitParams
	budgets BudgetRanges
}

func NewInitService(
	repo domain.LedgerRepository, params InitParams, budgets BudgetRanges,
) InitService {
	return &initService{repo: repo, params: params, budgets: budgets}
}

func (s *initService) Run(ctx context.Context) error {
	ledger, err := s.generate()
	if err != nil {
		return err
	}
	if err := s.repo.SaveLedger(ctx, ledger); err != nil {
		return err
	}
	log.Infof(
		"ledger generated with %d accounts and %d actions",
		ledger.AccountsRemaining, ledger.TotalTxCount(),
	)
	return nil
}

func (s *initService) generate() (*domain.Ledger, error) {
	keys := s.params.StarknetKeys
	if len(keys) == 0 {
		return nil, ErrEmptyKeyList
	}
	for name, list := range map[string][]string{
		"salts":                s.params.StarknetSalts,
		"evm keys":             s.params.EvmKeys,
		"proxies":              s.params.Proxies,
		"withdrawal addresses": s.params.WithdrawalAddresses,
	} {
		if len(list) > 0 && len(list) != len(keys) {
			return nil, fmt.Errorf(
				"%w: %d %s against %d keys",
				ErrInputListMismatch, len(list), name, len(keys),
			)
		}
	}

	accounts := make([]domain.Account, 0, len(keys))
	for i, key := range keys {
		account := domain.NewAccount(key)
		if len(s.params.StarknetSalts) > 0 {
			account.StarknetWalletSalt = s.params.StarknetSalts[i]
		}
		if len(s.params.EvmKeys) > 0 {
			account.EvmPrivateKey = s.params.EvmKeys[i]
		}
		if len(s.params.Proxies) > 0 {
			account.Proxy = s.params.Proxies[i]
		}
		if len(s.params.WithdrawalAddresses) > 0 {
			account.WithdrawalAddress = s.params.WithdrawalAddresses[i]
		}
		if err := s.drawBudgets(account); err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
	}
	return domain.NewLedger(accounts), nil
}

// drawBudgets rolls every budget range, redrawing accounts that came out with
// nothing to do.
func (s *initService) drawBudgets(account *domain.Account) error {
	for i := 0; i < maxBudgetRedraws; i++ {
		account.DmailTxCount = s.budgets.Dmail.Draw()
		account.NftMarketplaceAllowanceTxCount = s.budgets.NftAllowance.Draw()
		account.MyswapSwapTxCount = s.budgets.Myswap.Draw()
		account.JediswapSwapTxCount = s.budgets.Jediswap.Draw()
		account.TenkswapSwapTxCount = s.budgets.Tenkswap.Draw()
		account.SithswapSwapTxCount = s.budgets.Sithswap.Draw()
		account.AvnuSwapTxCount = s.budgets.Avnu.Draw()
		account.MyIdentityMintTxCount = s.budgets.MyIdentity.Draw()
		account.StarkverseMintTxCount = s.budgets.Starkverse.Draw()
		account.ZklendDepositTxCount = s.budgets.Zklend.Draw()
		if s.budgets.WithdrawFromZklend {
			account.ZklendWithdrawTxCount = account.ZklendDepositTxCount
		} else {
			account.ZklendWithdrawTxCount = 0
		}

		if account.TotalTxCount() > 0 {
			return nil
		}
	}
	return ErrZeroBudgetRanges
}
