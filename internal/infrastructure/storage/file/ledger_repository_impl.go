// Package fileledger persists the whole ledger as a single JSON file with
// overwrite semantics. Secret fields are reversibly obscured at persist time
// and revealed at load time, the engine core only ever sees plaintext.
package fileledger

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/non-fungible-user/starknet/internal/core/domain"
	"github.com/non-fungible-user/starknet/pkg/securecipher"
)

type ledgerRepositoryImpl struct {
	path   string
	cipher *securecipher.Cipher
}

// NewLedgerRepositoryImpl returns a file-backed domain.LedgerRepository.
func NewLedgerRepositoryImpl(
	path string, cipher *securecipher.Cipher,
) domain.LedgerRepository {
	return &ledgerRepositoryImpl{path: path, cipher: cipher}
}

func (r *ledgerRepositoryImpl) GetLedger(
	_ context.Context,
) (*domain.Ledger, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrLedgerNotFound
		}
		return nil, fmt.Errorf("reading ledger file: %w", err)
	}

	ledger := &domain.Ledger{}
	if err := json.Unmarshal(raw, ledger); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrLedgerMalformed, err)
	}

	if err := r.applyToSecrets(ledger, r.cipher.Decrypt); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrLedgerMalformed, err)
	}
	return ledger, nil
}

func (r *ledgerRepositoryImpl) SaveLedger(
	_ context.Context, ledger *domain.Ledger,
) error {
	// work on a copy so in-memory secrets stay plaintext
	obscured := cloneLedger(ledger)
	if err := r.applyToSecrets(obscured, r.cipher.Encrypt); err != nil {
		return fmt.Errorf("obscuring ledger secrets: %w", err)
	}

	raw, err := json.MarshalIndent(obscured, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding ledger: %w", err)
	}
	return atomicWrite(r.path, raw)
}

func (r *ledgerRepositoryImpl) UpdateLedger(
	ctx context.Context, updateFn func(l *domain.Ledger) (*domain.Ledger, error),
) error {
	ledger, err := r.GetLedger(ctx)
	if err != nil {
		return err
	}
	updated, err := updateFn(ledger)
	if err != nil {
		return err
	}
	return r.SaveLedger(ctx, updated)
}

func (r *ledgerRepositoryImpl) applyToSecrets(
	ledger *domain.Ledger, fn func(string) (string, error),
) error {
	buckets := [][]domain.Account{ledger.Data, ledger.Errors}
	for _, accounts := range buckets {
		for i := range accounts {
			account := &accounts[i]
			fields := []*string{
				&account.StarknetPrivateKey,
				&account.StarknetWalletSalt,
				&account.EvmPrivateKey,
				&account.Proxy,
			}
			for _, field := range fields {
				value, err := fn(*field)
				if err != nil {
					return err
				}
				*field = value
			}
		}
	}
	return nil
}

func cloneLedger(ledger *domain.Ledger) *domain.Ledger {
	clone := &domain.Ledger{
		Data:              make([]domain.Account, len(ledger.Data)),
		Errors:            make([]domain.Account, len(ledger.Errors)),
		AccountsRemaining: ledger.AccountsRemaining,
	}
	copy(clone.Data, ledger.Data)
	copy(clone.Errors, ledger.Errors)
	return clone
}

// atomicWrite persists through a temp file plus rename so a crash mid-write
// can never truncate the previous ledger state.
func atomicWrite(path string, raw []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".ledger-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp ledger file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	if _, err := w.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("writing ledger: %w", err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("flushing ledger: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp ledger file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing ledger file: %w", err)
	}
	return nil
}

// ReadLines loads a one-entry-per-line input list, trimming whitespace and
// skipping blank lines.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("reading input file %s: %w", path, err)
	}
	defer f.Close()

	lines := make([]string, 0)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input file %s: %w", path, err)
	}
	return lines, nil
}
