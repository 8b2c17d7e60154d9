package fileledger_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/non-fungible-user/starknet/internal/core/domain"
	fileledger "github.com/non-fungible-user/starknet/internal/infrastructure/storage/file"
	"github.com/non-fungible-user/starknet/pkg/securecipher"
)

func newRepo(t *testing.T, password string) (domain.LedgerRepository, string) {
	t.Helper()
	cipher, err := securecipher.New(password)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "ledger.json")
	return fileledger.NewLedgerRepositoryImpl(path, cipher), path
}

func newLedger() *domain.Ledger {
	account := domain.NewAccount("0xabcdef")
	account.StarknetWalletSalt = "salt"
	account.EvmPrivateKey = "0x123"
	account.Proxy = "user:pass@host:8080"
	account.WithdrawalAddress = "0xdest"
	account.DmailTxCount = 2
	account.AvnuSwapTxCount = 1
	return domain.NewLedger([]domain.Account{*account})
}

func TestGetLedgerNotFound(t *testing.T) {
	repo, _ := newRepo(t, "")
	_, err := repo.GetLedger(context.Background())
	require.ErrorIs(t, err, fileledger.ErrLedgerNotFound)
}

func TestGetLedgerMalformed(t *testing.T) {
	repo, path := newRepo(t, "")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := repo.GetLedger(context.Background())
	require.ErrorIs(t, err, fileledger.ErrLedgerMalformed)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, path := newRepo(t, "")
	ledger := newLedger()

	require.NoError(t, repo.SaveLedger(ctx, ledger))

	loaded, err := repo.GetLedger(ctx)
	require.NoError(t, err)

	// zero-valued decimals change their internal big.Int representation
	// across a JSON round-trip, compare the canonical encoding instead
	want, err := json.Marshal(ledger)
	require.NoError(t, err)
	got, err := json.Marshal(loaded)
	require.NoError(t, err)
	require.JSONEq(t, string(want), string(got))
	require.Equal(t, ledger.AccountsRemaining, loaded.AccountsRemaining)
	require.True(t, ledger.Data[0].VolumeAmount.Equal(loaded.Data[0].VolumeAmount))

	// a second save without intervening mutation yields identical bytes
	first, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, repo.SaveLedger(ctx, loaded))
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestSecretsObscuredOnDiskAndPlainInMemory(t *testing.T) {
	ctx := context.Background()
	repo, path := newRepo(t, "hunter2")
	ledger := newLedger()

	require.NoError(t, repo.SaveLedger(ctx, ledger))

	// the in-memory ledger must be untouched by the save
	require.Equal(t, "0xabcdef", ledger.Data[0].StarknetPrivateKey)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "0xabcdef")
	require.NotContains(t, string(raw), "user:pass@host:8080")
	// non-secret fields stay readable
	require.Contains(t, string(raw), "0xdest")

	loaded, err := repo.GetLedger(ctx)
	require.NoError(t, err)
	require.Equal(t, "0xabcdef", loaded.Data[0].StarknetPrivateKey)
	require.Equal(t, "user:pass@host:8080", loaded.Data[0].Proxy)
}

func TestUpdateLedgerPersistsMutation(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t, "")
	require.NoError(t, repo.SaveLedger(ctx, newLedger()))

	err := repo.UpdateLedger(ctx, func(l *domain.Ledger) (*domain.Ledger, error) {
		account, index, err := l.PickFirst()
		if err != nil {
			return nil, err
		}
		if err := account.DecrementBudget(domain.OpDmailSend); err != nil {
			return nil, err
		}
		if err := l.UpdateAccount(account, index); err != nil {
			return nil, err
		}
		return l, nil
	})
	require.NoError(t, err)

	loaded, err := repo.GetLedger(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, loaded.Data[0].DmailTxCount)
}

func TestReadLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.txt")
	require.NoError(t, os.WriteFile(path, []byte("0x1\n\n  0x2  \n0x3\r\n"), 0644))

	lines, err := fileledger.ReadLines(path)
	require.NoError(t, err)
	require.Equal(t, []string{"0x1", "0x2", "0x3"}, lines)
}

func TestReadLinesMissingFileIsEmpty(t *testing.T) {
	lines, err := fileledger.ReadLines(filepath.Join(t.TempDir(), "absent.txt"))
	require.NoError(t, err)
	require.Empty(t, lines)
}
