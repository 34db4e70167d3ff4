package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gigfolio/backend/internal/models"
)

// ---------------------------------------------------------------------------
// Mocks shared by the service tests
// ---------------------------------------------------------------------------

// --- noopTx satisfies pgx.Tx for test use; only Commit/Rollback are called. ---

type noopTx struct{}

func (noopTx) Begin(context.Context) (pgx.Tx, error) { return noopTx{}, nil }
func (noopTx) Commit(context.Context) error          { return nil }
func (noopTx) Rollback(context.Context) error        { return nil }
func (noopTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (noopTx) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, nil }
func (noopTx) QueryRow(context.Context, string, ...any) pgx.Row        { return nil }
func (noopTx) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (noopTx) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults { return nil }
func (noopTx) LargeObjects() pgx.LargeObjects                         { return pgx.LargeObjects{} }
func (noopTx) Prepare(context.Context, string, string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (noopTx) Conn() *pgx.Conn { return nil }

// --- TxBeginner mock ---

type mockPool struct{}

func (mockPool) Begin(context.Context) (pgx.Tx, error) { return noopTx{}, nil }

// --- Wallet repo mock: in-memory balances mirroring the SQL semantics ---

type mockWalletRepo struct {
	wallets map[uuid.UUID]*models.Wallet // by wallet ID
	byUser  map[uuid.UUID]uuid.UUID      // user ID -> wallet ID
	entries []*models.WalletEntry
}

func newMockWalletRepo() *mockWalletRepo {
	m := &mockWalletRepo{
		wallets: make(map[uuid.UUID]*models.Wallet),
		byUser:  make(map[uuid.UUID]uuid.UUID),
	}
	m.wallets[models.SystemWalletID] = &models.Wallet{ID: models.SystemWalletID}
	return m
}

func (m *mockWalletRepo) add(userID uuid.UUID, pending, available int64) *models.Wallet {
	w := &models.Wallet{
		ID: uuid.New(), UserID: &userID,
		PendingCents: pending, AvailableCents: available,
		TotalCents: pending + available,
	}
	m.wallets[w.ID] = w
	m.byUser[userID] = w.ID
	return w
}

func (m *mockWalletRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*models.Wallet, error) {
	id, ok := m.byUser[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return m.wallets[id], nil
}

func (m *mockWalletRepo) GetByUserIDTx(ctx context.Context, _ pgx.Tx, userID uuid.UUID) (*models.Wallet, error) {
	return m.GetByUserID(ctx, userID)
}

func (m *mockWalletRepo) GetByIDForUpdate(_ context.Context, _ pgx.Tx, id uuid.UUID) (*models.Wallet, error) {
	w, ok := m.wallets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return w, nil
}

// ApplyDeltas mirrors the conditional UPDATE: a delta that would push either
// balance negative matches no row.
func (m *mockWalletRepo) ApplyDeltas(_ context.Context, _ pgx.Tx, id uuid.UUID, pendingDelta, availableDelta int64) (*models.Wallet, error) {
	w, ok := m.wallets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if w.PendingCents+pendingDelta < 0 || w.AvailableCents+availableDelta < 0 {
		return nil, pgx.ErrNoRows
	}
	w.PendingCents += pendingDelta
	w.AvailableCents += availableDelta
	w.TotalCents = w.PendingCents + w.AvailableCents
	return w, nil
}

func (m *mockWalletRepo) CreateEntryTx(_ context.Context, _ pgx.Tx, e *models.WalletEntry) error {
	m.entries = append(m.entries, e)
	return nil
}

func (m *mockWalletRepo) ListEntriesByWalletID(_ context.Context, walletID uuid.UUID) ([]*models.WalletEntry, error) {
	var out []*models.WalletEntry
	for _, e := range m.entries {
		if e.WalletID == walletID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockWalletRepo) totalAcrossWallets() int64 {
	var sum int64
	for _, w := range m.wallets {
		sum += w.TotalCents
	}
	return sum
}

// --- Contract store mock ---

type mockContractStore struct {
	contracts map[uuid.UUID]*models.Contract
}

func newMockContractStore() *mockContractStore {
	return &mockContractStore{contracts: make(map[uuid.UUID]*models.Contract)}
}

func (m *mockContractStore) CreateTx(_ context.Context, _ pgx.Tx, c *models.Contract) error {
	m.contracts[c.ID] = c
	return nil
}

func (m *mockContractStore) GetByIDForUpdate(_ context.Context, _ pgx.Tx, id uuid.UUID) (*models.Contract, error) {
	c, ok := m.contracts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *c
	return &cp, nil
}

func (m *mockContractStore) ActiveExistsForJobTx(_ context.Context, _ pgx.Tx, jobID uuid.UUID) (bool, error) {
	for _, c := range m.contracts {
		if c.JobID == jobID && (c.Status == models.ContractStatusPending || c.Status == models.ContractStatusCompleted) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockContractStore) TransitionTx(_ context.Context, _ pgx.Tx, id uuid.UUID, from, to models.ContractStatus) (bool, error) {
	c, ok := m.contracts[id]
	if !ok || c.Status != from {
		return false, nil
	}
	c.Status = to
	return true, nil
}

// --- Job store mock ---

type mockJobStore struct {
	jobs map[uuid.UUID]*models.JobPost
}

func newMockJobStore() *mockJobStore {
	return &mockJobStore{jobs: make(map[uuid.UUID]*models.JobPost)}
}

func (m *mockJobStore) add(clientID uuid.UUID, status string) *models.JobPost {
	j := &models.JobPost{ID: uuid.New(), ClientID: clientID, Status: status}
	m.jobs[j.ID] = j
	return j
}

func (m *mockJobStore) GetByIDTx(_ context.Context, _ pgx.Tx, id uuid.UUID) (*models.JobPost, error) {
	j, ok := m.jobs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return j, nil
}

func (m *mockJobStore) UpdateStatusTx(_ context.Context, _ pgx.Tx, id uuid.UUID, status string) error {
	j, ok := m.jobs[id]
	if !ok {
		return pgx.ErrNoRows
	}
	j.Status = status
	return nil
}

// --- User directory mock ---

type mockUserDirectory struct {
	users map[uuid.UUID]*models.User
}

func newMockUserDirectory() *mockUserDirectory {
	return &mockUserDirectory{users: make(map[uuid.UUID]*models.User)}
}

func (m *mockUserDirectory) add(role string) *models.User {
	u := &models.User{ID: uuid.New(), Role: role}
	m.users[u.ID] = u
	return u
}

func (m *mockUserDirectory) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return u, nil
}

// --- Proposal store mock ---

type mockProposalStore struct {
	proposals map[uuid.UUID]*models.Proposal
}

func newMockProposalStore() *mockProposalStore {
	return &mockProposalStore{proposals: make(map[uuid.UUID]*models.Proposal)}
}

func (m *mockProposalStore) GetByIDForUpdate(_ context.Context, _ pgx.Tx, id uuid.UUID) (*models.Proposal, error) {
	p, ok := m.proposals[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return p, nil
}

func (m *mockProposalStore) UpdateStatusTx(_ context.Context, _ pgx.Tx, id uuid.UUID, status string) error {
	p, ok := m.proposals[id]
	if !ok {
		return pgx.ErrNoRows
	}
	p.Status = status
	return nil
}

func (m *mockProposalStore) RejectOthersTx(_ context.Context, _ pgx.Tx, jobID, acceptedID uuid.UUID) error {
	for _, p := range m.proposals {
		if p.JobID == jobID && p.ID != acceptedID && p.Status == models.ProposalStatusSubmitted {
			p.Status = models.ProposalStatusRejected
		}
	}
	return nil
}
