package usecase

import (
	"context"
	"errors"
	"testing"
)

func TestLedgerUseCase_CheckConsistency(t *testing.T) {
	dbDown := errors.New("db down")

	tests := []struct {
		name        string
		repo        *fakeLedgerRepository
		want        ConsistencyReport
		expectedErr error
	}{
		{
			name: "happy path consistent ledger",
			repo: &fakeLedgerRepository{},
			want: ConsistencyReport{},
		},
		{
			name:        "repo error surfaces",
			repo:        &fakeLedgerRepository{err: dbDown},
			expectedErr: dbDown,
		},
		{
			name:        "empty transactions",
			repo:        &fakeLedgerRepository{emptyTransactions: 2},
			want:        ConsistencyReport{EmptyTransactions: 2},
			expectedErr: ErrInconsistentLedger,
		},
		{
			name:        "empty rows",
			repo:        &fakeLedgerRepository{emptyRows: 1},
			want:        ConsistencyReport{EmptyRows: 1},
			expectedErr: ErrInconsistentLedger,
		},
		{
			name:        "both empty transactions and rows",
			repo:        &fakeLedgerRepository{emptyTransactions: 1, emptyRows: 3},
			want:        ConsistencyReport{EmptyTransactions: 1, EmptyRows: 3},
			expectedErr: ErrInconsistentLedger,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewLedgerUseCase(tt.repo)
			got, err := uc.CheckConsistency(context.Background())

			if tt.expectedErr != nil {
				if !errors.Is(err, tt.expectedErr) {
					t.Fatalf("expected error %v, got %v", tt.expectedErr, err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Fatalf("CheckConsistency() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLedgerUseCase_RepositoryInvoked(t *testing.T) {
	repo := &fakeLedgerRepository{}
	uc := NewLedgerUseCase(repo)

	if _, err := uc.CheckConsistency(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.calls != 1 {
		t.Fatalf("expected CheckConsistency to call repository once, got %d", repo.calls)
	}
}

type fakeLedgerRepository struct {
	emptyTransactions int64
	emptyRows         int64
	err               error
	calls             int
}

func (f *fakeLedgerRepository) CheckConsistency(ctx context.Context) (int64, int64, error) {
	f.calls++
	return f.emptyTransactions, f.emptyRows, f.err
}
