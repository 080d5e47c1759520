package memory

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/School-of-Solana/program-rishipunna/internal/ledger"
	"github.com/School-of-Solana/program-rishipunna/internal/ledger/storetest"
)

func TestStorageSuite(t *testing.T) {
	suite.Run(t, &storetest.Suite{
		NewStore: func(*testing.T) ledger.Store { return New() },
	})
}
