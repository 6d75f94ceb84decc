// Package testing provides a reusable contract test suite for snapshot.Store
// implementations.
package testing

import (
	"testing"

	"github.com/marmos91/mountscope/pkg/snapshot"
)

// StoreTestSuite is a contract test suite for snapshot.Store implementations.
// It tests the interface contract, not implementation details, making it
// reusable across the memory, badger and s3 stores.
type StoreTestSuite struct {
	// NewStore is a factory function that creates a fresh Store instance
	// for each test. This ensures test isolation.
	NewStore func() snapshot.Store
}

// Run executes all tests in the suite.
func (suite *StoreTestSuite) Run(test *testing.T) {
	test.Run("Save", suite.RunSaveTests)
	test.Run("Get", suite.RunGetTests)
	test.Run("List", suite.RunListTests)
	test.Run("Delete", suite.RunDeleteTests)
}
