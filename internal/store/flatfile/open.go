package flatfile

import "path/filepath"

// Canonical file names inside the data directory.
const (
	ExpenseFileName     = "expenses.csv"
	IncomeFileName      = "income.csv"
	PreferencesFileName = "preferences.json"
)

// Open returns the three flat-file stores rooted at dataDir. Files are
// created lazily on first write (or first preferences read).
func Open(dataDir string) (*ExpenseStore, *IncomeStore, *PreferencesStore) {
	return NewExpenseStore(filepath.Join(dataDir, ExpenseFileName)),
		NewIncomeStore(filepath.Join(dataDir, IncomeFileName)),
		NewPreferencesStore(filepath.Join(dataDir, PreferencesFileName))
}
