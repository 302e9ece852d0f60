package repositories

import (
	"testing"
	"time"

	"budget-buddy/internal/database"
	"budget-buddy/internal/models"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// TransactionRepositoryTestSuite is the test suite for the ledger repository
type TransactionRepositoryTestSuite struct {
	suite.Suite
	db   *database.DB
	repo TransactionRepositoryInterface
	ids  map[string]uint64
}

func TestTransactionRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionRepositoryTestSuite))
}

func (s *TransactionRepositoryTestSuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewTransactionRepository(s.db.DB)
	s.ids = make(map[string]uint64)

	fixtures := []database.TestEntry{
		{Date: "2024-03-01", Description: "Corner Market", Category: "Groceries", Amount: "-12.50", Account: "Checking"},
		{Date: "2024-03-02", Description: "Paycheck", Category: "Salary", Amount: "2000.00", Account: "Savings"},
		{Date: "2024-03-03", Description: "Super MARKET run", Category: "Groceries", Amount: "-85.20", Account: "Credit Card"},
		{Date: "2024-03-03", Category: "Rent", Amount: "-1200.00", Account: "Checking"},
		{Date: "2024-03-05", Description: "Cinema", Amount: "-9.99", Account: "Checking"},
	}
	for _, fixture := range fixtures {
		entry := database.CreateTestEntry(s.T(), s.db, fixture)
		key := fixture.Description
		if key == "" {
			key = fixture.Category
		}
		s.ids[key] = entry.ID
	}
}

func (s *TransactionRepositoryTestSuite) descriptions(entries []models.LedgerEntry) []string {
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Description == nil {
			out = append(out, "<"+*entry.CategoryName+">")
			continue
		}
		out = append(out, *entry.Description)
	}
	return out
}

func date(value string) *time.Time {
	parsed, _ := time.Parse(models.DateLayout, value)
	return &parsed
}

func amount(value string) *decimal.Decimal {
	parsed := decimal.RequireFromString(value)
	return &parsed
}

func (s *TransactionRepositoryTestSuite) TestList_DefaultOrderIsNewestFirst() {
	entries, err := s.repo.List(models.LedgerQuery{})

	require.NoError(s.T(), err)
	assert.Equal(s.T(), []string{"Cinema", "<Rent>", "Super MARKET run", "Paycheck", "Corner Market"}, s.descriptions(entries))
}

func (s *TransactionRepositoryTestSuite) TestList_SortOrders() {
	testCases := []struct {
		sort     models.SortOrder
		expected []string
	}{
		{models.SortDateAsc, []string{"Corner Market", "Paycheck", "Super MARKET run", "<Rent>", "Cinema"}},
		{models.SortAmountDesc, []string{"Paycheck", "Cinema", "Corner Market", "Super MARKET run", "<Rent>"}},
		{models.SortAmountAsc, []string{"<Rent>", "Super MARKET run", "Corner Market", "Cinema", "Paycheck"}},
	}

	for _, tc := range testCases {
		s.Run(string(tc.sort), func() {
			entries, err := s.repo.List(models.LedgerQuery{Sort: tc.sort})
			require.NoError(s.T(), err)
			assert.Equal(s.T(), tc.expected, s.descriptions(entries))
		})
	}
}

func (s *TransactionRepositoryTestSuite) TestList_DateRangeIsInclusive() {
	entries, err := s.repo.List(models.LedgerQuery{
		StartDate: date("2024-03-02"),
		EndDate:   date("2024-03-03"),
		Sort:      models.SortDateAsc,
	})

	require.NoError(s.T(), err)
	assert.Equal(s.T(), []string{"Paycheck", "Super MARKET run", "<Rent>"}, s.descriptions(entries))
}

func (s *TransactionRepositoryTestSuite) TestList_ExactCategoryAndAccount() {
	entries, err := s.repo.List(models.LedgerQuery{Category: "Groceries", Account: "Checking"})

	require.NoError(s.T(), err)
	assert.Equal(s.T(), []string{"Corner Market"}, s.descriptions(entries))
}

func (s *TransactionRepositoryTestSuite) TestList_DescriptionIsCaseInsensitiveSubstring() {
	entries, err := s.repo.List(models.LedgerQuery{Description: "market", Sort: models.SortDateAsc})

	require.NoError(s.T(), err)
	assert.Equal(s.T(), []string{"Corner Market", "Super MARKET run"}, s.descriptions(entries))
}

func (s *TransactionRepositoryTestSuite) TestList_AmountRange() {
	entries, err := s.repo.List(models.LedgerQuery{
		MinAmount: amount("-100"),
		MaxAmount: amount("-10"),
		Sort:      models.SortAmountAsc,
	})

	require.NoError(s.T(), err)
	assert.Equal(s.T(), []string{"Super MARKET run", "Corner Market"}, s.descriptions(entries))
}

func (s *TransactionRepositoryTestSuite) TestList_Limit() {
	entries, err := s.repo.List(models.LedgerQuery{Limit: 2})

	require.NoError(s.T(), err)
	assert.Len(s.T(), entries, 2)
}

func (s *TransactionRepositoryTestSuite) TestList_NoMatchesIsEmptyNotNil() {
	entries, err := s.repo.List(models.LedgerQuery{Category: "Travel"})

	require.NoError(s.T(), err)
	assert.NotNil(s.T(), entries)
	assert.Empty(s.T(), entries)
}

func (s *TransactionRepositoryTestSuite) TestGetByID() {
	entry, err := s.repo.GetByID(s.ids["Paycheck"])

	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Savings", entry.AccountName)
	assert.True(s.T(), entry.Amount.Equal(decimal.RequireFromString("2000")))
	assert.Equal(s.T(), "2024-03-02", entry.Date.Format(models.DateLayout))
}

func (s *TransactionRepositoryTestSuite) TestGetByID_NotFound() {
	_, err := s.repo.GetByID(999999)

	assert.ErrorIs(s.T(), err, ErrTransactionNotFound)
}

func (s *TransactionRepositoryTestSuite) TestCreate() {
	description := gofakeit.Company()
	entry := &models.LedgerEntry{
		Date:        *date("2024-04-01"),
		Description: &description,
		Amount:      decimal.RequireFromString("-3.10"),
		AccountName: "Checking",
	}

	require.NoError(s.T(), s.repo.Create(entry))
	assert.NotZero(s.T(), entry.ID)

	total, err := s.repo.Count()
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(6), total)
}

func (s *TransactionRepositoryTestSuite) TestCreate_Nil() {
	assert.ErrorIs(s.T(), s.repo.Create(nil), ErrNilTransaction)
}

func (s *TransactionRepositoryTestSuite) TestCreate_RejectsInvalidEntry() {
	err := s.repo.Create(&models.LedgerEntry{Amount: decimal.RequireFromString("1.00"), AccountName: "Checking"})

	assert.ErrorIs(s.T(), err, models.ErrLedgerDateRequired)
}

func (s *TransactionRepositoryTestSuite) TestUpdate() {
	entry, err := s.repo.GetByID(s.ids["Corner Market"])
	require.NoError(s.T(), err)

	entry.Amount = decimal.RequireFromString("-15.75")
	entry.Description = nil
	rent := "Rent"
	entry.CategoryName = &rent
	entry.AccountName = "Savings"
	require.NoError(s.T(), s.repo.Update(entry))

	stored, err := s.repo.GetByID(entry.ID)
	require.NoError(s.T(), err)
	assert.True(s.T(), stored.Amount.Equal(decimal.RequireFromString("-15.75")))
	assert.Nil(s.T(), stored.Description)
	assert.Equal(s.T(), "Rent", *stored.CategoryName)
	assert.Equal(s.T(), "Savings", stored.AccountName)
}

func (s *TransactionRepositoryTestSuite) TestUpdate_NotFound() {
	err := s.repo.Update(&models.LedgerEntry{
		ID:          999999,
		Date:        *date("2024-04-01"),
		Amount:      decimal.RequireFromString("1.00"),
		AccountName: "Checking",
	})

	assert.ErrorIs(s.T(), err, ErrTransactionNotFound)
}

func (s *TransactionRepositoryTestSuite) TestDelete() {
	require.NoError(s.T(), s.repo.Delete(s.ids["Cinema"]))

	_, err := s.repo.GetByID(s.ids["Cinema"])
	assert.ErrorIs(s.T(), err, ErrTransactionNotFound)

	assert.ErrorIs(s.T(), s.repo.Delete(s.ids["Cinema"]), ErrTransactionNotFound)
}
