package core

// CategoryAmount represents an amount aggregated by category.
type CategoryAmount struct {
	Category Category
	Amount   Money
}

// CategoryGroup is an ordered bucket of transactions sharing one category.
type CategoryGroup struct {
	Category     Category
	Transactions []Transaction
}
