package model

import "math/big"

// Fill is what a simulated take or spend would move through one book.
// TakenQuoteAmount leaves the book, SpentBaseAmount goes in.
type Fill struct {
	TakenQuoteAmount *big.Int
	SpentBaseAmount  *big.Int
}

func EmptyFill() Fill {
	return Fill{TakenQuoteAmount: new(big.Int), SpentBaseAmount: new(big.Int)}
}

func (f Fill) IsEmpty() bool {
	return f.TakenQuoteAmount.Sign() == 0 && f.SpentBaseAmount.Sign() == 0
}

type MarketFill struct {
	BookID *big.Int
	Fill
}

// Quote is the formatted result handed to transaction builders.
type Quote struct {
	BookID      string `json:"bookId"`
	TakenAmount string `json:"takenAmount"`
	SpentAmount string `json:"spentAmount"`
	TakenRaw    string `json:"takenRaw"`
	SpentRaw    string `json:"spentRaw"`
}
