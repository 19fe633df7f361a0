package commons

import "errors"

var ErrRecordNotFound = errors.New("record not found")
var ErrInvalidAmount = errors.New("amount must be greater than zero")
var ErrInsufficientFunds = errors.New("insufficient funds")
var ErrSameAccount = errors.New("source and destination accounts are the same")
var ErrDuplicateUsername = errors.New("username already taken")
var ErrAuthenticationFailed = errors.New("authentication failed")
