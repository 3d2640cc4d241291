// Package service implements the domain services that own the
// persisted marketplace state: identity, catalog and cart. This file
// defines the sentinel errors shared by those services. Higher layers
// such as HTTP handlers compare against these values to pick a
// response; conditions that are expected outcomes rather than
// failures (a missing product, an absent cart line) are reported
// through nil pointers or booleans instead.
package service

import "errors"

// ErrEmailExists is returned by Register when another user already
// holds the requested email address.
var ErrEmailExists = errors.New("email already exists")

// ErrInvalidCredentials is returned by Login when the email is
// unknown or the password does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrNotAuthenticated is returned by operations that require an
// active session when none exists.
var ErrNotAuthenticated = errors.New("not authenticated")

// ErrForbidden is returned when the caller attempts an operation on a
// product they do not own. Handlers should translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrUnknownOwner is returned by CreateProduct when the owner id does
// not reference an existing user.
var ErrUnknownOwner = errors.New("owner does not exist")

// ErrInvalidCategory is returned when a product category is outside
// the fixed category set.
var ErrInvalidCategory = errors.New("invalid category")

// ErrNegativePrice is returned when a product price is below zero.
var ErrNegativePrice = errors.New("price must not be negative")
