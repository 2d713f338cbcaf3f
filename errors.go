package allelenames

import "github.com/baditaflorin/go_allele_names/internal/core/domain"

// ParseError reports which token of an integer list failed to convert.
type ParseError = domain.ParseError

// ErrInvalidInteger matches every error returned by ParseIntList.
var ErrInvalidInteger = domain.ErrInvalidInteger
