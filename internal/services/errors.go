// Package services wires the plan-generation pipeline: profile enrichment,
// prompt composition, model invocation and the detached delivery side effect.
// This file centralizes the service-level error values so that they can be
// consistently returned by stages and checked by callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import "errors"

var (
	// ErrValidation indicates the request body was absent or could not be
	// interpreted as structured input. Maps to 400.
	ErrValidation = errors.New("invalid request payload")

	// ErrConfiguration indicates a required credential is missing. The
	// credential's name never reaches the client.
	ErrConfiguration = errors.New("service not configured")

	// ErrUpstream indicates the language model provider failed or returned
	// no usable text.
	ErrUpstream = errors.New("upstream model failure")
)
