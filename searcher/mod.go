package searcher

import "errors"

// Hyperparameters for alpha-beta search

const MaxDepth = 4

// Per-ply discount, mildly preferring faster and more certain outcomes
const Discount = 0.999999

// Cumulative probability kept by truncated chance nodes
const DefaultTruncation = 0.8

var ErrNoMove = errors.New("no legal move-set")
