package config

const SourceFileExt = ".elim"

// SourceFileExtensions are all recognized source file extensions
var SourceFileExtensions = []string{SourceFileExt, ".el"}

// ConfigFileNames are looked up, in order, in every directory from the
// input file up to the filesystem root.
var ConfigFileNames = []string{"elimc.yaml", "elimc.yml"}

// DefaultMissingClausesLimit caps the number of missing-clause witnesses
// reported for one definition.
const DefaultMissingClausesLimit = 10

// DefaultMaxNumberPattern is the largest number accepted in a pattern.
// A number pattern unfolds into that many nested suc splits.
const DefaultMaxNumberPattern = 1000

const DefaultServerAddr = "127.0.0.1:7878"

// Built-in type and constructor names
const (
	NatTypeName      = "Nat"
	ZeroCtorName     = "zero"
	SucCtorName      = "suc"
	IntervalTypeName = "I"
	LeftCtorName     = "left"
	RightCtorName    = "right"
	TupleCtorName    = "tuple"
)

// Colour modes for terminal output
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Version is reported by `elimc version`.
// Can be set at build time using: -ldflags "-X github.com/funvibe/elimc/internal/config.Version=..."
var Version = "0.1.0"
