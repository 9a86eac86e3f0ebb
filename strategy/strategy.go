// Package strategy defines the closed set of linking strategies for embedding
// the ONNX Runtime into the plugin binary, and the CLI token parser that
// selects exactly one of them per run.
package strategy

// Strategy is the closed variant over the supported build strategies.
// Exactly one Strategy is active per invocation; it is immutable once parsed.
type Strategy int

const (
	// Dynamic links against a system-provided shared ONNX Runtime.
	// This is the default when no token is supplied.
	Dynamic Strategy = iota

	// Static bundles the vendor-distributed runtime archive downloaded at
	// build time.
	Static

	// Minimal links a locally built, size-reduced runtime produced by the
	// separate containerized build.
	Minimal

	// Help prints usage text and exits successfully.
	Help

	// Invalid is the terminal state for any unrecognized token.
	Invalid
)

// Parse maps a single CLI token to a Strategy.
// Matching is case-sensitive and exact: "dynamic", "static", "minimal",
// "-h", "--help", "help". The empty token maps to Dynamic; anything else
// maps to Invalid. There is no fall-through.
//
// This is a pure function with no side effects.
func Parse(token string) Strategy {
	switch token {
	case "":
		return Dynamic
	case "dynamic":
		return Dynamic
	case "static":
		return Static
	case "minimal":
		return Minimal
	case "-h", "--help", "help":
		return Help
	default:
		return Invalid
	}
}

// String returns the CLI token for the strategy.
func (s Strategy) String() string {
	switch s {
	case Dynamic:
		return "dynamic"
	case Static:
		return "static"
	case Minimal:
		return "minimal"
	case Help:
		return "help"
	default:
		return "invalid"
	}
}

// IsBuild returns true for the three strategies that run the build command.
func (s Strategy) IsBuild() bool {
	return s == Dynamic || s == Static || s == Minimal
}

// Usage returns the CLI usage text.
func Usage() string {
	return `Usage: ortbuild [strategy]

Build the neural audio plugin with one of three ONNX Runtime linking strategies:

  dynamic   Link against a system-provided shared ONNX Runtime (default)
  static    Bundle the vendor-distributed runtime archive (downloaded at build time)
  minimal   Link the locally built, size-reduced static runtime
            (requires the containerized minimal runtime build to have run first)

Options:
  -h, --help, help   Show this help text
`
}
