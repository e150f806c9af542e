package importer

import "github.com/JonMunkholm/tsimport/internal/tabular"

// SeparatorMode says where the field separator comes from.
// The zero value is SeparatorFromExtension.
type SeparatorMode struct {
	explicit bool
	value    string
}

// SeparatorFromExtension lets the loader infer the separator from the file
// extension or content.
func SeparatorFromExtension() SeparatorMode {
	return SeparatorMode{}
}

// ExplicitSeparator uses s as the separator. An empty s is equivalent to
// SeparatorFromExtension.
func ExplicitSeparator(s string) SeparatorMode {
	return SeparatorMode{explicit: true, value: s}
}

// Explicit reports whether a separator was given, and which.
func (m SeparatorMode) Explicit() (string, bool) {
	return m.value, m.explicit
}

// String implements fmt.Stringer for logging.
func (m SeparatorMode) String() string {
	if !m.explicit {
		return "from-extension"
	}
	if m.value == "" {
		return "auto"
	}
	return "explicit(" + m.value + ")"
}

// ImportOptions is built fresh for every import action at the input boundary
// (HTTP form, CLI flags) and consumed once by the resolver.
type ImportOptions struct {
	Separator SeparatorMode

	// HeaderPresent means the first row holds column names. When false the
	// loader assigns 0, 1, 2, ... as names.
	HeaderPresent bool

	// MissingValueToken, when non-empty, is recognized as missing in addition
	// to the loader's built-in tokens.
	MissingValueToken string

	// InterpolateMissing linearly fills missing cells after loading.
	InterpolateMissing bool
}

// DefaultOptions matches loading a file directly: separator from extension,
// header present, no extra token, no interpolation.
func DefaultOptions() ImportOptions {
	return ImportOptions{HeaderPresent: true}
}

// Resolve translates options into the loader's configuration. It is pure.
func Resolve(opts ImportOptions) tabular.Config {
	var cfg tabular.Config

	if s, ok := opts.Separator.Explicit(); ok && s != "" {
		cfg.Separator = &s
	}

	if opts.HeaderPresent {
		cfg.Header = tabular.HeaderInfer
	} else {
		cfg.Header = tabular.HeaderNone
	}

	if tok := opts.MissingValueToken; tok != "" {
		cfg.MissingValues = &tok
	}

	return cfg
}
