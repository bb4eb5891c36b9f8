package encoder

import "go.uber.org/zap"

// DefaultMaxDepth is the recursion ceiling used when none is configured.
const DefaultMaxDepth = 999

// LocalIDPrefix marks client-generated identities of unsaved objects.
const LocalIDPrefix = "local"

// Options are the mode flags of an Encoder.
type Options struct {
	// Logger receives diagnostics. Nil means zap.NewNop().
	Logger *zap.Logger
	// MaxDepth is the recursion ceiling. Values <= 0 mean DefaultMaxDepth.
	MaxDepth int
	// DisallowObjects rejects domain objects anywhere in the input.
	DisallowObjects bool
	// ForcePointers reduces every domain object to its reference form.
	ForcePointers bool
	// Offline uses the offline reference form for objects with a local id.
	Offline bool
}

// Option configures an Encoder.
type Option func(*Options)

// DisallowObjects makes domain objects an error.
func DisallowObjects(disallow bool) Option {
	return func(o *Options) {
		o.DisallowObjects = disallow
	}
}

// ForcePointers makes every domain object encode as a reference.
func ForcePointers(force bool) Option {
	return func(o *Options) {
		o.ForcePointers = force
	}
}

// Offline enables the offline reference form for unsaved objects.
func Offline(offline bool) Option {
	return func(o *Options) {
		o.Offline = offline
	}
}

// MaxDepth overrides the recursion ceiling.
func MaxDepth(depth int) Option {
	return func(o *Options) {
		o.MaxDepth = depth
	}
}

// WithLogger sets the diagnostic sink. Per-step entries are logged at
// debug level and only built when the logger has debug enabled.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithOptions replaces all options at once.
func WithOptions(opts Options) Option {
	return func(o *Options) {
		*o = opts
	}
}

func (o *Options) normalize() {
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}
