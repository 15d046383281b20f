package gpixel

import "errors"

// Sentinel errors returned by this package's exported operations. Wrap with
// fmt.Errorf("...: %w", ErrXxx) when the caller needs the offending value;
// check with errors.Is.
var (
	// ErrInvalidMaxTimePeriod is returned when T is too small to host a
	// tree (T must be at least 3).
	ErrInvalidMaxTimePeriod = errors.New("gpixel: invalid max time period")

	// ErrNonPowerOfTwo is returned when T+1 is not a power of two, so no
	// depth l satisfies l = ceil(log2(T+1)) exactly.
	ErrNonPowerOfTwo = errors.New("gpixel: T+1 is not a power of two")

	// ErrInvalidPath is returned when a NodePath has the wrong length for
	// the tree depth, or contains a symbol outside {1,2}.
	ErrInvalidPath = errors.New("gpixel: invalid node path")

	// ErrInvalidNodeNum is returned when a time period t falls outside
	// [1, T+1].
	ErrInvalidNodeNum = errors.New("gpixel: invalid node number")

	// ErrNotEnoughGenerators is returned when a GeneratorSet has fewer BG
	// generators than a given tree depth requires.
	ErrNotEnoughGenerators = errors.New("gpixel: not enough generators")

	// ErrSigkeyNotFound is returned when the KeyStore has no secret
	// covering the requested time period.
	ErrSigkeyNotFound = errors.New("gpixel: signing key not found")

	// ErrSigkeyUpdateBackward is returned when an update is requested for
	// a time period strictly before SigManager.CurrentT.
	ErrSigkeyUpdateBackward = errors.New("gpixel: cannot move signing key backward")

	// ErrSigkeyAlreadyUpdated is returned by FastForwardUpdate when the
	// requested time period equals the current one.
	ErrSigkeyAlreadyUpdated = errors.New("gpixel: signing key already at requested time period")
)
