package effects

import "errors"

var ErrNilRootEffect = errors.New("nil root effect supplied")
var ErrNilRootEffectOutput = errors.New("root effect returned a nil stream")
var ErrNilOperationsSubject = errors.New("nil operations subject supplied")
var ErrEmptyDirectiveName = errors.New("empty directive name supplied")

// DefaultDirectiveName is the directive that marks an operation for publication.
const DefaultDirectiveName = "effect"
