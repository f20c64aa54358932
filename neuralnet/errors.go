package neuralnet

import "fmt"

// ShapeError reports training data whose dimensions disagree with the
// configured network sizes. Detected before any epoch runs.
type ShapeError struct {
	Context string
	Want    int
	Got     int
}

func (e *ShapeError) Error() string {
	if e.Want == 0 && e.Got == 0 {
		return e.Context
	}
	return fmt.Sprintf("%s size (%d) is inconsistent with training data size (%d)", e.Context, e.Want, e.Got)
}

// UnknownNameError reports a name with no registered variant.
type UnknownNameError struct {
	Kind string
	Name string
}

func (e *UnknownNameError) Error() string {
	return fmt.Sprintf("unknown %s name %q", e.Kind, e.Name)
}

// UnimplementedError reports a recognized variant with no backing
// implementation.
type UnimplementedError struct {
	Kind string
	Name string
}

func (e *UnimplementedError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("unimplemented %s %q", e.Kind, e.Name)
	}
	return fmt.Sprintf("unimplemented %s", e.Kind)
}

// ResourceError reports a persistence stream that could not be opened.
type ResourceError struct {
	Op   string
	Path string
	Err  error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("unable to open %s for %s: %v", e.Path, e.Op, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }
