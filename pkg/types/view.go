package types

// ViewKind distinguishes a normal answer from an error display.
type ViewKind string

const (
	ViewAnswer ViewKind = "answer"
	ViewError  ViewKind = "error"
)

// RenderedView is a render-ready result. Answer, Context and Score are set
// for ViewAnswer, Error for ViewError.
type RenderedView struct {
	Kind    ViewKind `json:"kind"`
	Answer  string   `json:"answer,omitempty"`
	Context string   `json:"context,omitempty"`
	Score   string   `json:"score,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// IsError reports whether the view displays a failure.
func (v RenderedView) IsError() bool {
	return v.Kind == ViewError
}
