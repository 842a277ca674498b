package agent

import "github.com/runningwild/grapher/pkg/analyze"

// DetectRequest asks for the features of one expression. A missing window
// means the default ±10 view.
type DetectRequest struct {
	Expression string          `json:"expression"`
	Window     *analyze.Window `json:"window,omitempty"`
}

type DetectResponse struct {
	Expression string            `json:"expression"`
	Normalized string            `json:"normalized"`
	Asymptotes []analyze.Feature `json:"asymptotes"`
	Holes      []analyze.Feature `json:"holes"`
}

// Features converts the response back into the analyze form.
func (r DetectResponse) Features() analyze.Features {
	return analyze.Features{Asymptotes: r.Asymptotes, Holes: r.Holes}
}

type EvaluateRequest struct {
	Expression string    `json:"expression"`
	Xs         []float64 `json:"xs"`
}

// EvaluateResponse holds one value per requested x; null where the
// expression is undefined.
type EvaluateResponse struct {
	Values []*float64 `json:"values"`
}

type SampleRequest struct {
	Expression string          `json:"expression"`
	Window     *analyze.Window `json:"window,omitempty"`
	Samples    int             `json:"samples,omitempty"`
}

type SampleResponse struct {
	Segments []analyze.Segment `json:"segments"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func (r DetectRequest) window() analyze.Window {
	if r.Window == nil {
		return analyze.DefaultWindow()
	}
	return *r.Window
}

func (r SampleRequest) window() analyze.Window {
	if r.Window == nil {
		return analyze.DefaultWindow()
	}
	return *r.Window
}
